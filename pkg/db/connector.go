package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported engine identifiers
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrNotConfigured is returned when the connector is used before Configure
	ErrNotConfigured = errors.New("db connector is not configured")
	// ErrAlreadyConfigured is returned by a second Configure call
	ErrAlreadyConfigured = errors.New("db connector is already configured")
	// ErrUnsupportedEngine is returned for an unknown engine identifier
	ErrUnsupportedEngine = errors.New("unsupported database engine")
)

// Config holds database connection parameters
type Config struct {
	Engine  string        // sqlite or postgres
	File    string        // Database file (sqlite)
	DSN     string        // Connection string (postgres)
	Timeout time.Duration // Ping timeout
}

var (
	// conn is the package-level connection handle
	conn   *sql.DB
	engine string
	// mu protects conn and engine
	mu sync.RWMutex
)

// Configure opens the database described by cfg and stores it as the
// process-wide connection.
func Configure(cfg Config) error {
	driver, source, err := resolve(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if conn != nil {
		return ErrAlreadyConfigured
	}

	if cfg.Engine == EngineSQLite {
		// The file and its parent directory must be writable
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Engine, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping %s database: %w", cfg.Engine, err)
	}

	if cfg.Engine == EngineSQLite {
		// database/sql would otherwise hand out independent :memory: databases
		db.SetMaxOpenConns(1)
	}

	conn = db
	engine = cfg.Engine
	return nil
}

// ConfigureWithDB adopts an already opened handle as the process-wide connection
func ConfigureWithDB(eng string, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("cannot configure nil database")
	}
	if eng != EngineSQLite && eng != EnginePostgres {
		return fmt.Errorf("%w: %q", ErrUnsupportedEngine, eng)
	}

	mu.Lock()
	defer mu.Unlock()

	if conn != nil {
		return ErrAlreadyConfigured
	}

	conn = db
	engine = eng
	return nil
}

// DB returns the configured connection
func DB() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()

	if conn == nil {
		return nil, ErrNotConfigured
	}
	return conn, nil
}

// Engine returns the configured engine identifier, or "" before Configure
func Engine() string {
	mu.RLock()
	defer mu.RUnlock()

	return engine
}

// Close closes the connection; the connector can be configured again afterwards
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if conn == nil {
		return nil
	}

	err := conn.Close()
	conn = nil
	engine = ""
	return err
}

// Reset drops the connection without closing it
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	conn = nil
	engine = ""
}

// resolve maps a Config to a database/sql driver name and data source
func resolve(cfg Config) (string, string, error) {
	switch cfg.Engine {
	case EngineSQLite:
		if cfg.File == "" {
			return "", "", fmt.Errorf("database file is required for sqlite engine")
		}
		return "sqlite3", cfg.File, nil
	case EnginePostgres:
		if cfg.DSN == "" {
			return "", "", fmt.Errorf("DSN is required for postgres engine")
		}
		return "postgres", cfg.DSN, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedEngine, cfg.Engine)
	}
}
