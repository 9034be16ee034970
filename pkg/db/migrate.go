package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// schema holds the framework tables, in creation order
var schema = []string{
	`CREATE TABLE IF NOT EXISTS plugin_settings (
		owner_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the framework tables on the configured connection
func Migrate(ctx context.Context) error {
	conn, err := DB()
	if err != nil {
		return err
	}

	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}

// Rebind rewrites '?' placeholders into the configured engine's syntax
func Rebind(query string) string {
	if Engine() != EnginePostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
