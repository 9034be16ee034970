package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/pluginkit/pkg/db"
	"github.com/platinummonkey/pluginkit/pkg/form"
)

// ErrNotFound is returned when no settings are stored for an owner
var ErrNotFound = errors.New("settings not found")

// InvalidDataError carries the form validation failures of rejected data
type InvalidDataError struct {
	Errors []form.ValidationError
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid settings data: %d validation errors (first: %s)", len(e.Errors), e.Errors[0].Error())
}

// Store persists settings data through the db connector
type Store struct {
	now func() time.Time
}

// NewStore creates a settings store
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Save validates data against the registered form and stores it for owner
func (s *Store) Save(ctx context.Context, owner string, data form.Data) error {
	if owner == "" {
		return fmt.Errorf("owner is required")
	}

	f, err := GetForm()
	if err != nil {
		return err
	}
	if errs := f.Validate(data); len(errs) > 0 {
		return &InvalidDataError{Errors: errs}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	conn, err := db.DB()
	if err != nil {
		return err
	}

	query := db.Rebind(`
		INSERT INTO plugin_settings (owner_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`)
	if _, err := conn.ExecContext(ctx, query, owner, string(payload), s.now().UTC()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// Load returns the settings stored for owner
func (s *Store) Load(ctx context.Context, owner string) (form.Data, error) {
	conn, err := db.DB()
	if err != nil {
		return nil, err
	}

	var payload string
	query := db.Rebind(`SELECT data FROM plugin_settings WHERE owner_id = ?`)
	err = conn.QueryRowContext(ctx, query, owner).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var data form.Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return data, nil
}

// Delete removes the settings stored for owner
func (s *Store) Delete(ctx context.Context, owner string) error {
	conn, err := db.DB()
	if err != nil {
		return err
	}

	query := db.Rebind(`DELETE FROM plugin_settings WHERE owner_id = ?`)
	result, err := conn.ExecContext(ctx, query, owner)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
