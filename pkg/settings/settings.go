package settings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/platinummonkey/pluginkit/pkg/form"
)

var (
	// ErrNotConfigured is returned when the form is requested before SetForm
	ErrNotConfigured = errors.New("settings form is not configured")
	// ErrAlreadyConfigured is returned by a second SetForm call
	ErrAlreadyConfigured = errors.New("settings form is already configured")
)

// FormFactory produces the settings form on demand
type FormFactory func() *form.Form

var (
	factory FormFactory
	// mu protects factory
	mu sync.RWMutex
)

// SetForm registers the settings form factory
func SetForm(f FormFactory) error {
	if f == nil {
		return fmt.Errorf("cannot register nil form factory")
	}

	mu.Lock()
	defer mu.Unlock()

	if factory != nil {
		return ErrAlreadyConfigured
	}

	factory = f
	return nil
}

// GetForm builds a fresh settings form from the registered factory
func GetForm() (*form.Form, error) {
	mu.RLock()
	f := factory
	mu.RUnlock()

	if f == nil {
		return nil, ErrNotConfigured
	}

	built := f()
	if built == nil {
		return nil, fmt.Errorf("settings form factory returned nil")
	}
	if err := built.Check(); err != nil {
		return nil, fmt.Errorf("invalid settings form: %w", err)
	}
	return built, nil
}

// Reset clears the registered factory
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	factory = nil
}
