package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotConfigured is returned when plugin info is read before Configure
	ErrNotConfigured = errors.New("plugin info is not configured")
	// ErrAlreadyConfigured is returned by a second Configure call
	ErrAlreadyConfigured = errors.New("plugin info is already configured")
)

// StringFunc produces a string on demand, usually a translation lookup
type StringFunc func() string

// Info describes the plugin to the host platform
type Info struct {
	pluginType  PluginType
	name        StringFunc
	description StringFunc
	extra       map[string]any
	developer   Developer
}

var (
	current *Info
	// mu protects current
	mu sync.RWMutex
)

// Configure registers the plugin's metadata. Name and description are
// evaluated on every read so they follow the active language.
func Configure(t PluginType, name, description StringFunc, extra map[string]any, developer Developer) error {
	i, err := New(t, name, description, extra, developer)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return ErrAlreadyConfigured
	}

	current = i
	return nil
}

// New builds a validated Info without registering it
func New(t PluginType, name, description StringFunc, extra map[string]any, developer Developer) (*Info, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid plugin type: %q", t)
	}
	if name == nil {
		return nil, fmt.Errorf("plugin name func is required")
	}
	if description == nil {
		return nil, fmt.Errorf("plugin description func is required")
	}
	if err := developer.Validate(); err != nil {
		return nil, err
	}

	copied := make(map[string]any, len(extra))
	for k, v := range extra {
		copied[k] = v
	}

	return &Info{
		pluginType:  t,
		name:        name,
		description: description,
		extra:       copied,
		developer:   developer,
	}, nil
}

// Get returns the registered plugin info
func Get() (*Info, error) {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil, ErrNotConfigured
	}
	return current, nil
}

// Reset clears the registered plugin info
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	current = nil
}

// Type returns the plugin type
func (i *Info) Type() PluginType {
	return i.pluginType
}

// Name evaluates the plugin name
func (i *Info) Name() string {
	return i.name()
}

// Description evaluates the plugin description
func (i *Info) Description() string {
	return i.description()
}

// Extra returns a copy of the capabilities map
func (i *Info) Extra() map[string]any {
	copied := make(map[string]any, len(i.extra))
	for k, v := range i.extra {
		copied[k] = v
	}
	return copied
}

// Developer returns the developer contact record
func (i *Info) Developer() Developer {
	return i.developer
}

// MarshalJSON renders the info with name and description resolved
func (i *Info) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        PluginType     `json:"type"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Extra       map[string]any `json:"extra"`
		Developer   Developer      `json:"developer"`
	}{
		Type:        i.pluginType,
		Name:        i.Name(),
		Description: i.Description(),
		Extra:       i.extra,
		Developer:   i.developer,
	})
}
