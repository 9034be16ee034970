package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrAlreadyConfigured is returned by a second Configure call
	ErrAlreadyConfigured = errors.New("autocomplete registry is already configured")
)

// Value is a single autocomplete suggestion
type Value struct {
	Value string `json:"value"`
	Title string `json:"title"`
	Group string `json:"group,omitempty"`
}

// Provider supplies suggestions for one form field
type Provider interface {
	// Query returns suggestions matching the user's input. dep carries the
	// values of fields the suggestion list depends on.
	Query(ctx context.Context, query string, dep map[string]any) ([]Value, error)
	// Values resolves previously selected raw values into suggestions
	Values(ctx context.Context, values []string) ([]Value, error)
}

// Resolver maps a field's autocomplete name to a provider, or nil for none.
// A typed nil pointer is treated the same as nil.
type Resolver func(name string) Provider

// None is a resolver that has no provider for any name
func None(name string) Provider {
	return nil
}

// Lookup outcomes reported to the observer
const (
	LookupHit  = "hit"  // served from cache
	LookupMiss = "miss" // resolved and cached
	LookupNone = "none" // no provider
)

const (
	cacheSize = 128
	cacheTTL  = 10 * time.Minute
)

var (
	resolver Resolver
	cache    = lru.NewLRU[string, Provider](cacheSize, nil, cacheTTL)
	observer func(outcome string)
	// mu protects resolver, cache and observer
	mu sync.RWMutex

	// resolving collapses concurrent first lookups of one name
	resolving singleflight.Group
)

type resolution struct {
	provider Provider
	outcome  string
}

// Configure registers the name-to-provider resolver
func Configure(r Resolver) error {
	if r == nil {
		return fmt.Errorf("cannot register nil autocomplete resolver")
	}

	mu.Lock()
	defer mu.Unlock()

	if resolver != nil {
		return ErrAlreadyConfigured
	}

	resolver = r
	cache.Purge()
	return nil
}

// SetObserver installs a callback invoked with the outcome of every lookup
func SetObserver(fn func(outcome string)) {
	mu.Lock()
	defer mu.Unlock()

	observer = fn
}

// Get returns the provider registered for name. Resolved providers are
// cached so repeated lookups share one instance.
func Get(name string) (Provider, bool) {
	mu.RLock()
	r := resolver
	notify := observer
	mu.RUnlock()

	report := func(outcome string) {
		if notify != nil {
			notify(outcome)
		}
	}

	if r == nil || name == "" {
		report(LookupNone)
		return nil, false
	}

	if p, ok := cache.Get(name); ok {
		report(LookupHit)
		return p, true
	}

	leader := false
	v, _, _ := resolving.Do(name, func() (any, error) {
		leader = true
		if p, ok := cache.Get(name); ok {
			return resolution{provider: p, outcome: LookupHit}, nil
		}

		p := r(name)
		if isNil(p) {
			return resolution{outcome: LookupNone}, nil
		}

		cache.Add(name, p)
		return resolution{provider: p, outcome: LookupMiss}, nil
	})

	res := v.(resolution)
	outcome := res.outcome
	if !leader && outcome == LookupMiss {
		// Waited on another caller's resolution
		outcome = LookupHit
	}
	report(outcome)

	return res.provider, res.provider != nil
}

func isNil(p Provider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Configured reports whether a resolver has been registered
func Configured() bool {
	mu.RLock()
	defer mu.RUnlock()

	return resolver != nil
}

// Reset clears the resolver, observer and provider cache
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	resolver = nil
	observer = nil
	cache.Purge()
}
