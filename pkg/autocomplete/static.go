package autocomplete

import (
	"context"
	"strings"
)

// StaticProvider serves suggestions from a fixed list
type StaticProvider struct {
	values []Value
}

// NewStaticProvider creates a provider over values
func NewStaticProvider(values ...Value) *StaticProvider {
	copied := make([]Value, len(values))
	copy(copied, values)
	return &StaticProvider{values: copied}
}

// Query returns values whose title or value contains query, case-insensitively.
// An empty query returns every value.
func (p *StaticProvider) Query(ctx context.Context, query string, dep map[string]any) ([]Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	result := make([]Value, 0, len(p.values))
	for _, v := range p.values {
		if needle == "" ||
			strings.Contains(strings.ToLower(v.Title), needle) ||
			strings.Contains(strings.ToLower(v.Value), needle) {
			result = append(result, v)
		}
	}
	return result, nil
}

// Values returns the known values among values, in the requested order
func (p *StaticProvider) Values(ctx context.Context, values []string) ([]Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := make(map[string]Value, len(p.values))
	for _, v := range p.values {
		index[v.Value] = v
	}

	result := make([]Value, 0, len(values))
	for _, raw := range values {
		if v, ok := index[raw]; ok {
			result = append(result, v)
		}
	}
	return result, nil
}
