package form

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// FieldType defines the kind of value a field holds
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFloat   FieldType = "float"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeList    FieldType = "list"
)

// Form is a settings form schema rendered by the host platform
type Form struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Groups      []FieldGroup `json:"groups"`
	Button      string       `json:"button,omitempty"`
}

// FieldGroup is a titled set of fields
type FieldGroup struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Field describes a single input
type Field struct {
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Default      any       `json:"default,omitempty"`
	Required     bool      `json:"required"`
	Autocomplete string    `json:"autocomplete,omitempty"` // Autocomplete provider name
}

// Data is submitted form data: group name -> field name -> value
type Data map[string]map[string]any

// ValidationError represents a single invalid value
type ValidationError struct {
	Field   string `json:"field"` // group.field
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewForm creates an empty form
func NewForm() *Form {
	return &Form{Groups: []FieldGroup{}}
}

// AddGroup appends a group and returns the form for chaining
func (f *Form) AddGroup(group FieldGroup) *Form {
	f.Groups = append(f.Groups, group)
	return f
}

// Field looks up a field by group and name
func (f *Form) Field(group, name string) (Field, bool) {
	for _, g := range f.Groups {
		if g.Name != group {
			continue
		}
		for _, field := range g.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// AutocompleteNames returns the distinct provider names referenced by fields, sorted
func (f *Form) AutocompleteNames() []string {
	seen := make(map[string]struct{})
	for _, g := range f.Groups {
		for _, field := range g.Fields {
			if field.Autocomplete != "" {
				seen[field.Autocomplete] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check validates the schema itself: group and field names are unique and
// field types are known.
func (f *Form) Check() error {
	groups := make(map[string]bool)
	for _, g := range f.Groups {
		if g.Name == "" {
			return fmt.Errorf("group name is required")
		}
		if groups[g.Name] {
			return fmt.Errorf("duplicate group: %s", g.Name)
		}
		groups[g.Name] = true

		fields := make(map[string]bool)
		for _, field := range g.Fields {
			if field.Name == "" {
				return fmt.Errorf("field name is required in group %s", g.Name)
			}
			if fields[field.Name] {
				return fmt.Errorf("duplicate field: %s.%s", g.Name, field.Name)
			}
			fields[field.Name] = true

			switch field.Type {
			case FieldTypeString, FieldTypeInteger, FieldTypeFloat, FieldTypeBoolean, FieldTypeList:
			default:
				return fmt.Errorf("invalid type %q for field %s.%s", field.Type, g.Name, field.Name)
			}
		}
	}
	return nil
}

// Validate checks submitted data against the form
func (f *Form) Validate(data Data) []ValidationError {
	var errs []ValidationError

	for group, values := range data {
		for name := range values {
			if _, ok := f.Field(group, name); !ok {
				errs = append(errs, ValidationError{Field: group + "." + name, Message: "unknown field"})
			}
		}
	}

	for _, g := range f.Groups {
		for _, field := range g.Fields {
			key := g.Name + "." + field.Name
			value, present := data[g.Name][field.Name]

			if !present || value == nil || value == "" {
				if field.Required {
					errs = append(errs, ValidationError{Field: key, Message: "field is required"})
				}
				continue
			}

			if !matchesType(field.Type, value) {
				errs = append(errs, ValidationError{
					Field:   key,
					Message: fmt.Sprintf("expected %s value", field.Type),
				})
			}
		}
	}

	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Field < errs[j].Field
	})
	return errs
}

// matchesType accepts both native Go values and their JSON-decoded forms
func matchesType(t FieldType, value any) bool {
	switch t {
	case FieldTypeString:
		_, ok := value.(string)
		return ok
	case FieldTypeBoolean:
		_, ok := value.(bool)
		return ok
	case FieldTypeInteger:
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == math.Trunc(v)
		case json.Number:
			_, err := v.Int64()
			return err == nil
		}
		return false
	case FieldTypeFloat:
		switch v := value.(type) {
		case int, int32, int64, float32, float64:
			return true
		case json.Number:
			_, err := v.Float64()
			return err == nil
		}
		return false
	case FieldTypeList:
		switch value.(type) {
		case []any, []string:
			return true
		}
		return false
	}
	return false
}
