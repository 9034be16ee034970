package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForm() *Form {
	return NewForm().
		AddGroup(FieldGroup{
			Name:  "main",
			Title: "Main",
			Fields: []Field{
				{Name: "login", Type: FieldTypeString, Title: "Login", Required: true},
				{Name: "retries", Type: FieldTypeInteger, Title: "Retries"},
				{Name: "ratio", Type: FieldTypeFloat, Title: "Ratio"},
				{Name: "enabled", Type: FieldTypeBoolean, Title: "Enabled"},
			},
		}).
		AddGroup(FieldGroup{
			Name:  "mapping",
			Title: "Mapping",
			Fields: []Field{
				{Name: "status", Type: FieldTypeString, Title: "Status", Autocomplete: "status"},
				{Name: "users", Type: FieldTypeList, Title: "Users", Autocomplete: "user"},
				{Name: "fallback", Type: FieldTypeString, Title: "Fallback status", Autocomplete: "status"},
			},
		})
}

func TestNewForm(t *testing.T) {
	f := NewForm()
	assert.NotNil(t, f.Groups)
	assert.Empty(t, f.Groups)
	assert.NoError(t, f.Check())
	assert.Empty(t, f.Validate(nil))
	assert.Empty(t, f.AutocompleteNames())
}

func TestForm_Field(t *testing.T) {
	f := testForm()

	field, ok := f.Field("main", "login")
	require.True(t, ok)
	assert.True(t, field.Required)

	_, ok = f.Field("main", "status")
	assert.False(t, ok)
	_, ok = f.Field("missing", "login")
	assert.False(t, ok)
}

func TestForm_AutocompleteNames(t *testing.T) {
	assert.Equal(t, []string{"status", "user"}, testForm().AutocompleteNames())
}

func TestForm_Check(t *testing.T) {
	assert.NoError(t, testForm().Check())

	tests := []struct {
		name     string
		form     *Form
		contains string
	}{
		{"unnamed group", NewForm().AddGroup(FieldGroup{}), "group name is required"},
		{"duplicate group", NewForm().AddGroup(FieldGroup{Name: "a"}).AddGroup(FieldGroup{Name: "a"}), "duplicate group"},
		{"unnamed field", NewForm().AddGroup(FieldGroup{Name: "a", Fields: []Field{{Type: FieldTypeString}}}), "field name is required"},
		{"duplicate field", NewForm().AddGroup(FieldGroup{Name: "a", Fields: []Field{
			{Name: "x", Type: FieldTypeString}, {Name: "x", Type: FieldTypeString},
		}}), "duplicate field: a.x"},
		{"bad type", NewForm().AddGroup(FieldGroup{Name: "a", Fields: []Field{{Name: "x", Type: "date"}}}), "invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Check()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestForm_Validate(t *testing.T) {
	f := testForm()

	t.Run("valid", func(t *testing.T) {
		errs := f.Validate(Data{
			"main":    {"login": "admin", "retries": 3, "ratio": 0.5, "enabled": true},
			"mapping": {"status": "new", "users": []string{"1", "2"}},
		})
		assert.Empty(t, errs)
	})

	t.Run("required missing", func(t *testing.T) {
		errs := f.Validate(Data{"main": {"login": ""}})
		require.Len(t, errs, 1)
		assert.Equal(t, "main.login", errs[0].Field)
		assert.Equal(t, "field is required", errs[0].Message)
	})

	t.Run("type mismatch and unknown field", func(t *testing.T) {
		errs := f.Validate(Data{
			"main":  {"login": 42, "retries": 1.5, "enabled": "yes"},
			"other": {"x": 1},
		})
		require.Len(t, errs, 4)
		assert.Equal(t, "main.enabled", errs[0].Field)
		assert.Equal(t, "main.login", errs[1].Field)
		assert.Equal(t, "expected string value", errs[1].Message)
		assert.Equal(t, "main.retries", errs[2].Field)
		assert.Equal(t, "other.x", errs[3].Field)
		assert.Equal(t, "unknown field", errs[3].Message)
		assert.Equal(t, "other.x: unknown field", errs[3].Error())
	})
}

func TestForm_ValidateJSONDecoded(t *testing.T) {
	var data Data
	require.NoError(t, json.Unmarshal([]byte(`{
		"main": {"login": "admin", "retries": 5, "ratio": 2, "enabled": false},
		"mapping": {"users": ["1"]}
	}`), &data))

	assert.Empty(t, testForm().Validate(data))
}

func TestMatchesType(t *testing.T) {
	assert.True(t, matchesType(FieldTypeInteger, json.Number("12")))
	assert.False(t, matchesType(FieldTypeInteger, json.Number("1.2")))
	assert.True(t, matchesType(FieldTypeFloat, json.Number("1.2")))
	assert.False(t, matchesType(FieldTypeFloat, "1.2"))
	assert.False(t, matchesType(FieldTypeList, "a,b"))
	assert.False(t, matchesType("date", "2024-01-01"))
}
