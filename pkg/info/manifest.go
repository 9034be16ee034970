package info

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// CurrentSDKAPIVersion is the current version of the plugin SDK API
const CurrentSDKAPIVersion = "1.0.0"

// Manifest is the static, serialized description of a plugin
type Manifest struct {
	ID          string         `yaml:"id"`          // Unique ID (e.g., "example-integration")
	Name        string         `yaml:"name"`        // Display name in the default language
	Description string         `yaml:"description"` // Short description
	Version     string         `yaml:"version"`     // Semver
	APIVersion  string         `yaml:"api_version"` // SDK API version
	Type        PluginType     `yaml:"type"`
	Developer   Developer      `yaml:"developer"`
	Extra       map[string]any `yaml:"extra,omitempty"`
}

// ValidationError represents a manifest validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Manifest snapshots the info into a manifest for the given plugin version
func (i *Info) Manifest(id, version string) *Manifest {
	return &Manifest{
		ID:          id,
		Name:        i.Name(),
		Description: i.Description(),
		Version:     version,
		APIVersion:  CurrentSDKAPIVersion,
		Type:        i.pluginType,
		Developer:   i.developer,
		Extra:       i.Extra(),
	}
}

// LoadManifest loads and parses a plugin manifest from a file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}

// SaveManifest writes a plugin manifest to a file, creating its directory
func SaveManifest(manifest *Manifest, path string) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ValidateManifest performs basic validation on a plugin manifest
func ValidateManifest(manifest *Manifest) []ValidationError {
	var errs []ValidationError

	if manifest.ID == "" {
		errs = append(errs, ValidationError{Field: "id", Message: "Plugin ID is required"})
	}
	if strings.TrimSpace(manifest.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "Plugin name is required"})
	}

	if manifest.Version == "" {
		errs = append(errs, ValidationError{Field: "version", Message: "Version is required"})
	} else if _, err := semver.StrictNewVersion(strings.TrimPrefix(manifest.Version, "v")); err != nil {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("Invalid semver format: %s", manifest.Version),
		})
	}

	if manifest.APIVersion == "" {
		errs = append(errs, ValidationError{Field: "api_version", Message: "API version is required"})
	} else if !IsCompatibleAPIVersion(manifest.APIVersion, CurrentSDKAPIVersion) {
		errs = append(errs, ValidationError{
			Field:   "api_version",
			Message: fmt.Sprintf("Incompatible API version: %s (SDK is %s)", manifest.APIVersion, CurrentSDKAPIVersion),
		})
	}

	if !manifest.Type.Valid() {
		errs = append(errs, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("Invalid plugin type: %q", manifest.Type),
		})
	}

	if err := manifest.Developer.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "developer", Message: err.Error()})
	}

	return errs
}

// IsCompatibleAPIVersion checks if a plugin's API version is compatible with the SDK.
// Versions are compatible when their major versions match.
func IsCompatibleAPIVersion(pluginAPIVersion, sdkAPIVersion string) bool {
	plugin, err := semver.NewVersion(pluginAPIVersion)
	if err != nil {
		return false
	}
	sdk, err := semver.NewVersion(sdkAPIVersion)
	if err != nil {
		return false
	}
	return plugin.Major() == sdk.Major()
}
