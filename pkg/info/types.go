package info

import (
	"fmt"
	"net"
	"net/mail"
	"strings"
)

// PluginType defines the category of plugin
type PluginType string

const (
	PluginTypeMacros      PluginType = "macros"
	PluginTypeIntegration PluginType = "integration"
	PluginTypeLogistic    PluginType = "logistic"
	PluginTypeChat        PluginType = "chat"
	PluginTypePBX         PluginType = "pbx"
	PluginTypeGeocoder    PluginType = "geocoder"
)

// PluginTypes lists every known plugin type
var PluginTypes = []PluginType{
	PluginTypeMacros,
	PluginTypeIntegration,
	PluginTypeLogistic,
	PluginTypeChat,
	PluginTypePBX,
	PluginTypeGeocoder,
}

// Valid reports whether t is a known plugin type
func (t PluginType) Valid() bool {
	for _, known := range PluginTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Developer is the contact record of the plugin's author
type Developer struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Hostname string `json:"hostname" yaml:"hostname"`
}

// NewDeveloper creates a validated developer record
func NewDeveloper(name, email, hostname string) (Developer, error) {
	d := Developer{Name: name, Email: email, Hostname: hostname}
	if err := d.Validate(); err != nil {
		return Developer{}, err
	}
	return d, nil
}

// Validate checks that every contact field is present and well-formed
func (d Developer) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("developer name is required")
	}

	if d.Email == "" {
		return fmt.Errorf("developer email is required")
	}
	addr, err := mail.ParseAddress(d.Email)
	if err != nil || addr.Address != d.Email {
		return fmt.Errorf("invalid developer email: %s", d.Email)
	}

	if d.Hostname == "" {
		return fmt.Errorf("developer hostname is required")
	}
	if !isHostname(d.Hostname) {
		return fmt.Errorf("invalid developer hostname: %s", d.Hostname)
	}

	return nil
}

// isHostname accepts bare DNS names and IP addresses, no scheme or path
func isHostname(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	if len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
				return false
			}
		}
	}
	return true
}
