// Package settings manages persistent user settings for the confgen CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Defaults used when a setting is not configured
const (
	DefaultHWIDPath  = "/etc/confgen/hwid.yaml"
	DefaultAuditLog  = "/var/log/confgen/audit.log"
	DefaultRedisAddr = "127.0.0.1:6379"
)

// Settings holds persistent user preferences
type Settings struct {
	// HWIDPath is the hardware-ID table file (YAML or TOML)
	HWIDPath string `json:"hwid_path,omitempty"`

	// RedisAddr is the Redis instance holding the HWID table, if any
	RedisAddr string `json:"redis_addr,omitempty"`

	// AuditLog is the audit trail file
	AuditLog string `json:"audit_log,omitempty"`

	// OutputPath is where render writes the FRR configuration when -o is
	// not given
	OutputPath string `json:"output_path,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "confgen_settings.json"
	}
	return filepath.Join(home, ".confgen", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path. A missing file yields empty
// settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetHWIDPath returns the HWID table path (with fallback)
func (s *Settings) GetHWIDPath() string {
	if s.HWIDPath != "" {
		return s.HWIDPath
	}
	return DefaultHWIDPath
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return DefaultAuditLog
}

// GetRedisAddr returns the configured Redis address (with fallback)
func (s *Settings) GetRedisAddr() string {
	if s.RedisAddr != "" {
		return s.RedisAddr
	}
	return DefaultRedisAddr
}

// field maps setting keys, as used on the command line, to their storage
func (s *Settings) field(key string) (*string, bool) {
	switch key {
	case "hwid_path":
		return &s.HWIDPath, true
	case "redis_addr":
		return &s.RedisAddr, true
	case "audit_log":
		return &s.AuditLog, true
	case "output_path":
		return &s.OutputPath, true
	}
	return nil, false
}

// Keys lists the setting names accepted by Get and Set
func Keys() []string {
	keys := []string{"audit_log", "hwid_path", "output_path", "redis_addr"}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value of a setting
func (s *Settings) Get(key string) (string, error) {
	p, ok := s.field(key)
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return *p, nil
}

// Set assigns a setting. An empty value restores the default.
func (s *Settings) Set(key, value string) error {
	p, ok := s.field(key)
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	*p = value
	return nil
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
