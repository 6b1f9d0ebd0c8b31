package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader is an interface for loading configuration
type Loader interface {
	Load() (*Config, error)
}

// FileLoader loads configuration from a YAML or JSON file
type FileLoader struct {
	path string
}

// NewFileLoader creates a new FileLoader
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and parses the configuration file.
// Supports YAML (.yaml, .yml) and JSON (.json); the format is detected from
// the file extension. Environment variable references (${VAR} or
// ${VAR:-default}) are expanded before parsing.
func (l *FileLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, l.path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = expandEnv(data)

	var cfg Config
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional fields
func applyDefaults(cfg *Config) {
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = "15s"
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "leveldb"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// envVarPattern matches ${VAR} or ${VAR:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnv replaces environment variable references in file contents
// before unmarshaling, so secrets can stay out of the file itself.
func expandEnv(input []byte) []byte {
	return envVarPattern.ReplaceAllFunc(input, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		defaultValue := ""
		hasDefault := len(parts) >= 4 && len(parts[2]) > 0
		if hasDefault {
			defaultValue = string(parts[3])
		}

		if value, exists := os.LookupEnv(varName); exists && value != "" {
			return []byte(value)
		}
		if hasDefault {
			return []byte(defaultValue)
		}
		return nil
	})
}
