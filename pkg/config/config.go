// Package config loads YAML configuration files into typed structs.
//
// Environment references in the file body (${VAR} or $VAR) are expanded
// before decoding, so secrets such as the API auth token or the Neo4j
// password can stay out of the file:
//
//	auth:
//	  mode: token
//	  token: ${APP_AUTH_TOKEN}
//
// When the target implements Validator it is validated after decoding,
// which is how the application's config sections report bad values at
// startup instead of at first use.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by config types that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// Load decodes the YAML file at filename into target, expanding
// environment references first and running target's Validate when
// implemented. target keeps any field the file does not mention, so
// callers can pre-fill it with defaults.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadWithDefaults is Load with a fallback: when filename does not exist,
// defaultFile is loaded instead.
func LoadWithDefaults[T any](filename, defaultFile string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if defaultFile != "" {
			return Load(defaultFile, target)
		}
		return fmt.Errorf("config file not found: %s", filename)
	}
	return Load(filename, target)
}

// MustLoad is Load for wiring code where a bad config file is fatal.
func MustLoad[T any](filename string, target *T) {
	if err := Load(filename, target); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}
