// Package config loads Atlas configuration from the environment. Every
// binary declares a struct with `env` tags (ATLAS_-prefixed variables)
// and layers command-line flags on top of the parsed values.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from environment variables according to its
// `env` struct tags, applying envDefault values for unset variables.
func ParseEnv(target any) error {
	if target == nil {
		return errors.New("parse env: target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
