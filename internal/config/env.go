package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SLEEPER_"

// ApplyEnv overrides cfg fields from SLEEPER_* environment variables.
// Unset variables leave the current values untouched.
func ApplyEnv(cfg *Server) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
