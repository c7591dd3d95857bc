package config

import (
	"fmt"
	"strings"
)

// EnvPrefix starts every environment variable the config reads.
const EnvPrefix = "JSONEDIT_"

// EnvName returns the environment variable for a config key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// loadFromEnv overrides config from JSONEDIT_* variables.
func loadFromEnv(w *WithSources, getenv func(string) string) error {
	for _, f := range fields {
		name := EnvName(f.key)
		v := getenv(name)
		if v == "" {
			continue
		}
		if err := w.Set(f.key, v, SourceEnv); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
