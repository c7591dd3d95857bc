// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.jsonedit/jsonedit.toml or the OS config directory)
// 3. Project config file (jsonedit.toml or .jsonedit.toml in the working directory)
// 4. Environment variables (JSONEDIT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. An
// explicit --config file replaces the user and project lookup.
//
// User-level config locations:
// - ~/.jsonedit/jsonedit.toml (preferred)
// - Linux/BSD: $XDG_CONFIG_HOME/jsonedit/jsonedit.toml or ~/.config/jsonedit/jsonedit.toml
// - macOS: ~/Library/Application Support/jsonedit/jsonedit.toml
// - Windows: %AppData%\jsonedit\jsonedit.toml
package config
