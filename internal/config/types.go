package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceFile     Source = "config file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Default values.
const (
	DefaultStore        = "file"
	DefaultDataDir      = "~/.jsonedit"
	DefaultHistoryKey   = "history.json"
	DefaultHistoryLimit = 100
	DefaultDebounceMS   = 500
	DefaultIndent       = "2"
	DefaultTheme        = "light"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for jsonedit.
type Config struct {
	// Persistence
	Store      string `toml:"store"`
	DataDir    string `toml:"data_dir"`
	HistoryKey string `toml:"history_key"`

	// Editor behaviour
	HistoryLimit int    `toml:"history_limit"`
	DebounceMS   int    `toml:"debounce_ms"`
	AutoFormat   bool   `toml:"auto_format"`
	Indent       string `toml:"indent"`
	Theme        string `toml:"theme"`

	// Export
	DownloadsDir string `toml:"downloads_dir"`
	ClipboardCmd string `toml:"clipboard_cmd"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// WithSources pairs a config with the source of each key.
type WithSources struct {
	Config  *Config
	Sources map[string]Source
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Setting is one resolved key for display.
type Setting struct {
	Key    string
	Value  string
	Source Source
}

// Settings lists every key in a stable order.
func (w *WithSources) Settings() []Setting {
	out := make([]Setting, 0, len(fields))
	for _, f := range fields {
		out = append(out, Setting{Key: f.key, Value: f.get(w.Config), Source: w.Sources[f.key]})
	}
	return out
}

// Set assigns a key from its string form and records source for it.
func (w *WithSources) Set(key, value string, source Source) error {
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := f.set(w.Config, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	w.Sources[key] = source
	return nil
}

// IndentText returns the indent unit: a count of spaces, "tab", or the
// literal string.
func (c *Config) IndentText() string {
	switch s := c.Indent; {
	case s == "tab" || s == "\t":
		return "\t"
	case isDigits(s):
		n, _ := strconv.Atoi(s)
		return strings.Repeat(" ", n)
	default:
		return s
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type field struct {
	key string
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(key string, ptr func(*Config) *string) field {
	return field{
		key: key,
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error { *ptr(c) = v; return nil },
	}
}

func intField(key string, ptr func(*Config) *int) field {
	return field{
		key: key,
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(key string, ptr func(*Config) *bool) field {
	return field{
		key: key,
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			*ptr(c) = b
			return nil
		},
	}
}

var fields = []field{
	stringField("store", func(c *Config) *string { return &c.Store }),
	stringField("data_dir", func(c *Config) *string { return &c.DataDir }),
	stringField("history_key", func(c *Config) *string { return &c.HistoryKey }),
	intField("history_limit", func(c *Config) *int { return &c.HistoryLimit }),
	intField("debounce_ms", func(c *Config) *int { return &c.DebounceMS }),
	boolField("auto_format", func(c *Config) *bool { return &c.AutoFormat }),
	stringField("indent", func(c *Config) *string { return &c.Indent }),
	stringField("theme", func(c *Config) *string { return &c.Theme }),
	stringField("downloads_dir", func(c *Config) *string { return &c.DownloadsDir }),
	stringField("clipboard_cmd", func(c *Config) *string { return &c.ClipboardCmd }),
	stringField("log_level", func(c *Config) *string { return &c.LogLevel }),
	stringField("log_format", func(c *Config) *string { return &c.LogFormat }),
	boolField("log_timestamps", func(c *Config) *bool { return &c.LogTimestamps }),
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// Keys returns every configuration key.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}
