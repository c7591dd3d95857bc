package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadOptions locates the inputs of Load. Zero values use the process
// environment.
type LoadOptions struct {
	// File, when set, is the only config file read.
	File string
	// WorkDir is searched for a project config file.
	WorkDir string
	// HomeDir and ConfigDir locate the user config file and expand ~.
	HomeDir   string
	ConfigDir string
	Getenv    func(string) string
	// Flags holds values given on the command line, keyed by config key.
	Flags map[string]string
}

func (o *LoadOptions) fill() {
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.WorkDir = wd
		}
	}
	if o.HomeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			o.HomeDir = home
		}
	}
	if o.ConfigDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			o.ConfigDir = dir
		}
	}
}

// Load resolves the configuration and tracks the source of each value.
func Load(opts LoadOptions) (*WithSources, error) {
	opts.fill()

	w := &WithSources{Config: &Config{}, Sources: make(map[string]Source)}

	// 1. Defaults
	setDefaults(w.Config)
	for _, key := range Keys() {
		w.Sources[key] = SourceDefault
	}

	// 2-3. Config files
	if opts.File != "" {
		if err := loadConfigFile(w, opts.File, SourceFile); err != nil {
			return nil, err
		}
	} else {
		if path := findUserConfigFile(opts.HomeDir, opts.ConfigDir); path != "" {
			if err := loadConfigFile(w, path, SourceUserFile); err != nil {
				return nil, err
			}
		}
		if path := findProjectConfigFile(opts.WorkDir); path != "" {
			if err := loadConfigFile(w, path, SourceProjFile); err != nil {
				return nil, err
			}
		}
	}

	// 4. Environment
	if err := loadFromEnv(w, opts.Getenv); err != nil {
		return nil, err
	}

	// 5. Flags, applied in key order so errors are deterministic.
	keys := make([]string, 0, len(opts.Flags))
	for k := range opts.Flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.Set(k, opts.Flags[k], SourceFlag); err != nil {
			return nil, fmt.Errorf("flag %w", err)
		}
	}

	if err := finalizeConfig(w.Config, opts.HomeDir); err != nil {
		return nil, err
	}
	return w, nil
}

func setDefaults(cfg *Config) {
	cfg.Store = DefaultStore
	cfg.DataDir = DefaultDataDir
	cfg.HistoryKey = DefaultHistoryKey
	cfg.HistoryLimit = DefaultHistoryLimit
	cfg.DebounceMS = DefaultDebounceMS
	cfg.AutoFormat = false
	cfg.Indent = DefaultIndent
	cfg.Theme = DefaultTheme
	cfg.DownloadsDir = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}

// loadConfigFile decodes path over cfg. TOML decoding only touches keys
// present in the file, so the metadata tells which ones to attribute.
func loadConfigFile(w *WithSources, path string, source Source) error {
	meta, err := toml.DecodeFile(path, w.Config)
	if err != nil {
		return fmt.Errorf("loading %s %s: %w", source, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		return fmt.Errorf("loading %s %s: unknown keys: %s", source, path, strings.Join(names, ", "))
	}
	for _, key := range Keys() {
		if meta.IsDefined(key) {
			w.Sources[key] = source
		}
	}
	w.Files = append(w.Files, path)
	return nil
}

var logFormats = map[string]bool{"text": true, "json": true, "logfmt": true}

// finalizeConfig expands paths, derives defaults and rejects bad values.
func finalizeConfig(cfg *Config, home string) error {
	cfg.DataDir = expandPath(cfg.DataDir, home)
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = filepath.Join(cfg.DataDir, "downloads")
	}
	cfg.DownloadsDir = expandPath(cfg.DownloadsDir, home)

	var errs []error
	if cfg.DataDir == "" && cfg.Store != "memory" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if cfg.HistoryKey == "" {
		errs = append(errs, errors.New("history_key must not be empty"))
	}
	if cfg.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("history_limit must be positive, got %d", cfg.HistoryLimit))
	}
	if cfg.DebounceMS <= 0 {
		errs = append(errs, fmt.Errorf("debounce_ms must be positive, got %d", cfg.DebounceMS))
	}
	if !logFormats[strings.ToLower(cfg.LogFormat)] {
		errs = append(errs, fmt.Errorf("log_format must be text, json or logfmt, got %q", cfg.LogFormat))
	}
	return errors.Join(errs...)
}
