package config

import (
	"os"
	"path/filepath"
	"strings"
)

const fileName = "jsonedit.toml"

// expandPath expands environment variables and a leading ~ in p.
func expandPath(p, home string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if home == "" {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	if strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

// findUserConfigFile checks ~/.jsonedit/jsonedit.toml first, then the OS
// config directory.
func findUserConfigFile(home, configDir string) string {
	var candidates []string
	if home != "" {
		candidates = append(candidates, filepath.Join(home, ".jsonedit", fileName))
	}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, "jsonedit", fileName))
	}
	return firstExisting(candidates)
}

// findProjectConfigFile looks for jsonedit.toml or .jsonedit.toml in dir.
func findProjectConfigFile(dir string) string {
	return firstExisting([]string{
		filepath.Join(dir, fileName),
		filepath.Join(dir, "."+fileName),
	})
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
