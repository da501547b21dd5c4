package config

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// SettingsPaths returns the Claude settings files consulted for credentials,
// highest precedence first. projectDir may be empty.
func SettingsPaths(projectDir string) []string {
	var paths []string

	if projectDir != "" {
		paths = append(paths,
			filepath.Join(projectDir, ".claude", "settings.local.json"),
			filepath.Join(projectDir, ".claude", "settings.json"),
		)
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".claude", "settings.json"))
	}

	return paths
}

// settingsEnv holds the "env" objects of the settings files that could be read,
// in precedence order.
type settingsEnv []gjson.Result

// loadSettingsEnv reads every settings file in paths. Missing or malformed
// files are skipped.
func loadSettingsEnv(paths []string) settingsEnv {
	var envs settingsEnv
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil || !gjson.ValidBytes(data) {
			continue
		}
		env := gjson.GetBytes(data, "env")
		if env.IsObject() {
			envs = append(envs, env)
		}
	}
	return envs
}

// lookup returns the first non-empty string value of key. Keys are plain
// environment variable names, so they need no gjson path escaping.
func (s settingsEnv) lookup(key string) string {
	for _, env := range s {
		if v := env.Get(key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
