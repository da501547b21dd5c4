package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/glm-statusline/internal/modelname"
	"github.com/j-veylop/glm-statusline/internal/monitor"
)

var allKeys = []string{
	EnvBaseURL, EnvAuthToken, EnvOpusModel, EnvSonnetModel, EnvHaikuModel,
	EnvTimeout, EnvCachePath, EnvHistoryPath, EnvLogPath, EnvLogLevel,
	EnvLayout, EnvNotifyThreshold,
}

// isolate points HOME and the working directory at a fresh temp dir and clears
// every key Load reads. Variables are restored when the test ends.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	for _, key := range allKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	t.Setenv(key, "test_value")

	if got := getEnvString(key, "default"); got != "test_value" {
		t.Errorf("getEnvString() = %q, want %q", got, "test_value")
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvOptional(t *testing.T) {
	key := "TEST_ENV_OPTIONAL"

	t.Setenv(key, "")
	if got := getEnvOptional(key, "default"); got != "" {
		t.Errorf("empty value should disable, got %q", got)
	}

	os.Unsetenv(key)
	if got := getEnvOptional(key, "default"); got != "default" {
		t.Errorf("unset value should select default, got %q", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "3s", time.Second, 3 * time.Second},
		{"Milliseconds", "1500", time.Second, 1500 * time.Millisecond},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	t.Setenv(key, "80")
	if got := getEnvInt(key, 0); got != 80 {
		t.Errorf("getEnvInt() = %d, want 80", got)
	}

	t.Setenv(key, "eighty")
	if got := getEnvInt(key, 5); got != 5 {
		t.Errorf("getEnvInt() = %d, want default 5", got)
	}
}

func TestGetEnvPaths(t *testing.T) {
	home := isolate(t)
	paths := getEnvPaths()

	want := []string{
		filepath.Join(home, ".env"),
		filepath.Join(home, ".config", "glmline", ".env"),
		filepath.Join(home, ".claude", ".env"),
	}
	if len(paths) != len(want) {
		t.Fatalf("getEnvPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "" || cfg.AuthToken != "" {
		t.Errorf("expected no credentials, got %q / %q", cfg.BaseURL, cfg.AuthToken)
	}
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.Layout != LayoutDouble {
		t.Errorf("Layout = %q, want double", cfg.Layout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Models != modelname.Default() {
		t.Errorf("Models = %+v, want defaults", cfg.Models)
	}
	if want := filepath.Join(home, ".cache", "glmline", "usage.json"); cfg.CachePath != want {
		t.Errorf("CachePath = %q, want %q", cfg.CachePath, want)
	}
	if want := filepath.Join(home, ".config", "glmline", "history.db"); cfg.HistoryPath != want {
		t.Errorf("HistoryPath = %q, want %q", cfg.HistoryPath, want)
	}
	if cfg.NotifyThreshold != 0 {
		t.Errorf("NotifyThreshold = %d, want 0", cfg.NotifyThreshold)
	}

	if _, err := cfg.APIConfig(); !errors.Is(err, monitor.ErrNoBaseURL) {
		t.Errorf("APIConfig() error = %v, want ErrNoBaseURL", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBaseURL, "https://open.bigmodel.cn/api/anthropic")
	t.Setenv(EnvAuthToken, "env-token")
	t.Setenv(EnvTimeout, "750ms")
	t.Setenv(EnvLayout, "SINGLE")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvHistoryPath, "")
	t.Setenv(EnvNotifyThreshold, "80")
	t.Setenv(EnvOpusModel, "GLM-5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Layout != LayoutSingle {
		t.Errorf("Layout = %q, want single", cfg.Layout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.HistoryPath != "" {
		t.Errorf("HistoryPath = %q, want disabled", cfg.HistoryPath)
	}
	if cfg.NotifyThreshold != 80 {
		t.Errorf("NotifyThreshold = %d, want 80", cfg.NotifyThreshold)
	}
	if cfg.Models.Opus != "GLM-5" || cfg.Models.Haiku != modelname.DefaultHaiku {
		t.Errorf("Models = %+v", cfg.Models)
	}

	api, err := cfg.APIConfig()
	if err != nil {
		t.Fatalf("APIConfig() failed: %v", err)
	}
	if api.QuotaURL != "https://open.bigmodel.cn"+monitor.QuotaLimitPath {
		t.Errorf("QuotaURL = %q", api.QuotaURL)
	}
	if api.AuthToken != "env-token" || api.Timeout != 750*time.Millisecond {
		t.Errorf("api = %+v", api)
	}
}

func TestLoad_InvalidLayout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLayout, "triple")

	if _, err := Load(""); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Load() error = %v, want ErrInvalidLayout", err)
	}
}

func TestLoad_NonPositiveTimeout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeout, "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".env"),
		EnvBaseURL+"=https://api.z.ai/api/anthropic\n"+EnvAuthToken+"=dotenv-token\n")
	t.Cleanup(func() {
		os.Unsetenv(EnvBaseURL)
		os.Unsetenv(EnvAuthToken)
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.AuthToken != "dotenv-token" {
		t.Errorf("AuthToken = %q, want dotenv-token", cfg.AuthToken)
	}
	if cfg.BaseURL != "https://api.z.ai/api/anthropic" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoad_SettingsPrecedence(t *testing.T) {
	home := isolate(t)
	project := filepath.Join(home, "project")

	writeFile(t, filepath.Join(home, ".claude", "settings.json"), `{"env":{
		"ANTHROPIC_BASE_URL":"https://api.z.ai/api/anthropic",
		"ANTHROPIC_AUTH_TOKEN":"user-token",
		"ANTHROPIC_DEFAULT_HAIKU_MODEL":"user-haiku"
	}}`)
	writeFile(t, filepath.Join(project, ".claude", "settings.json"), `{"env":{
		"ANTHROPIC_AUTH_TOKEN":"project-token",
		"ANTHROPIC_DEFAULT_SONNET_MODEL":"project-sonnet"
	}}`)
	writeFile(t, filepath.Join(project, ".claude", "settings.local.json"), `{"env":{
		"ANTHROPIC_AUTH_TOKEN":"local-token"
	}}`)

	cfg, err := Load(project)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AuthToken != "local-token" {
		t.Errorf("AuthToken = %q, want local-token", cfg.AuthToken)
	}
	if cfg.BaseURL != "https://api.z.ai/api/anthropic" {
		t.Errorf("BaseURL = %q, want user settings value", cfg.BaseURL)
	}
	if cfg.Models.Sonnet != "project-sonnet" || cfg.Models.Haiku != "user-haiku" {
		t.Errorf("Models = %+v", cfg.Models)
	}
	if len(cfg.SettingsFiles) != 3 {
		t.Errorf("SettingsFiles = %v, want 3 entries", cfg.SettingsFiles)
	}

	t.Setenv(EnvAuthToken, "process-token")
	cfg, err = Load(project)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.AuthToken != "process-token" {
		t.Errorf("process env should win, got %q", cfg.AuthToken)
	}
}

func TestLoadSettingsEnv_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.json")
	noEnv := filepath.Join(dir, "noenv.json")
	nonString := filepath.Join(dir, "nonstring.json")
	good := filepath.Join(dir, "good.json")

	writeFile(t, malformed, `{"env":`)
	writeFile(t, noEnv, `{"model":"opus"}`)
	writeFile(t, nonString, `{"env":{"KEY":42}}`)
	writeFile(t, good, `{"env":{"KEY":"value"}}`)

	envs := loadSettingsEnv([]string{filepath.Join(dir, "missing.json"), malformed, noEnv, nonString, good})
	if len(envs) != 2 {
		t.Fatalf("expected 2 usable env objects, got %d", len(envs))
	}
	if got := envs.lookup("KEY"); got != "value" {
		t.Errorf("lookup() = %q, want value", got)
	}
	if got := envs.lookup("OTHER"); got != "" {
		t.Errorf("lookup() = %q, want empty", got)
	}
}

func TestValidateLayout(t *testing.T) {
	for _, layout := range []string{LayoutSingle, LayoutDouble} {
		if err := ValidateLayout(layout); err != nil {
			t.Errorf("ValidateLayout(%q) = %v", layout, err)
		}
	}
	if err := ValidateLayout(""); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("ValidateLayout(\"\") = %v, want ErrInvalidLayout", err)
	}
}
