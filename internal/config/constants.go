package config

import "time"

// Environment keys read by Load.
const (
	EnvBaseURL         = "ANTHROPIC_BASE_URL"
	EnvAuthToken       = "ANTHROPIC_AUTH_TOKEN"
	EnvOpusModel       = "ANTHROPIC_DEFAULT_OPUS_MODEL"
	EnvSonnetModel     = "ANTHROPIC_DEFAULT_SONNET_MODEL"
	EnvHaikuModel      = "ANTHROPIC_DEFAULT_HAIKU_MODEL"
	EnvTimeout         = "GLMLINE_TIMEOUT"
	EnvCachePath       = "GLMLINE_CACHE_PATH"
	EnvHistoryPath     = "GLMLINE_HISTORY_PATH"
	EnvLogPath         = "GLMLINE_LOG_PATH"
	EnvLogLevel        = "GLMLINE_LOG_LEVEL"
	EnvLayout          = "GLMLINE_LAYOUT"
	EnvNotifyThreshold = "GLMLINE_NOTIFY_THRESHOLD"
)

// Status line layouts.
const (
	LayoutSingle = "single"
	LayoutDouble = "double"
)

// Default values
const (
	defaultTimeout  = 2 * time.Second
	defaultLogLevel = "info"
	defaultLayout   = LayoutDouble
	appDirName      = "glmline"
)
