// Package monitor talks to the Z.AI / BigModel usage monitor API.
package monitor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Monitor API paths, relative to the scheme and host of the base URL.
const (
	QuotaLimitPath = "/api/monitor/usage/quota/limit"
	ModelUsagePath = "/api/monitor/usage/model-usage"
	ToolUsagePath  = "/api/monitor/usage/tool-usage"
)

// DefaultTimeout bounds every monitor request.
const DefaultTimeout = 2 * time.Second

// SupportedDomains lists the hosts that serve the monitor API.
var SupportedDomains = []string{
	"api.z.ai",
	"open.bigmodel.cn",
	"dev.bigmodel.cn",
}

var (
	// ErrNoBaseURL means no base URL was configured.
	ErrNoBaseURL = errors.New("base URL is not set")
	// ErrInvalidBaseURL means the base URL could not be parsed into scheme and host.
	ErrInvalidBaseURL = errors.New("base URL is invalid")
	// ErrUnsupportedDomain means the base URL does not point at a monitor API host.
	ErrUnsupportedDomain = errors.New("base URL domain is not supported")
	// ErrNoAuthToken means no auth token was configured.
	ErrNoAuthToken = errors.New("auth token is not set")
)

// Endpoints are the three monitor URLs derived from one base URL.
type Endpoints struct {
	QuotaURL      string
	ModelUsageURL string
	ToolUsageURL  string
}

// ResolveEndpoints maps a base URL such as https://api.z.ai/api/anthropic to the monitor endpoints
// on the same host.
func ResolveEndpoints(baseURL string) (Endpoints, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return Endpoints{}, ErrNoBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Endpoints{}, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !isSupportedHost(parsed.Host) {
		return Endpoints{}, fmt.Errorf("%w: %s", ErrUnsupportedDomain, parsed.Host)
	}

	root := parsed.Scheme + "://" + parsed.Host
	return Endpoints{
		QuotaURL:      root + QuotaLimitPath,
		ModelUsageURL: root + ModelUsagePath,
		ToolUsageURL:  root + ToolUsagePath,
	}, nil
}

func isSupportedHost(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range SupportedDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

// Config is the resolved, immutable monitor configuration for one run.
type Config struct {
	Endpoints
	AuthToken string
	Timeout   time.Duration
}

// NewConfig resolves the endpoints for baseURL and pairs them with the auth token.
// Any error means live data cannot be fetched.
func NewConfig(baseURL, authToken string, timeout time.Duration) (*Config, error) {
	endpoints, err := ResolveEndpoints(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(authToken) == "" {
		return nil, ErrNoAuthToken
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Config{
		Endpoints: endpoints,
		AuthToken: strings.TrimSpace(authToken),
		Timeout:   timeout,
	}, nil
}
