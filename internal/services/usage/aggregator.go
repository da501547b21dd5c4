// Package usage aggregates quota, model usage and tool usage into one cached snapshot.
package usage

import (
	"context"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/glm-statusline/internal/cache"
	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/modelname"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/monitor"
)

// Fetcher performs one GET against the monitor API.
type Fetcher interface {
	Get(ctx context.Context, rawURL, token string, query url.Values) (gjson.Result, error)
}

// SnapshotCache stores the last aggregated snapshot.
type SnapshotCache interface {
	Load() *cache.Entry
	Save(snapshot models.UsageSnapshot, now time.Time) error
}

// Recorder receives every snapshot fetched live from the API.
type Recorder interface {
	Record(ctx context.Context, snapshot models.UsageSnapshot) error
}

// Config holds the collaborators of an Aggregator.
type Config struct {
	// Monitor is nil when credentials or a supported base URL are missing.
	Monitor  *monitor.Config
	Client   Fetcher
	Cache    SnapshotCache
	Recorder Recorder
	Now      func() time.Time
	Mapper   modelname.Mapper
}

// Aggregator produces one usage snapshot per call, reusing a fresh cached one when possible.
type Aggregator struct {
	monitor  *monitor.Config
	client   Fetcher
	cache    SnapshotCache
	recorder Recorder
	now      func() time.Time
	mapper   modelname.Mapper
}

// New creates an aggregator. Missing collaborators get working defaults:
// a monitor client with the configured timeout, no cache, no recorder and the wall clock.
func New(config Config) *Aggregator {
	a := &Aggregator{
		monitor:  config.Monitor,
		client:   config.Client,
		cache:    config.Cache,
		recorder: config.Recorder,
		now:      config.Now,
		mapper:   config.Mapper,
	}

	if a.client == nil {
		timeout := monitor.DefaultTimeout
		if a.monitor != nil {
			timeout = a.monitor.Timeout
		}
		a.client = monitor.NewClient(timeout)
	}
	if a.cache == nil {
		a.cache = noCache{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.mapper == (modelname.Mapper{}) {
		a.mapper = modelname.Default()
	}

	return a
}

// Configured reports whether live data can be fetched.
func (a *Aggregator) Configured() bool {
	return a.monitor != nil
}

// Fetch returns the current usage. A cache hit never touches the network. Without
// configuration it returns ResultSetupRequired; failures outside the individual
// endpoint fetches return ResultLoading.
func (a *Aggregator) Fetch(ctx context.Context) (result models.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("usage aggregation failed", "panic", r)
			result = models.Loading()
		}
	}()

	now := a.now()
	if entry := a.cache.Load(); cache.IsValid(entry, now) {
		return models.OK(entry.Data, true)
	}

	if a.monitor == nil {
		return models.SetupRequired()
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("usage aggregation cancelled", "error", err)
		return models.Loading()
	}

	snapshot := a.fetchLive(ctx, now)

	stamped := a.now()
	snapshot.Timestamp = stamped.UnixMilli()

	if err := a.cache.Save(snapshot, stamped); err != nil {
		logger.Warn("failed to write usage cache", "error", err)
	}

	if a.recorder != nil {
		if err := a.recorder.Record(ctx, snapshot); err != nil {
			logger.Warn("failed to record usage snapshot", "error", err)
		}
	}

	return models.OK(snapshot, false)
}

// fetchLive queries the three endpoints concurrently and merges whatever they return.
// Each fetch substitutes its own default on failure, so the join itself never fails.
func (a *Aggregator) fetchLive(ctx context.Context, now time.Time) models.UsageSnapshot {
	query := WindowQuery(Window(now))

	quota := models.DefaultQuotaResult()
	modelUsage := models.DefaultModelUsageResult()
	toolUsage := 0

	var g errgroup.Group
	g.Go(isolate("quota", func() {
		quota = a.fetchQuota(ctx, now)
	}))
	g.Go(isolate("model-usage", func() {
		modelUsage = a.fetchModelUsage(ctx, query)
	}))
	g.Go(isolate("tool-usage", func() {
		toolUsage = a.fetchToolUsage(ctx, query)
	}))
	_ = g.Wait()

	return Merge(quota, modelUsage, toolUsage)
}

// Merge combines the three endpoint results. Tool usage replaces the quota's
// time-limit percent only when it is strictly positive.
func Merge(quota models.QuotaResult, modelUsage models.ModelUsageResult, toolUsage int) models.UsageSnapshot {
	mcpPercent := quota.MCPPercent
	if toolUsage > 0 {
		mcpPercent = toolUsage
	}

	return models.UsageSnapshot{
		TokenPercent:     quota.TokenPercent,
		MCPPercent:       mcpPercent,
		TotalCost:        modelUsage.TotalCost,
		ModelName:        modelUsage.ModelName,
		NextResetTime:    quota.NextResetTime,
		NextResetTimeStr: quota.NextResetTimeStr,
		QuotaOK:          quota.OK,
	}
}

func (a *Aggregator) fetchQuota(ctx context.Context, now time.Time) models.QuotaResult {
	body, err := a.client.Get(ctx, a.monitor.QuotaURL, a.monitor.AuthToken, nil)
	if err != nil {
		logger.Warn("quota fetch failed", "error", err)
		return models.DefaultQuotaResult()
	}

	result, err := ParseQuota(body, now)
	if err != nil {
		logger.Warn("quota response unusable", "error", err)
		return models.DefaultQuotaResult()
	}
	return result
}

func (a *Aggregator) fetchModelUsage(ctx context.Context, query url.Values) models.ModelUsageResult {
	body, err := a.client.Get(ctx, a.monitor.ModelUsageURL, a.monitor.AuthToken, query)
	if err != nil {
		logger.Warn("model usage fetch failed", "error", err)
		return models.DefaultModelUsageResult()
	}

	result, err := ParseModelUsage(body, a.mapper)
	if err != nil {
		logger.Warn("model usage response unusable", "error", err)
		return models.DefaultModelUsageResult()
	}
	return result
}

func (a *Aggregator) fetchToolUsage(ctx context.Context, query url.Values) int {
	body, err := a.client.Get(ctx, a.monitor.ToolUsageURL, a.monitor.AuthToken, query)
	if err != nil {
		logger.Warn("tool usage fetch failed", "error", err)
		return 0
	}

	percent, err := ParseToolUsage(body)
	if err != nil {
		logger.Warn("tool usage response unusable", "error", err)
		return 0
	}
	return percent
}

// isolate keeps a panicking fetch from taking down its siblings; the fetch's
// result keeps the default it was initialised with.
func isolate(endpoint string, fetch func()) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("usage fetch panicked", "endpoint", endpoint, "panic", r)
			}
		}()
		fetch()
		return nil
	}
}

// noCache is used when caching is disabled.
type noCache struct{}

func (noCache) Load() *cache.Entry                         { return nil }
func (noCache) Save(models.UsageSnapshot, time.Time) error { return nil }
