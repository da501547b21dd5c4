// Package services wires configuration, aggregation, history and notifications together.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/glm-statusline/internal/cache"
	"github.com/j-veylop/glm-statusline/internal/config"
	"github.com/j-veylop/glm-statusline/internal/db"
	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/services/notify"
	"github.com/j-veylop/glm-statusline/internal/services/usage"
)

// ErrHistoryDisabled is returned by History when no history database is open.
var ErrHistoryDisabled = errors.New("usage history is disabled")

// pruneEvery is how many inserts pass between history prunes.
const pruneEvery = 100

// Options adjusts how a Manager is built. The zero value is the production setup.
type Options struct {
	// Client replaces the monitor HTTP client.
	Client usage.Fetcher
	// Notifier replaces the desktop notifier built from the config.
	Notifier *notify.Notifier
	// Now replaces the wall clock.
	Now func() time.Time
	// NoCache disables the snapshot cache.
	NoCache bool
}

// Manager owns one aggregation pipeline and the optional history database.
// It is the Recorder of its own aggregator.
type Manager struct {
	mu         sync.RWMutex
	cfg        *config.Config
	opts       Options
	aggregator *usage.Aggregator
	database   *db.DB
	notifier   *notify.Notifier
	retention  int
}

// NewManager builds the pipeline for cfg. It never fails: a history database
// that cannot be opened is logged and history is disabled.
func NewManager(cfg *config.Config, opts Options) *Manager {
	m := &Manager{
		opts:      opts,
		retention: db.DefaultRetention,
	}

	if cfg.HistoryPath != "" {
		database, err := db.New(cfg.HistoryPath)
		if err != nil {
			logger.Warn("usage history unavailable", "path", cfg.HistoryPath, "error", err)
		} else {
			m.database = database
		}
	}

	m.Reload(cfg)
	return m
}

// Reload rebuilds the aggregator and notifier from cfg. The history database is kept.
func (m *Manager) Reload(cfg *config.Config) {
	// A nil monitor config makes the aggregator report setup required.
	api, _ := cfg.APIConfig()

	var store usage.SnapshotCache
	if !m.opts.NoCache && cfg.CachePath != "" {
		store = cache.NewStore(cfg.CachePath)
	}

	var recorder usage.Recorder
	if m.database != nil {
		recorder = m
	}

	aggregator := usage.New(usage.Config{
		Monitor:  api,
		Client:   m.opts.Client,
		Cache:    store,
		Recorder: recorder,
		Now:      m.opts.Now,
		Mapper:   cfg.Models,
	})

	notifier := m.opts.Notifier
	if notifier == nil {
		notifier = notify.New(cfg.NotifyThreshold)
	}

	m.mu.Lock()
	m.cfg = cfg
	m.aggregator = aggregator
	m.notifier = notifier
	m.mu.Unlock()
}

// Config returns the configuration in use.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Configured reports whether live data can be fetched.
func (m *Manager) Configured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.aggregator.Configured()
}

// Fetch aggregates the current usage.
func (m *Manager) Fetch(ctx context.Context) models.Result {
	m.mu.RLock()
	aggregator := m.aggregator
	m.mu.RUnlock()

	return aggregator.Fetch(ctx)
}

// Record stores a live snapshot, notifies about the change since the previous
// one and prunes old history now and then.
func (m *Manager) Record(ctx context.Context, snapshot models.UsageSnapshot) error {
	if m.database == nil {
		return nil
	}
	if !snapshot.QuotaOK {
		// A failed quota fetch reads as 0%; recording it would look like a reset.
		logger.Debug("skipping history for snapshot without quota data")
		return nil
	}

	prev, err := m.database.LastSnapshot(ctx)
	if err != nil {
		logger.Debug("failed to read previous snapshot", "error", err)
		prev = nil
	}

	point := models.HistoryPointFromSnapshot(snapshot)
	if err := m.database.InsertSnapshot(ctx, &point); err != nil {
		return err
	}

	m.mu.RLock()
	notifier := m.notifier
	m.mu.RUnlock()
	notifier.Check(prev, point)

	if point.ID > 0 && point.ID%pruneEvery == 0 {
		if removed, err := m.database.PruneSnapshots(ctx, m.retention); err != nil {
			logger.Warn("failed to prune usage history", "error", err)
		} else if removed > 0 {
			logger.Debug("pruned usage history", "removed", removed)
		}
	}

	return nil
}

// History returns up to limit recorded snapshots, newest first.
func (m *Manager) History(ctx context.Context, limit int) ([]models.HistoryPoint, error) {
	if m.database == nil {
		return nil, ErrHistoryDisabled
	}
	points, err := m.database.GetRecentSnapshots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage history: %w", err)
	}
	return points, nil
}

// Database returns the history database, or nil when history is disabled.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the history database.
func (m *Manager) Close() error {
	if m.database != nil {
		return m.database.Close()
	}
	return nil
}
