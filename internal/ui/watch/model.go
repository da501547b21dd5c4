// Package watch implements the interactive --watch view.
package watch

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/glm-statusline/internal/cache"
	"github.com/j-veylop/glm-statusline/internal/config"
	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/services/projection"
	"github.com/j-veylop/glm-statusline/internal/services/settings"
	"github.com/j-veylop/glm-statusline/internal/ui/components"
	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

const (
	// DefaultInterval is the time between aggregations, one cache lifetime.
	DefaultInterval = cache.TTL

	fetchTimeout  = 10 * time.Second
	historyPoints = 60
	defaultWidth  = 60
	maxWidth      = 80
)

// Source is what the watch view needs from the services layer.
type Source interface {
	Fetch(ctx context.Context) models.Result
	History(ctx context.Context, limit int) ([]models.HistoryPoint, error)
	Reload(cfg *config.Config)
	Config() *config.Config
}

// Options configures a Model.
type Options struct {
	// Load reloads the configuration after a settings change.
	Load func() (*config.Config, error)
	// Events delivers settings file changes; nil disables live reload.
	Events <-chan settings.Event
	// Now replaces the wall clock.
	Now func() time.Time
	// Context is the model, directory and branch shown on the status line.
	Context components.StatusLineData
	// Layout overrides the configured layout when non-empty.
	Layout string
	// Interval overrides DefaultInterval when positive.
	Interval time.Duration
}

// Model is the bubbletea model of the watch view.
type Model struct {
	src      Source
	opts     Options
	keymap   KeyMap
	spinner  components.FetchSpinner
	tokenBar components.QuotaBar
	mcpBar   components.QuotaBar
	result   models.Result
	history  []models.HistoryPoint
	updated  time.Time
	notice   string
	width    int
	tickSeq  int
	fetching bool
}

// NewModel creates the watch view over src.
func NewModel(src Source, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	return &Model{
		src:      src,
		opts:     opts,
		keymap:   DefaultKeyMap(),
		spinner:  components.NewFetchSpinner("fetching usage"),
		tokenBar: components.NewQuotaBar("Token"),
		mcpBar:   components.NewQuotaBar("MCP"),
		result:   models.Result{Kind: models.ResultLoading},
	}
}

// Init starts the first aggregation and the settings listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startFetch(),
		waitForSettings(m.opts.Events),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Refresh):
			return m, m.startFetch()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		if msg.Seq != m.tickSeq {
			return m, nil
		}
		return m, m.startFetch()

	case fetchedMsg:
		m.fetching = false
		m.spinner.Stop()
		m.result = msg.Result
		m.history = msg.History
		m.updated = m.opts.Now()
		m.tickSeq++
		return m, tickCmd(m.opts.Interval, m.tickSeq)

	case settingsMsg:
		return m, tea.Batch(m.handleSettings(msg.Event), waitForSettings(m.opts.Events))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startFetch begins an aggregation unless one is already running.
func (m *Model) startFetch() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	return tea.Batch(m.spinner.Start(m.opts.Now()), fetchCmd(m.src))
}

// handleSettings reloads the configuration after a settings change.
func (m *Model) handleSettings(ev settings.Event) tea.Cmd {
	if ev.Type == settings.EventError {
		logger.Warn("settings watcher error", "error", ev.Error)
		return nil
	}
	if m.opts.Load == nil {
		return nil
	}

	cfg, err := m.opts.Load()
	if err != nil {
		logger.Warn("failed to reload configuration", "path", ev.Path, "error", err)
		m.notice = "config reload failed: " + err.Error()
		return nil
	}

	logger.Info("configuration reloaded", "path", ev.Path)
	m.src.Reload(cfg)
	m.notice = "reloaded " + ev.Path
	return m.startFetch()
}

// layout returns the status line layout in effect.
func (m *Model) layout() string {
	if m.opts.Layout != "" {
		return m.opts.Layout
	}
	if cfg := m.src.Config(); cfg != nil {
		return cfg.Layout
	}
	return config.LayoutDouble
}

// View renders the watch view.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("GLM usage"))
	b.WriteString("\n")

	data := m.opts.Context
	data.Result = m.result
	data.Width = m.width
	b.WriteString(components.RenderStatusLine(data, m.layout()))
	b.WriteString("\n\n")

	if m.result.Kind == models.ResultOK {
		width := m.contentWidth()
		b.WriteString(m.tokenBar.View(m.result.Snapshot.TokenPercent, width))
		b.WriteString("\n")
		b.WriteString(m.mcpBar.View(m.result.Snapshot.MCPPercent, width))
		b.WriteString("\n")
	}

	if len(m.history) > 0 {
		tokens, _ := models.HistorySeries(m.history)
		b.WriteString(styles.LabelStyle.Render("trend "))
		b.WriteString(components.RenderSparkline(tokens, historyPoints))
		b.WriteString("\n")
		b.WriteString(components.RenderProjection(projection.Project(m.history, m.opts.Now())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.spinner.Active():
		b.WriteString(m.spinner.View(m.opts.Now()))
	case !m.updated.IsZero():
		status := "updated " + m.updated.Format("15:04:05")
		if m.result.Cached {
			status += " (cached)"
		}
		b.WriteString(styles.MutedStyle.Render(status))
	}
	if m.notice != "" {
		b.WriteString(styles.SeparatorStyle.Render(components.Separator))
		b.WriteString(styles.MutedStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// contentWidth sizes the wide bars to the terminal.
func (m *Model) contentWidth() int {
	switch {
	case m.width <= 0:
		return defaultWidth
	case m.width > maxWidth:
		return maxWidth
	default:
		return m.width
	}
}

func (m *Model) renderHelp() string {
	parts := make([]string, 0, len(m.keymap.ShortHelp()))
	for _, b := range m.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpStyle.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpStyle.Render(" • "))
}
