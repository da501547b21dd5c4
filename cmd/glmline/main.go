// Package main is the entry point of glmline, a Claude Code status line that
// shows GLM coding plan usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/j-veylop/glm-statusline/internal/config"
	"github.com/j-veylop/glm-statusline/internal/gitinfo"
	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/services"
	"github.com/j-veylop/glm-statusline/internal/services/projection"
	"github.com/j-veylop/glm-statusline/internal/services/settings"
	"github.com/j-veylop/glm-statusline/internal/session"
	"github.com/j-veylop/glm-statusline/internal/ui/components"
	"github.com/j-veylop/glm-statusline/internal/ui/styles"
	"github.com/j-veylop/glm-statusline/internal/ui/watch"
	"github.com/j-veylop/glm-statusline/internal/version"
)

const (
	chartHeight  = 10
	defaultWidth = 80
)

// options holds the parsed command line.
type options struct {
	layout  string
	history int
	version bool
	help    bool
	watch   bool
	noCache bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes glmline and returns the exit code. The status line itself
// always exits 0 so Claude Code keeps showing whatever was printed.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr, fs)
		return 2
	}

	switch {
	case opts.help:
		printUsage(stdout, fs)
		return 0
	case opts.version:
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	var sess *models.Session
	if !opts.watch && !isTerminal(stdin) {
		sess, err = session.Read(stdin, session.DefaultTimeout)
		if err != nil {
			// Rendering without session context is still useful.
			sess = nil
		}
	}

	cfg, err := config.Load(projectDir(sess))
	if err == nil && opts.layout != "" {
		opts.layout = strings.ToLower(opts.layout)
		err = config.ValidateLayout(opts.layout)
	}
	if err != nil {
		fmt.Fprintln(stdout, styles.HintStyle.Render("⚙ glmline: "+err.Error()))
		return 0
	}
	if opts.layout != "" {
		cfg.Layout = opts.layout
	}

	closer := logger.Setup(cfg.LogPath, cfg.LogLevel)
	defer closer.Close()

	if sess != nil {
		logger.Debug("session received", "session", sess.SessionID, "dir", sess.Dir(), "model", sess.ModelName())
	}

	manager := services.NewManager(cfg, services.Options{NoCache: opts.noCache})
	defer func() {
		if closeErr := manager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	data := components.StatusLineData{
		Model:  cfg.Models.Map(sess.ModelName()),
		Dir:    sess.Dir(),
		Branch: gitinfo.Branch(sess.Dir()),
		Width:  terminalWidth(),
	}

	switch {
	case opts.history > 0:
		return runHistory(manager, opts.history, stdout)
	case opts.watch:
		return runWatch(manager, cfg, opts, data, stderr)
	}

	if os.Getenv("NO_COLOR") == "" {
		// stdout is a pipe to Claude Code, which renders ANSI colour.
		lipgloss.SetColorProfile(termenv.ANSI256)
	}

	data.Result = manager.Fetch(context.Background())
	fmt.Fprintln(stdout, components.RenderStatusLine(data, cfg.Layout))
	return 0
}

// parseFlags parses args into options.
func parseFlags(args []string, stderr io.Writer) (options, *pflag.FlagSet, error) {
	var opts options

	fs := pflag.NewFlagSet(version.Name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}
	fs.BoolVarP(&opts.help, "help", "h", false, "show this help message")
	fs.BoolVarP(&opts.version, "version", "v", false, "show version information")
	fs.BoolVar(&opts.watch, "watch", false, "keep refreshing usage in an interactive view")
	fs.IntVar(&opts.history, "history", 0, "plot the last `N` recorded snapshots and exit")
	fs.StringVar(&opts.layout, "layout", "", "status line layout: single or double")
	fs.BoolVar(&opts.noCache, "no-cache", false, "always query the monitor API")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if opts.history < 0 {
		return opts, fs, fmt.Errorf("--history must be positive, got %d", opts.history)
	}
	return opts, fs, nil
}

// runHistory prints the recorded usage history.
func runHistory(manager *services.Manager, limit int, stdout io.Writer) int {
	points, err := manager.History(context.Background(), limit)
	if err != nil {
		fmt.Fprintln(stdout, styles.HintStyle.Render("⚙ glmline: "+err.Error()))
		return 1
	}

	fmt.Fprintln(stdout, components.RenderHistoryChart(points, historyWidth(), chartHeight))
	if len(points) > 0 {
		fmt.Fprintln(stdout, components.RenderHistorySummary(points[0]))
		fmt.Fprintln(stdout, components.RenderProjection(projection.Project(points, time.Now())))
	}
	return 0
}

// runWatch runs the interactive watch view until the user quits.
func runWatch(manager *services.Manager, cfg *config.Config, opts options, data components.StatusLineData, stderr io.Writer) int {
	var events <-chan settings.Event
	watcher, err := settings.New(cfg.SettingsFiles)
	if err != nil {
		logger.Warn("settings changes will not be picked up", "error", err)
	} else {
		defer watcher.Close()
		events = watcher.Events()
	}

	model := watch.NewModel(manager, watch.Options{
		Load:    func() (*config.Config, error) { return config.Load(cfg.ProjectDir) },
		Events:  events,
		Context: data,
		Layout:  opts.layout,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(stderr, "Error: error running watch view: %v\n", err)
		return 1
	}
	return 0
}

// projectDir returns the directory whose Claude settings apply.
func projectDir(sess *models.Session) string {
	if dir := sess.ProjectDir(); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// isTerminal reports whether r is an interactive terminal, in which case no
// session JSON is coming.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth reads COLUMNS; zero disables truncation.
func terminalWidth() int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS")))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func historyWidth() int {
	if w := terminalWidth(); w > 0 {
		return w
	}
	return defaultWidth
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, `glmline - GLM coding plan usage for the Claude Code status line

Usage:
  glmline [flags] < session.json

Flags:
%s
Configuration:
  ANTHROPIC_BASE_URL and ANTHROPIC_AUTH_TOKEN are read from the environment,
  a .env file (current directory, ~/.config/glmline, ~/.claude) or the "env"
  block of .claude/settings.local.json, .claude/settings.json and
  ~/.claude/settings.json.

  GLMLINE_LAYOUT          single or double (default: double)
  GLMLINE_TIMEOUT         per-request timeout (default: 2s)
  GLMLINE_CACHE_PATH      snapshot cache file
  GLMLINE_HISTORY_PATH    usage history database, empty disables it
  GLMLINE_NOTIFY_THRESHOLD desktop notification threshold, 0 disables it
  GLMLINE_LOG_PATH        log file, empty disables logging
  GLMLINE_LOG_LEVEL       debug, info, warn or error

Claude Code settings.json:
  "statusLine": {"type": "command", "command": "glmline"}
`, fs.FlagUsages())
}
