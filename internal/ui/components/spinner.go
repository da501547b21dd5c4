package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

// FetchSpinner shows that a usage fetch is in flight.
type FetchSpinner struct {
	started time.Time
	spinner spinner.Model
	label   string
	style   lipgloss.Style
	active  bool
}

// NewFetchSpinner creates an idle spinner with the given label.
func NewFetchSpinner(label string) FetchSpinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return FetchSpinner{
		spinner: s,
		label:   label,
		style:   styles.MutedStyle,
	}
}

// Start marks a fetch as started and returns the tick command driving the animation.
func (f *FetchSpinner) Start(now time.Time) tea.Cmd {
	f.active = true
	f.started = now
	return f.spinner.Tick
}

// Stop marks the fetch as finished.
func (f *FetchSpinner) Stop() {
	f.active = false
}

// Active reports whether a fetch is in flight.
func (f FetchSpinner) Active() bool {
	return f.active
}

// Update handles spinner tick messages. Ticks stop once the spinner is idle.
func (f FetchSpinner) Update(msg tea.Msg) (FetchSpinner, tea.Cmd) {
	if !f.active {
		return f, nil
	}
	var cmd tea.Cmd
	f.spinner, cmd = f.spinner.Update(msg)
	return f, cmd
}

// View renders the spinner with its label and elapsed time, or nothing when idle.
func (f FetchSpinner) View(now time.Time) string {
	if !f.active {
		return ""
	}
	elapsed := now.Sub(f.started).Round(100 * time.Millisecond)
	return f.spinner.View() + " " + f.style.Render(f.label+" "+elapsed.String())
}
