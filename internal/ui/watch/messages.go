package watch

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/services"
	"github.com/j-veylop/glm-statusline/internal/services/settings"
)

// tickMsg asks for the next aggregation. Ticks from a superseded schedule
// carry an old Seq and are ignored.
type tickMsg struct {
	Time time.Time
	Seq  int
}

// fetchedMsg carries a finished aggregation and the history recorded so far.
type fetchedMsg struct {
	Result  models.Result
	History []models.HistoryPoint
}

// settingsMsg wraps a settings watcher event.
type settingsMsg struct {
	Event settings.Event
}

// tickCmd returns a command that sends a tickMsg after interval.
func tickCmd(interval time.Duration, seq int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{Time: t, Seq: seq}
	})
}

// fetchCmd aggregates usage and loads the recent history.
func fetchCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result := src.Fetch(ctx)

		history, err := src.History(ctx, historyPoints)
		if err != nil && !errors.Is(err, services.ErrHistoryDisabled) {
			logger.Debug("failed to load history for watch view", "error", err)
		}

		return fetchedMsg{Result: result, History: history}
	}
}

// waitForSettings blocks until the next settings event. A nil channel or a
// closed one yields no message.
func waitForSettings(events <-chan settings.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return settingsMsg{Event: ev}
	}
}
