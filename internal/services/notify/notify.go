// Package notify sends desktop notifications when token quota usage changes sharply.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/models"
)

// ResetDrop is the drop in token percent, in points, treated as a quota reset.
const ResetDrop = 50

// Kind identifies a notification.
type Kind int

const (
	// KindThreshold means token usage crossed the configured threshold upwards.
	KindThreshold Kind = iota
	// KindReset means token usage dropped sharply, i.e. the quota window reset.
	KindReset
)

// Notification is one message shown to the user.
type Notification struct {
	Title string
	Body  string
	Kind  Kind
}

// Sender delivers a notification.
type Sender func(title, body string) error

// Notifier compares consecutive snapshots and notifies on threshold crossings and resets.
type Notifier struct {
	send      Sender
	threshold int
}

// New creates a notifier using desktop notifications. A threshold <= 0 disables it.
func New(threshold int) *Notifier {
	return NewWithSender(threshold, func(title, body string) error {
		return beeep.Notify(title, body, "")
	})
}

// NewWithSender creates a notifier with a custom delivery function.
func NewWithSender(threshold int, send Sender) *Notifier {
	return &Notifier{threshold: threshold, send: send}
}

// Enabled reports whether the notifier can ever fire.
func (n *Notifier) Enabled() bool {
	return n != nil && n.threshold > 0 && n.send != nil
}

// Check notifies about the transition from prev to cur and returns what was sent.
// Nothing is sent for the first snapshot ever recorded.
func (n *Notifier) Check(prev *models.HistoryPoint, cur models.HistoryPoint) []Notification {
	if !n.Enabled() || prev == nil {
		return nil
	}

	var sent []Notification

	// Only notify if we crossed the threshold upwards
	if prev.TokenPercent < n.threshold && cur.TokenPercent >= n.threshold {
		sent = append(sent, Notification{
			Kind:  KindThreshold,
			Title: fmt.Sprintf("GLM quota at %d%%", cur.TokenPercent),
			Body:  fmt.Sprintf("Token usage passed %d%% of the current window (%s).", n.threshold, cur.ModelName),
		})
	}

	if prev.TokenPercent-cur.TokenPercent > ResetDrop {
		sent = append(sent, Notification{
			Kind:  KindReset,
			Title: "GLM quota reset",
			Body:  fmt.Sprintf("Token usage dropped from %d%% to %d%%.", prev.TokenPercent, cur.TokenPercent),
		})
	}

	for _, note := range sent {
		if err := n.send(note.Title, note.Body); err != nil {
			logger.Warn("failed to send notification", "title", note.Title, "error", err)
		}
	}

	return sent
}
