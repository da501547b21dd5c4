package notify

import (
	"errors"
	"testing"

	"github.com/j-veylop/glm-statusline/internal/models"
)

type recorded struct {
	titles []string
}

func (r *recorded) send(title, _ string) error {
	r.titles = append(r.titles, title)
	return nil
}

func point(token int) models.HistoryPoint {
	return models.HistoryPoint{TokenPercent: token, ModelName: "GLM-4.6"}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		prev      *models.HistoryPoint
		cur       int
		want      []Kind
	}{
		{"CrossesUp", 80, &models.HistoryPoint{TokenPercent: 79}, 80, []Kind{KindThreshold}},
		{"AlreadyAbove", 80, &models.HistoryPoint{TokenPercent: 85}, 90, nil},
		{"StaysBelow", 80, &models.HistoryPoint{TokenPercent: 10}, 79, nil},
		{"CrossesDown", 80, &models.HistoryPoint{TokenPercent: 85}, 70, nil},
		{"Reset", 80, &models.HistoryPoint{TokenPercent: 95}, 3, []Kind{KindReset}},
		{"SmallDrop", 80, &models.HistoryPoint{TokenPercent: 60}, 10, nil},
		{"FirstSnapshot", 80, nil, 99, nil},
		{"Disabled", 0, &models.HistoryPoint{TokenPercent: 0}, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorded{}
			n := NewWithSender(tt.threshold, r.send)

			sent := n.Check(tt.prev, point(tt.cur))
			if len(sent) != len(tt.want) {
				t.Fatalf("sent %d notifications, want %d", len(sent), len(tt.want))
			}
			for i, kind := range tt.want {
				if sent[i].Kind != kind {
					t.Errorf("sent[%d].Kind = %v, want %v", i, sent[i].Kind, kind)
				}
			}
			if len(r.titles) != len(tt.want) {
				t.Errorf("sender called %d times, want %d", len(r.titles), len(tt.want))
			}
		})
	}
}

func TestCheck_SenderErrorIsIgnored(t *testing.T) {
	n := NewWithSender(50, func(string, string) error { return errors.New("no notification daemon") })

	sent := n.Check(&models.HistoryPoint{TokenPercent: 10}, point(60))
	if len(sent) != 1 {
		t.Errorf("expected the notification to be reported, got %d", len(sent))
	}
}

func TestEnabled(t *testing.T) {
	var nilNotifier *Notifier
	if nilNotifier.Enabled() {
		t.Error("nil notifier should be disabled")
	}
	if NewWithSender(80, nil).Enabled() {
		t.Error("notifier without sender should be disabled")
	}
	if !New(80).Enabled() {
		t.Error("New(80) should be enabled")
	}
	if New(0).Enabled() {
		t.Error("New(0) should be disabled")
	}
}
