package modelname

import "testing"

func TestMapper_Map(t *testing.T) {
	m := Mapper{Opus: "opus-name", Sonnet: "sonnet-name", Haiku: "haiku-name"}

	tests := []struct {
		in   string
		want string
	}{
		{"Claude Opus 4", "opus-name"},
		{"Claude Sonnet 4.5", "sonnet-name"},
		{"Claude Haiku 3.5", "haiku-name"},
		{"Opus vs Sonnet", "opus-name"},
		{"Sonnet and Haiku", "sonnet-name"},
		{"claude-opus-4", "claude-opus-4"},
		{"gpt-4", "gpt-4"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := m.Map(tt.in); got != tt.want {
				t.Errorf("Map(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if m.Map("Claude Opus 4") != DefaultOpus {
		t.Errorf("Opus maps to %q", m.Map("Claude Opus 4"))
	}
	if m.Map("Haiku") != DefaultHaiku {
		t.Errorf("Haiku maps to %q", m.Map("Haiku"))
	}
}
