package components

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/glm-statusline/internal/config"
	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

// Status line text.
const (
	Separator    = " │ "
	BranchGlyph  = "⎇"
	ResetGlyph   = "⟳"
	SetupHint    = "⚙ set ANTHROPIC_BASE_URL (api.z.ai or open.bigmodel.cn) and ANTHROPIC_AUTH_TOKEN"
	LoadingLabel = "⏳ loading usage…"
)

// StatusLineData is everything the status line shows.
type StatusLineData struct {
	// Model overrides the snapshot's model name when non-empty.
	Model  string
	Dir    string
	Branch string
	Result models.Result
	// Width truncates every line to this many columns when positive.
	Width int
}

// RenderStatusLine renders the status line in the given layout. Any layout
// other than config.LayoutSingle renders two lines.
func RenderStatusLine(d StatusLineData, layout string) string {
	context := renderContext(d)
	usage := renderUsage(d.Result)

	var lines []string
	if layout == config.LayoutSingle {
		lines = []string{joinSegments(context, usage)}
	} else {
		lines = []string{joinSegments(context), joinSegments(usage)}
	}

	if d.Width > 0 {
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, d.Width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

// renderContext returns the model, directory and branch segments.
func renderContext(d StatusLineData) []string {
	model := d.Model
	if model == "" {
		model = d.Result.Snapshot.ModelName
	}
	if model == "" {
		model = models.UnknownModel
	}

	segments := []string{styles.ModelStyle.Render(model)}

	if d.Dir != "" {
		location := styles.DirStyle.Render(filepath.Base(d.Dir))
		if d.Branch != "" {
			location += " " + styles.BranchStyle.Render(BranchGlyph+" "+d.Branch)
		}
		segments = append(segments, location)
	}

	return segments
}

// renderUsage returns the usage segments for the result kind.
func renderUsage(r models.Result) []string {
	switch r.Kind {
	case models.ResultOK:
		s := r.Snapshot

		token := UsageSegment("Token", s.TokenPercent)
		if s.NextResetTimeStr != "" {
			token += " " + styles.ResetStyle.Render(ResetGlyph+" "+s.NextResetTimeStr)
		}

		return []string{
			token,
			UsageSegment("MCP", s.MCPPercent),
			styles.CostStyle.Render("$" + s.TotalCost),
		}
	case models.ResultSetupRequired:
		return []string{styles.HintStyle.Render(SetupHint)}
	case models.ResultLoading:
		return []string{styles.MutedStyle.Render(LoadingLabel)}
	default:
		return []string{styles.MutedStyle.Render(LoadingLabel)}
	}
}

func joinSegments(groups ...[]string) string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return strings.Join(all, styles.SeparatorStyle.Render(Separator))
}
