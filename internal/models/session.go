package models

// Session is the context Claude Code writes to the status line command's stdin.
type Session struct {
	Model          SessionModel     `json:"model"`
	Workspace      SessionWorkspace `json:"workspace"`
	SessionID      string           `json:"session_id"`
	Cwd            string           `json:"cwd"`
	TranscriptPath string           `json:"transcript_path"`
	Cost           SessionCost      `json:"cost"`
}

// SessionModel identifies the model of the running session.
type SessionModel struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SessionWorkspace holds the directories of the running session.
type SessionWorkspace struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// SessionCost is the session cost as reported by Claude Code itself.
type SessionCost struct {
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// Dir returns the best known working directory of the session.
func (s *Session) Dir() string {
	if s == nil {
		return ""
	}
	if s.Workspace.CurrentDir != "" {
		return s.Workspace.CurrentDir
	}
	return s.Cwd
}

// ProjectDir returns the project root, falling back to the working directory.
func (s *Session) ProjectDir() string {
	if s == nil {
		return ""
	}
	if s.Workspace.ProjectDir != "" {
		return s.Workspace.ProjectDir
	}
	return s.Dir()
}

// ModelName returns the model name of the session, preferring the display name
// ("Opus 4.1") over the id ("claude-opus-4-1").
func (s *Session) ModelName() string {
	if s == nil {
		return ""
	}
	if s.Model.DisplayName != "" {
		return s.Model.DisplayName
	}
	return s.Model.ID
}
