// Package modelname maps upstream Claude model identifiers to the GLM models that serve them.
package modelname

import "strings"

// Default display names used when no override is configured.
const (
	DefaultOpus   = "GLM-4.6"
	DefaultSonnet = "GLM-4.6"
	DefaultHaiku  = "GLM-4.5-Air"
)

// Mapper holds the display name for each Claude model family.
type Mapper struct {
	Opus   string
	Sonnet string
	Haiku  string
}

// Default returns a mapper with the default display names.
func Default() Mapper {
	return Mapper{Opus: DefaultOpus, Sonnet: DefaultSonnet, Haiku: DefaultHaiku}
}

// Map returns the display name for name. Families are matched case-sensitively
// in the order Opus, Sonnet, Haiku; anything else is returned unchanged.
func (m Mapper) Map(name string) string {
	if name == "" {
		return name
	}
	switch {
	case strings.Contains(name, "Opus"):
		return m.Opus
	case strings.Contains(name, "Sonnet"):
		return m.Sonnet
	case strings.Contains(name, "Haiku"):
		return m.Haiku
	default:
		return name
	}
}
