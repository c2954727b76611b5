package pretty

import (
	"charm.land/lipgloss/v2"
)

// Style describes how annotated text is displayed on a terminal.
//
// Colors are anything lipgloss.Color accepts: ANSI indexes ("5", "63") or
// hex values ("#ff00ff").
type Style struct {
	Foreground string `yaml:"fg,omitempty"`
	Background string `yaml:"bg,omitempty"`

	Bold      bool `yaml:"bold,omitempty"`
	Italic    bool `yaml:"italic,omitempty"`
	Underline bool `yaml:"underline,omitempty"`
	Dimmed    bool `yaml:"dimmed,omitempty"`
	Strike    bool `yaml:"strike,omitempty"`
	Blink     bool `yaml:"blink,omitempty"`
	Hidden    bool `yaml:"hidden,omitempty"`

	// Clear drops whatever the enclosing annotations set.
	Clear bool `yaml:"clear,omitempty"`
}

// IsZero reports whether the style changes nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Over composes s on top of an enclosing style.
func (s Style) Over(outer Style) Style {
	if s.Clear {
		s.Clear = false
		return s
	}
	res := outer
	if s.Foreground != "" {
		res.Foreground = s.Foreground
	}
	if s.Background != "" {
		res.Background = s.Background
	}
	res.Bold = res.Bold || s.Bold
	res.Italic = res.Italic || s.Italic
	res.Underline = res.Underline || s.Underline
	res.Dimmed = res.Dimmed || s.Dimmed
	res.Strike = res.Strike || s.Strike
	res.Blink = res.Blink || s.Blink
	res.Hidden = res.Hidden || s.Hidden
	return res
}

// Render applies the style to text.
func (s Style) Render(text string) string {
	if s.IsZero() || text == "" {
		return text
	}
	ls := lipgloss.NewStyle().
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Faint(s.Dimmed).
		Strikethrough(s.Strike).
		Blink(s.Blink)
	if s.Foreground != "" {
		ls = ls.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		ls = ls.Background(lipgloss.Color(s.Background))
	}
	out := ls.Render(text)
	if s.Hidden {
		// lipgloss has no conceal attribute
		out = "\x1b[8m" + out + "\x1b[28m"
	}
	return out
}
