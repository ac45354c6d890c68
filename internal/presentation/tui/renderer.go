package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// DefaultWordWrap is used when the terminal width cannot be determined.
const DefaultWordWrap = 80

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// profileFor returns the colour profile for w: plain ASCII for pipes and
// files, the environment's profile (honouring NO_COLOR) for terminals.
func profileFor(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// NewRenderer returns a function that renders markdown for w using glamour.
// Terminals get an automatic light/dark style wrapped to their width;
// anything else gets the plain "notty" style.
func NewRenderer(w io.Writer) func(string) (string, error) {
	width := DefaultWordWrap
	style := glamour.WithStandardStyle("notty")
	if f, ok := w.(*os.File); ok && IsTerminal(w) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
			width = cols - 4
		}
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// NewLabelStyler returns a function that colours a speaker label with the
// role's colour hint. Narration is dimmed; the participant is underlined.
func NewLabelStyler(w io.Writer) func(domain.Speaker, domain.Role) string {
	p := profileFor(w)
	return func(_ domain.Speaker, role domain.Role) string {
		s := p.String(role.Label).Bold()
		if role.Color != "" {
			s = s.Foreground(p.Color(role.Color))
		}
		switch {
		case role.Narration:
			s = s.Faint()
		case role.Human:
			s = s.Underline()
		}
		return s.String()
	}
}
