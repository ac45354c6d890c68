package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the mootcourt banner followed by the case heading.
func PrintBanner(w io.Writer, title, subtitle string) {
	p := profileFor(w)
	// Courtroom palette: navy to slate
	lines := []struct{ text, color string }{
		{`  __  __             _    ___                _   `, "#1e3a8a"},
		{` |  \/  |___  ___ __| |_ / __|___ _  _ _ _ _| |_ `, "#1d4ed8"},
		{` | |\/| / _ \/ _ \ _|  _| (__/ _ \ || | '_|  _|`, "#2563eb"},
		{` |_|  |_\___/\___/__|\__|\___\___/\_,_|_|  \__|`, "#64748b"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
	if title != "" {
		fmt.Fprintln(w, p.String(title).Bold())
	}
	if subtitle != "" {
		fmt.Fprintln(w, p.String(subtitle).Faint())
	}
}
