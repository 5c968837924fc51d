package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	// Using a subtle gradient-like color scheme (Teal/Green)
	lines := []struct {
		text  string
		color string
	}{
		{" __     __             _ _", "#2dd4bf"},
		{" \\ \\   / /__ _ __   __| (_)_ __   __ _", "#34d399"},
		{"  \\ \\ / / _ \\ '_ \\ / _` | | '_ \\ / _` |", "#4ade80"},
		{"   \\ V /  __/ | | | (_| | | | | | (_| |", "#a3e635"},
		{"    \\_/ \\___|_| |_|\\__,_|_|_| |_|\\__, |", "#facc15"},
		{"                                  |___/", "#fbbf24"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
