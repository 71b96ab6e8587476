package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the ASCII art banner to w. Nothing is written unless w is a terminal,
// so piped output stays machine readable.
func PrintBanner(w io.Writer, version string) {
	if !IsTerminal(w) {
		return
	}
	out := termenv.NewOutput(w)
	// Using a subtle gradient-like color scheme (Teal/Blue)
	lines := []struct{ text, color string }{
		{"  __  __                                           _     ", "#2dd4bf"},
		{" |  \\/  | __ _  ___ _ __ ___   __ _ _ __ __ _ _ __ | |__  ", "#22d3ee"},
		{" | |\\/| |/ _` |/ __| '__/ _ \\ / _` | '__/ _` | '_ \\| '_ \\ ", "#38bdf8"},
		{" | |  | | (_| | (__| | | (_) | (_| | | | (_| | |_) | | | |", "#60a5fa"},
		{" |_|  |_|\\__,_|\\___|_|  \\___/ \\__, |_|  \\__,_| .__/|_| |_|", "#818cf8"},
		{"                               |___/          |_|          ", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}

// StatusLine formats an engine status with its latest run, coloured when w is a terminal.
func StatusLine(w io.Writer, status domain.RunStatus, rec *domain.RunRecord) string {
	out := termenv.NewOutput(w)
	color := map[domain.RunStatus]string{
		domain.StatusIdle:     "8",
		domain.StatusRunning:  "10",
		domain.StatusStopping: "11",
		domain.StatusStopped:  "12",
	}[status]

	line := out.String(string(status)).Foreground(out.Color(color)).Bold().String()
	if rec == nil {
		return line
	}
	line += fmt.Sprintf(" run %s", rec.ID)
	if rec.Outcome != "" {
		line += fmt.Sprintf(" (%s)", rec.Outcome)
	}
	line += fmt.Sprintf(": %d transitions, %d actions, %d polls", rec.Transitions, rec.Actions, rec.Polls)
	if rec.Error != "" {
		line += " " + out.String("error: "+rec.Error).Foreground(out.Color("9")).String()
	}
	return line
}
