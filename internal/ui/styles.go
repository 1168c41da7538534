package ui

import (
	"fmt"

	"github.com/alfredjeanlab/loom/internal/model"
)

// ANSI256 color codes.
const (
	colorAccent     = 74  // blue
	colorMuted      = 245 // medium gray
	colorPending    = 215 // orange
	colorInProgress = 74  // blue
	colorDone       = 107 // green
	colorCancelled  = 245 // gray
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// RenderStatus returns the status name colored by its value.
func RenderStatus(status model.Status) string {
	switch status {
	case model.StatusPending:
		return render(colorPending, string(status))
	case model.StatusInProgress:
		return render(colorInProgress, string(status))
	case model.StatusDone:
		return render(colorDone, string(status))
	case model.StatusCancelled:
		return render(colorCancelled, string(status))
	}
	return string(status)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
