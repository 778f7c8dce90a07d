package output

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	spinnerIndex int
}

// NewTerminal inspects f, normally os.Stdout or os.Stderr
func NewTerminal(f *os.File) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && os.Getenv("NO_COLOR") == "",
	}
}

// Plain returns a Terminal that never colours or animates
func Plain() *Terminal {
	return &Terminal{}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if t == nil || !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if t == nil || !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// ImportanceColor returns the colour used for an importance level
func ImportanceColor(i email.Importance) string {
	switch i {
	case email.ImportanceHigh:
		return ColorRed
	case email.ImportanceNormal:
		return ColorWhite
	default:
		return ColorGray
	}
}

// PhaseColor returns the colour for a progress phase
func PhaseColor(phase string) string {
	switch phase {
	case "listing":
		return ColorCyan
	case "fetching":
		return ColorBlue
	case "bulk":
		return ColorYellow
	default:
		return ColorWhite
	}
}

// FormatETA formats a duration as a human-readable ETA string
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
