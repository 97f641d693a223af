package remote

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#6F1AB1") // Purple - title, border
	SuccessColor = lipgloss.Color("#43BF6D") // Green - power on, sent keys
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - standby, typing mode
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 40
	MaxContentWidth  = 72
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	powerOnStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	powerStandbyStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	lastKeyStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	modeStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// boxStyle returns the bordered frame around the remote
func boxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2).
		Padding(0, 1)
}

// IsTerminal reports whether stdin and stdout are both attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the current terminal width, clamped to the content range
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MaxContentWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
