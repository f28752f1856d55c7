// Package style holds the brand colors and icons shared by the logger and the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// Heading renders section titles in command output.
var Heading = lipgloss.NewStyle().Bold(true).Foreground(Iris)

// Muted renders secondary text such as digests and slot numbers.
var Muted = lipgloss.NewStyle().Foreground(Slate)
