// Package style provides shared UI styling primitives: brand colors and icons.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Amber = lipgloss.Color("#D97706")
	Slate = lipgloss.Color("#667085")
	Green = lipgloss.Color("#22A06B")
	Red   = lipgloss.Color("#D93025")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)
