package ui

import "github.com/charmbracelet/lipgloss"

// Color palette for CLI output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers
	SuccessColor = lipgloss.Color("#43BF6D") // Green - receiver names
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Shared styles for scan output
var (
	// HeaderStyle is for the scan banner line
	HeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// NameStyle is for receiver display names
	NameStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// AddrStyle is for socket addresses
	AddrStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// DetailStyle is for hostnames and TXT-derived details
	DetailStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)
