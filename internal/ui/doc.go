// Package ui provides terminal output styling for the raopbridge CLI.
//
// The scan command follows a "run once and exit" pattern: it renders a
// styled listing of the receivers visible right now and returns. Lipgloss
// styles here are shared so the output stays consistent if more one-shot
// commands are added.
package ui
