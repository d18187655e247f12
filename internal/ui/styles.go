package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder    = "240"
	ColorHeader    = "252"
	ColorProject   = "81"
	ColorNumber    = "252"
	ColorCollected = "82"
	ColorFailed    = "196"
	ColorSkipped   = "214"
	ColorMuted     = "240"
	ColorHint      = "245"
)

// Shared styles
var (
	BorderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	ProjectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorProject))
	NumberStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNumber))
	CollectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCollected))
	FailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorFailed))
	SkippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSkipped))
	MutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// padLeft right-aligns a string within the specified display width
func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return strings.Repeat(" ", width-sw) + s
}
