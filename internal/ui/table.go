package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vietdv277/bucketscope/internal/inventory"
)

// Column widths: Project, Status, Buckets, Records, Detail
var columnWidths = []int{30, 12, 8, 8, 40}

// RenderSummary renders the per-project outcome of a run in a box table
func RenderSummary(report *inventory.Report) string {
	headers := []string{"Project", "Status", "Buckets", "Records", "Detail"}

	var sb strings.Builder

	// Top border
	writeBorder(&sb, TopLeft, TopT, TopRight)

	// Header row
	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range headers {
		sb.WriteString(HeaderStyle.Render(" " + padRight(h, columnWidths[i]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	// Header separator
	writeBorder(&sb, LeftT, Cross, RightT)

	// Data rows
	for _, p := range report.Projects {
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString(ProjectStyle.Render(" " + padRight(p.ProjectID, columnWidths[0]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString(formatStatus(p.Status, columnWidths[1]))
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString(NumberStyle.Render(" " + padLeft(countCell(p, p.Buckets), columnWidths[2]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString(NumberStyle.Render(" " + padLeft(countCell(p, p.Records), columnWidths[3]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString(MutedStyle.Render(" " + padRight(detail(p), columnWidths[4]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))

		sb.WriteString("\n")
	}

	// Bottom border
	writeBorder(&sb, BottomLeft, BottomT, BottomRight)

	sb.WriteString(summaryLine(report))
	sb.WriteString("\n")
	return sb.String()
}

// PrintSummary writes the rendered summary to w
func PrintSummary(w io.Writer, report *inventory.Report) {
	_, _ = fmt.Fprint(w, RenderSummary(report))
}

func writeBorder(sb *strings.Builder, left, join, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range columnWidths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(columnWidths)-1 {
			sb.WriteString(BorderStyle.Render(join))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

func formatStatus(status inventory.ProjectStatus, width int) string {
	var indicator string
	var style lipgloss.Style

	switch status {
	case inventory.StatusCollected:
		indicator = "●"
		style = CollectedStyle
	case inventory.StatusAdmitted:
		indicator = "◐"
		style = CollectedStyle
	case inventory.StatusFailed:
		indicator = "✗"
		style = FailedStyle
	default:
		indicator = "○"
		style = SkippedStyle
	}

	return style.Render(" " + indicator + " " + padRight(string(status), width-2) + " ")
}

// countCell renders a count, or a dash for projects that were never collected
func countCell(p inventory.ProjectReport, n int) string {
	if p.Status == inventory.StatusSkipped || p.Status == inventory.StatusAdmitted {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func detail(p inventory.ProjectReport) string {
	switch {
	case p.Status == inventory.StatusSkipped && p.Err != nil:
		return fmt.Sprintf("%s: %v", p.SkipReason, p.Err)
	case p.Status == inventory.StatusSkipped:
		return string(p.SkipReason)
	case p.Err != nil:
		return p.Err.Error()
	}
	return ""
}

func summaryLine(report *inventory.Report) string {
	counts := make(map[inventory.ProjectStatus]int)
	for _, p := range report.Projects {
		counts[p.Status]++
	}

	var parts []string
	if c := counts[inventory.StatusAdmitted]; c > 0 {
		parts = append(parts, CollectedStyle.Render(fmt.Sprintf("%d admitted", c)))
	}
	if c := counts[inventory.StatusCollected]; c > 0 {
		parts = append(parts, CollectedStyle.Render(fmt.Sprintf("%d collected", c)))
	}
	if c := counts[inventory.StatusFailed]; c > 0 {
		parts = append(parts, FailedStyle.Render(fmt.Sprintf("%d failed", c)))
	}
	if c := counts[inventory.StatusSkipped]; c > 0 {
		parts = append(parts, SkippedStyle.Render(fmt.Sprintf("%d skipped", c)))
	}

	summary := fmt.Sprintf("  %d projects", len(report.Projects))
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	summary += fmt.Sprintf(", %d records", report.Records)

	if report.Final != nil {
		for _, dest := range report.Final.Uploaded {
			summary += "\n  " + HintStyle.Render("uploaded "+dest)
		}
	}
	return summary
}
