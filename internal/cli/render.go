// Package cli renders store entities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskhive/taskhive/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// HeaderStyle is used for workspace and space headings.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SubtleStyle is used for identifiers, timestamps, and counts.
var SubtleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// StatusStyle returns a color-coded style for the given status type.
func StatusStyle(statusType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch statusType {
	case model.StatusTypeOpen:
		return base.Foreground(ColorBlue)
	case model.StatusTypeInProgress:
		return base.Foreground(ColorYellow)
	case model.StatusTypeDone, model.StatusTypeClosed:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for the given task priority.
func PriorityStyle(priority int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.PriorityUrgent:
		return base.Foreground(ColorRed)
	case model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case model.PriorityNormal:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// TaskLine renders a single task row: identifier, title, status, and
// priority.
func TaskLine(task *model.Task) string {
	var b strings.Builder
	b.WriteString(SubtleStyle.Render(task.Identifier))
	b.WriteString("  ")
	b.WriteString(task.Title)
	if task.Status != nil {
		b.WriteString("  ")
		b.WriteString(StatusStyle(task.Status.Type).Render(task.Status.Name))
	}
	b.WriteString("  ")
	b.WriteString(PriorityStyle(task.Priority).Render(task.PriorityLabel()))
	if task.TimeSpent > 0 {
		entry := model.TimeEntry{Duration: task.TimeSpent}
		b.WriteString("  ")
		b.WriteString(SubtleStyle.Render(entry.FormattedDuration()))
	}
	return b.String()
}

// WorkspaceHeading renders a workspace title with its slug.
func WorkspaceHeading(ws *model.Workspace) string {
	return HeaderStyle.Render(ws.Name) + " " + SubtleStyle.Render(ws.Slug)
}

// SpaceLine renders a space row within a workspace tree.
func SpaceLine(space *model.Space, listCount int) string {
	line := fmt.Sprintf("%s %s", space.Name, SubtleStyle.Render(fmt.Sprintf("(%d lists)", listCount)))
	if space.IsPrivate {
		line += " " + SubtleStyle.Render("private")
	}
	return line
}

// ActivityLine renders a single feed entry with its relative age.
func ActivityLine(a *model.Activity, now time.Time) string {
	return fmt.Sprintf("%s %s %s %s",
		SubtleStyle.Render(relativeAge(a.CreatedAt, now)),
		a.Type,
		SubtleStyle.Render(a.SubjectType),
		a.SubjectID,
	)
}

// relativeAge renders an approximate human age like "5m ago".
func relativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
