package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Styling
var (
	primaryColor   = lipgloss.Color("205")
	secondaryColor = lipgloss.Color("240")
	successColor   = lipgloss.Color("46")
	errorColor     = lipgloss.Color("196")
	warningColor   = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	ruleStyle = lipgloss.NewStyle().
			Padding(0, 1)

	matchedStyle = lipgloss.NewStyle().Foreground(successColor)
	skippedStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	appliedStyle = lipgloss.NewStyle().Foreground(warningColor)

	insertStyle = lipgloss.NewStyle().Foreground(successColor)
	deleteStyle = lipgloss.NewStyle().Foreground(errorColor)
	equalStyle  = lipgloss.NewStyle().Foreground(secondaryColor)

	// SuccessStyle renders the completion line of a run that changed the file
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// NeutralStyle renders the completion line of a run that changed nothing
	NeutralStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// ErrorStyle renders fatal errors on stderr
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

func (m *Model) render() string {
	help := helpStyle.Render(fmt.Sprintf("%s • %s • ↑/↓ scroll",
		keys.Accept.Help().Key+": "+keys.Accept.Help().Desc,
		keys.Reject.Help().Key+": "+keys.Reject.Help().Desc))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		help,
	)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("Review %s", m.doc.Path))
	return lipgloss.JoinVertical(lipgloss.Left, title, RenderReport(m.report))
}

// RenderReport renders one line per rule with its outcome
func RenderReport(report *models.PatchReport) string {
	if report == nil {
		return ""
	}

	width := 0
	for _, res := range report.Results {
		if len(res.RuleID) > width {
			width = len(res.RuleID)
		}
	}

	var lines []string
	for _, res := range report.Results {
		var status string
		switch {
		case res.Matched:
			status = matchedStyle.Render(fmt.Sprintf("%d replaced", res.Occurrences))
		case res.AlreadyApplied:
			status = appliedStyle.Render("already applied")
		default:
			status = skippedStyle.Render("no match")
		}
		lines = append(lines, ruleStyle.Render(fmt.Sprintf("%-*s  %s", width, res.RuleID, status)))
	}
	return strings.Join(lines, "\n")
}

// RenderDiff renders a colored line diff with the given amount of context
func RenderDiff(lines []patcher.DiffLine, context int) string {
	var out []string
	for _, l := range patcher.Hunks(lines, context) {
		text := l.Prefix() + l.Text
		switch {
		case l.Gap:
			out = append(out, equalStyle.Render("..."))
		case l.Op == diffpatch.DiffInsert:
			out = append(out, insertStyle.Render(text))
		case l.Op == diffpatch.DiffDelete:
			out = append(out, deleteStyle.Render(text))
		default:
			out = append(out, equalStyle.Render(text))
		}
	}
	return strings.Join(out, "\n")
}
