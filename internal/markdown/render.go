package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rogersnm/todo/internal/filter"
	"github.com/rogersnm/todo/internal/model"
)

const progressWidth = 20

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderCheck(completed bool) string {
	if completed {
		return doneStyle.Render("[x]")
	}
	return openStyle.Render("[ ]")
}

func RenderText(t model.Task) string {
	if t.Completed {
		return doneStyle.Render(t.Text)
	}
	return openStyle.Render(t.Text)
}

// RenderCategory draws the category display name in its color.
func RenderCategory(name, color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(model.DisplayName(name))
}

// RenderDue describes the due date relative to today; overdue dates are red.
func RenderDue(t model.Task, today model.Date) string {
	if t.DueDate == nil {
		return ""
	}
	s := t.DueDate.Relative(today)
	switch {
	case t.IsOverdue(today):
		return overdueStyle.Render(s)
	case t.IsDueToday(today):
		return todayStyle.Render(s)
	}
	return s
}

// RenderStats prints the task counts with a completion bar.
func RenderStats(s filter.Stats) string {
	pct := s.Percent()
	filled := pct * progressWidth / 100
	bar := barStyle.Render(strings.Repeat("█", filled)) + labelStyle.Render(strings.Repeat("░", progressWidth-filled))
	return fmt.Sprintf("%s %d%%  %s", bar, pct,
		labelStyle.Render(fmt.Sprintf("%d total, %d completed, %d remaining", s.Total, s.Completed, s.Remaining)))
}

func RenderTaskHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}
