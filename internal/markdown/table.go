package markdown

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

// RenderTaskTable lists tasks with short ids. colorOf maps a category to its display color.
func RenderTaskTable(tasks []model.Task, colorOf func(string) string, today model.Date) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			id.Short(t.ID),
			RenderCheck(t.Completed),
			RenderText(t),
			RenderCategory(t.Category, colorOf(t.Category)),
			RenderDue(t, today),
		}
	}
	return renderTable([]string{"ID", "", "Task", "Category", "Due"}, rows)
}

// RenderCategoryTable lists categories with the number of tasks in each.
func RenderCategoryTable(cats []model.Category, count func(string) int) string {
	if len(cats) == 0 {
		return "No categories found."
	}
	rows := make([][]string, len(cats))
	for i, c := range cats {
		kind := "custom"
		if c.IsDefault {
			kind = "default"
		}
		color := c.DisplayColor()
		rows[i] = []string{c.Name, RenderCategory(c.Name, color), color, kind, strconv.Itoa(count(c.Name))}
	}
	return renderTable([]string{"Key", "Name", "Color", "Kind", "Tasks"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
