// Package filter derives the visible, ordered subset of a task collection.
// Everything here is a pure function of its arguments.
package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/rogersnm/todo/internal/model"
)

// Stats are the aggregate counts shown alongside the visible tasks.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// Percent is the rounded completion percentage, 0 for an empty collection.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// Visible applies spec to tasks and returns the matches sorted by Order.
// The input slice is not modified.
func Visible(tasks []model.Task, spec model.FilterSpec, today model.Date) []model.Task {
	spec = spec.Normalize()
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, spec, today) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Matches reports whether a single task passes spec. spec must be normalized.
func Matches(t model.Task, spec model.FilterSpec, today model.Date) bool {
	if spec.Category != model.AllCategories && t.Category != spec.Category {
		return false
	}
	switch spec.Status {
	case model.StatusActive:
		if t.Completed {
			return false
		}
	case model.StatusCompleted:
		if !t.Completed {
			return false
		}
	case model.StatusOverdue:
		if !t.IsOverdue(today) {
			return false
		}
	}
	if spec.Search != "" && !strings.Contains(strings.ToLower(t.Text), spec.Search) {
		return false
	}
	return true
}

// IDs returns the ids of tasks in their given order.
func IDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func ComputeStats(tasks []model.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

// DueToday returns the open tasks due on today, in collection order.
func DueToday(tasks []model.Task, today model.Date) []model.Task {
	var out []model.Task
	for _, t := range Visible(tasks, model.DefaultFilter(), today) {
		if t.IsDueToday(today) {
			out = append(out, t)
		}
	}
	return out
}
