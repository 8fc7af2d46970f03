// Package reorder reconciles a reordered view of a filtered subset with the
// full task collection.
package reorder

import (
	"sort"

	"github.com/rogersnm/todo/internal/model"
)

// Apply returns the whole collection with fresh dense orders.
//
// visible holds the ids that the active filter showed when the drag started;
// newOrder is the order the user dropped them into. Tasks from newOrder come
// first (unknown ids and repeated ids are ignored), then visible tasks the
// input left out, then every hidden task. The last two groups keep their
// previous relative order. No task is ever dropped.
func Apply(all []model.Task, visible, newOrder []string) []model.Task {
	byID := make(map[string]model.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	placed := make(map[string]bool, len(newOrder))
	out := make([]model.Task, 0, len(all))
	for _, id := range newOrder {
		t, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, t)
	}

	wasVisible := make(map[string]bool, len(visible))
	for _, id := range visible {
		wasVisible[id] = true
	}

	var leftOver, hidden []model.Task
	for _, t := range all {
		if placed[t.ID] {
			continue
		}
		if wasVisible[t.ID] {
			leftOver = append(leftOver, t)
		} else {
			hidden = append(hidden, t)
		}
	}
	byOrder(leftOver)
	byOrder(hidden)

	out = append(out, leftOver...)
	out = append(out, hidden...)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Normalize sorts tasks by their current order and renumbers them 0..n-1.
// Ties keep their slice position.
func Normalize(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	byOrder(out)
	for i := range out {
		out[i].Order = i
	}
	return out
}

func byOrder(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Order < tasks[j].Order
	})
}
