// Package notify finds tasks due today and runs the periodic due-date check.
package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rogersnm/todo/internal/filter"
	"github.com/rogersnm/todo/internal/model"
)

const DefaultInterval = time.Minute

// Tag identifies the notification for a task so repeats can be collapsed.
func Tag(taskID string) string {
	return "task-" + taskID
}

// DueToday returns the incomplete tasks due on today, in display order.
func DueToday(tasks []model.Task, today model.Date) []model.Task {
	return filter.DueToday(tasks, today)
}

// Watcher calls Check once immediately and then on every tick until the
// context is cancelled. Check must not mutate tasks.
type Watcher struct {
	Interval time.Duration
	Check    func() error
}

func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	w.check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	if w.Check == nil {
		return
	}
	if err := w.Check(); err != nil {
		log.WithError(err).Warn("due date check failed")
	}
}
