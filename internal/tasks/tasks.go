// Package tasks owns the authoritative in-memory task collection.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/rogersnm/todo/internal/filter"
	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/reorder"
)

// Saver persists a full snapshot of the collection.
type Saver interface {
	SaveTasks(tasks []model.Task) error
}

// Update carries the fields to change; nil fields are left alone.
// DueDate is a double pointer so a due date can be cleared.
type Update struct {
	Text      *string
	Completed *bool
	Category  *string
	DueDate   **model.Date
}

func (u Update) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil && u.Category == nil && u.DueDate == nil
}

// Store keeps tasks sorted by Order with dense orders 0..n-1. Every
// mutation is persisted through the Saver; when the save fails the
// in-memory change is kept and the error returned.
type Store struct {
	tasks  []model.Task
	issued map[string]bool
	saver  Saver
	now    func() time.Time
}

func New(saver Saver, initial []model.Task) *Store {
	s := &Store{
		saver:  saver,
		issued: make(map[string]bool),
		now:    now,
	}
	s.Reset(initial)
	return s
}

// SetClock replaces the time source.
func (s *Store) SetClock(fn func() time.Time) {
	s.now = fn
}

func (s *Store) Add(text, category string, due *model.Date) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, fmt.Errorf("%w: task text is required", model.ErrValidation)
	}
	tid, err := id.NewUnique(func(v string) bool { return s.issued[v] })
	if err != nil {
		return model.Task{}, err
	}
	s.issued[tid] = true

	ts := s.now()
	t := model.Task{
		ID:        tid,
		Text:      text,
		Category:  category,
		DueDate:   copyDate(due),
		CreatedAt: ts,
		UpdatedAt: ts,
		Order:     len(s.tasks),
	}
	s.tasks = append(s.tasks, t)
	return t, s.save()
}

// Update applies upd to the task with the given id. A missing id is a no-op.
func (s *Store) Update(taskID string, upd Update) error {
	i := s.index(taskID)
	if i < 0 {
		return nil
	}
	if upd.Text != nil && strings.TrimSpace(*upd.Text) == "" {
		return fmt.Errorf("%w: task text is required", model.ErrValidation)
	}
	t := &s.tasks[i]
	if upd.Text != nil {
		t.Text = strings.TrimSpace(*upd.Text)
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.DueDate != nil {
		t.DueDate = copyDate(*upd.DueDate)
	}
	t.Touch(s.now())
	return s.save()
}

func (s *Store) Toggle(taskID string) error {
	i := s.index(taskID)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.tasks[i].Touch(s.now())
	return s.save()
}

// Remove deletes the task and returns it, or returns nil when it does not exist.
func (s *Store) Remove(taskID string) (*model.Task, error) {
	i := s.index(taskID)
	if i < 0 {
		return nil, nil
	}
	removed := s.tasks[i]
	rest := make([]model.Task, 0, len(s.tasks)-1)
	rest = append(rest, s.tasks[:i]...)
	s.tasks = append(rest, s.tasks[i+1:]...)
	s.renumber()
	return &removed, s.save()
}

func (s *Store) ClearAll() error {
	s.tasks = []model.Task{}
	return s.save()
}

// All returns the collection ordered by Order. Callers must treat it as read-only.
func (s *Store) All() []model.Task {
	return s.tasks
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(taskID string) (model.Task, bool) {
	i := s.index(taskID)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// Resolve maps a unique id prefix to the full task id.
func (s *Store) Resolve(prefix string) (string, error) {
	tid, err := id.Match(prefix, filter.IDs(s.tasks))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrNotFound, err)
	}
	return tid, nil
}

func (s *Store) CountCategory(name string) int {
	n := 0
	for _, t := range s.tasks {
		if t.Category == name {
			n++
		}
	}
	return n
}

// Reassign moves every task in category from to category to and persists once.
func (s *Store) Reassign(from, to string) (int, error) {
	return s.reassignIf(func(c string) bool { return c == from }, to)
}

// ReassignInvalid moves every task whose category fails valid to category to
// and persists once. Nothing is saved when every category is valid.
func (s *Store) ReassignInvalid(valid func(string) bool, to string) (int, error) {
	return s.reassignIf(func(c string) bool { return !valid(c) }, to)
}

func (s *Store) reassignIf(match func(string) bool, to string) (int, error) {
	ts := s.now()
	n := 0
	for i := range s.tasks {
		if !match(s.tasks[i].Category) {
			continue
		}
		s.tasks[i].Category = to
		s.tasks[i].Touch(ts)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, s.save()
}

// Reorder applies a drag result. visible is the filtered view the drag
// started from and newOrder the dropped order of its ids.
func (s *Store) Reorder(visible, newOrder []string) error {
	s.tasks = reorder.Apply(s.tasks, visible, newOrder)
	return s.save()
}

// Replace swaps the entire collection, as an import does.
func (s *Store) Replace(tasks []model.Task) error {
	s.Reset(tasks)
	return s.save()
}

// Reset swaps the collection for one read back from storage without saving.
// Ids issued earlier stay reserved.
func (s *Store) Reset(tasks []model.Task) {
	s.tasks = reorder.Normalize(tasks)
	for _, t := range s.tasks {
		s.issued[t.ID] = true
	}
}

func (s *Store) index(taskID string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (s *Store) renumber() {
	for i := range s.tasks {
		s.tasks[i].Order = i
	}
}

func (s *Store) save() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.SaveTasks(s.tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

func copyDate(d *model.Date) *model.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
