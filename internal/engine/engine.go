// Package engine coordinates the task collection, categories, settings and
// persistence behind one explicit instance. Every mutation persists and then
// re-renders through the registered observers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rogersnm/todo/internal/category"
	"github.com/rogersnm/todo/internal/filter"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/notify"
	"github.com/rogersnm/todo/internal/store"
	"github.com/rogersnm/todo/internal/tasks"
)

const (
	TitleNewDue         = "New task due today!"
	TitleDue            = "Task due today!"
	TitleDeleteTask     = "Delete Task"
	TitleClearAll       = "Clear All Tasks"
	TitleDeleteCategory = "Delete Category"
)

// Observer receives the visible tasks and the collection statistics after
// every change.
type Observer func(visible []model.Task, stats filter.Stats)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Notifier shows a due-date alert.
type Notifier interface {
	Notify(title, body string) error
}

// AutoConfirm approves every request. It is the default Confirmer.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(context.Context, string, string) (bool, error) { return true, nil }

type Option func(*Engine)

func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirmer = c }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// WithDefaultCategory sets the category used when AddTask gets none.
func WithDefaultCategory(name string) Option {
	return func(e *Engine) { e.defaultCategory = name }
}

type Engine struct {
	persist    *store.Store
	tasks      *tasks.Store
	categories *category.Registry

	filter          model.FilterSpec
	observers       []Observer
	confirmer       Confirmer
	notifier        Notifier
	now             func() time.Time
	defaultCategory string

	// notified maps a notification tag to the day it was last shown.
	notified map[string]model.Date
}

// Open loads the persisted state and returns a ready engine.
func Open(persist *store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		persist:         persist,
		filter:          model.DefaultFilter(),
		confirmer:       AutoConfirm{},
		now:             now,
		defaultCategory: model.FallbackCategory,
		notified:        make(map[string]model.Date),
	}
	for _, o := range opts {
		o(e)
	}
	persist.SetClock(e.now)

	if err := e.Reload(); err != nil {
		return nil, err
	}
	if !e.categories.IsValid(e.defaultCategory) {
		log.WithField("category", e.defaultCategory).Warn("default category does not exist, using personal")
		e.defaultCategory = model.FallbackCategory
	}
	return e, nil
}

// Reload replaces the in-memory state with what is persisted, picking up
// changes made by other processes. The filter is kept when its category
// still exists.
func (e *Engine) Reload() error {
	loaded, settings, err := e.persist.Load()
	if err != nil {
		return err
	}
	if e.tasks == nil {
		e.tasks = tasks.New(e.persist, loaded)
		e.tasks.SetClock(e.now)
	} else {
		e.tasks.Reset(loaded)
	}
	e.categories = category.New(e.persist, e.tasks, settings)

	if _, err := e.adoptOrphans(); err != nil {
		log.WithError(err).Warn("saving tasks moved off unknown categories")
	}

	if e.filter.Category != model.AllCategories && !e.categories.IsValid(e.filter.Category) {
		e.filter.Category = model.AllCategories
	}
	e.render()
	return nil
}

// Subscribe registers an observer and renders the current state to it.
func (e *Engine) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
	o(e.Visible(), e.Stats())
}

func (e *Engine) Today() model.Date {
	return model.Today(e.now().Local())
}

func (e *Engine) AddTask(text, categoryName string, due *model.Date) (model.Task, error) {
	if categoryName == "" {
		categoryName = e.defaultCategory
	}
	if !e.categories.IsValid(categoryName) {
		return model.Task{}, fmt.Errorf("%w: unknown category %q", model.ErrValidation, categoryName)
	}
	t, err := e.tasks.Add(text, categoryName, due)
	if t.ID == "" {
		return t, err
	}
	e.render()
	if err != nil {
		return t, e.saveFailed("adding task", err)
	}

	today := e.Today()
	if t.IsDueToday(today) && e.categories.Notifications() {
		e.alert(TitleNewDue, t, today)
	}
	return t, nil
}

// UpdateTask applies a partial update. A missing id is a no-op.
func (e *Engine) UpdateTask(taskID string, upd tasks.Update) error {
	if upd.Category != nil && !e.categories.IsValid(*upd.Category) {
		return fmt.Errorf("%w: unknown category %q", model.ErrValidation, *upd.Category)
	}
	if err := e.tasks.Update(taskID, upd); err != nil {
		if errors.Is(err, model.ErrValidation) {
			return err
		}
		e.render()
		return e.saveFailed("updating task", err)
	}
	e.render()
	return nil
}

func (e *Engine) ToggleTask(taskID string) error {
	err := e.tasks.Toggle(taskID)
	e.render()
	if err != nil {
		return e.saveFailed("toggling task", err)
	}
	return nil
}

// DeleteTask removes a task once the Confirmer approves. It reports whether
// the task was removed.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	t, ok := e.tasks.Get(taskID)
	if !ok {
		return false, nil
	}
	msg := fmt.Sprintf("Are you sure you want to delete %q?", t.Text)
	if ok, err := e.confirm(ctx, TitleDeleteTask, msg); !ok || err != nil {
		return false, err
	}
	_, err := e.tasks.Remove(taskID)
	e.render()
	if err != nil {
		return true, e.saveFailed("deleting task", err)
	}
	return true, nil
}

// ClearAll removes every task once the Confirmer approves. An empty
// collection is left alone without asking.
func (e *Engine) ClearAll(ctx context.Context) (bool, error) {
	if e.tasks.Len() == 0 {
		return false, nil
	}
	msg := "Are you sure you want to delete all tasks? This action cannot be undone."
	if ok, err := e.confirm(ctx, TitleClearAll, msg); !ok || err != nil {
		return false, err
	}
	err := e.tasks.ClearAll()
	e.render()
	if err != nil {
		return true, e.saveFailed("clearing tasks", err)
	}
	return true, nil
}

// Reorder applies a new order to the currently visible tasks.
func (e *Engine) Reorder(newOrder []string) error {
	visible := filter.IDs(e.Visible())
	err := e.tasks.Reorder(visible, newOrder)
	e.render()
	if err != nil {
		return e.saveFailed("reordering tasks", err)
	}
	return nil
}

func (e *Engine) SetFilter(spec model.FilterSpec) error {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return err
	}
	if spec.Category != model.AllCategories && !e.categories.IsValid(spec.Category) {
		return fmt.Errorf("%w: unknown category %q", model.ErrValidation, spec.Category)
	}
	e.filter = spec
	e.render()
	return nil
}

func (e *Engine) Filter() model.FilterSpec {
	return e.filter
}

func (e *Engine) Visible() []model.Task {
	return filter.Visible(e.tasks.All(), e.filter, e.Today())
}

func (e *Engine) Stats() filter.Stats {
	return filter.ComputeStats(e.tasks.All())
}

// Tasks returns the whole collection in order. Callers must not modify it.
func (e *Engine) Tasks() []model.Task {
	return e.tasks.All()
}

func (e *Engine) Get(taskID string) (model.Task, bool) {
	return e.tasks.Get(taskID)
}

// Resolve maps a unique id prefix to a task id.
func (e *Engine) Resolve(prefix string) (string, error) {
	return e.tasks.Resolve(prefix)
}

func (e *Engine) Categories() []model.Category {
	return e.categories.All()
}

func (e *Engine) Category(name string) (model.Category, bool) {
	return e.categories.Lookup(name)
}

// CategoryUsage returns the number of tasks in category name.
func (e *Engine) CategoryUsage(name string) int {
	return e.categories.InUse(name)
}

func (e *Engine) CategoryColor(name string) string {
	return e.categories.Color(name)
}

func (e *Engine) AddCategory(name, color string) (model.Category, error) {
	c, err := e.categories.Add(name, color)
	if err != nil {
		if c.Name == "" {
			return c, err
		}
		return c, e.saveFailed("adding category", err)
	}
	e.render()
	return c, nil
}

// RemoveCategory deletes a custom category once the Confirmer approves,
// moving its tasks to the fallback category. It reports whether the category
// was removed and how many tasks were reassigned.
func (e *Engine) RemoveCategory(ctx context.Context, name string) (bool, int, error) {
	c, ok := e.categories.Lookup(name)
	if !ok {
		return false, 0, fmt.Errorf("%w: category %q", model.ErrNotFound, name)
	}
	if c.IsDefault {
		return false, 0, fmt.Errorf("%w: %q is a default category", model.ErrProtectedCategory, name)
	}

	msg := fmt.Sprintf("Are you sure you want to delete the category %q?", c.DisplayName())
	if n := e.categories.InUse(name); n > 0 {
		msg = fmt.Sprintf("This category is used by %d task(s). Tasks will be reassigned to %q. Do you want to continue?",
			n, model.DisplayName(model.FallbackCategory))
	}
	if ok, err := e.confirm(ctx, TitleDeleteCategory, msg); !ok || err != nil {
		return false, 0, err
	}

	n, err := e.categories.Remove(name)
	if e.filter.Category == name {
		e.filter.Category = model.AllCategories
	}
	e.render()
	if err != nil {
		return true, n, e.saveFailed("removing category", err)
	}
	return true, n, nil
}

func (e *Engine) Settings() model.Settings {
	return e.categories.Settings()
}

func (e *Engine) SetTheme(t model.Theme) error {
	if err := e.categories.SetTheme(t); err != nil {
		if errors.Is(err, model.ErrValidation) {
			return err
		}
		return e.saveFailed("saving theme", err)
	}
	return nil
}

func (e *Engine) ToggleTheme() (model.Theme, error) {
	t, err := e.categories.ToggleTheme()
	if err != nil {
		return t, e.saveFailed("saving theme", err)
	}
	return t, nil
}

func (e *Engine) SetNotifications(on bool) error {
	if err := e.categories.SetNotifications(on); err != nil {
		return e.saveFailed("saving notifications", err)
	}
	return nil
}

// Export serializes all tasks and settings.
func (e *Engine) Export(f store.Format) ([]byte, error) {
	return e.persist.Export(e.tasks.All(), e.categories.Settings(), f)
}

// Import replaces the task collection and merges settings from an exported
// document. Malformed input leaves everything unchanged.
func (e *Engine) Import(data []byte) (store.ImportResult, error) {
	res, err := e.persist.Import(data, e.categories.Settings())
	if err != nil {
		return res, fmt.Errorf("importing: %w", err)
	}

	var saveErr error
	if res.HasSettings {
		saveErr = errors.Join(saveErr, e.categories.Replace(res.Settings))
	}
	if res.HasTasks {
		ts := e.now()
		for i := range res.Tasks {
			if !e.categories.IsValid(res.Tasks[i].Category) {
				res.Tasks[i].Category = model.FallbackCategory
				res.Tasks[i].Touch(ts)
			}
		}
		saveErr = errors.Join(saveErr, e.tasks.Replace(res.Tasks))
	} else if res.HasSettings {
		_, err := e.adoptOrphans()
		saveErr = errors.Join(saveErr, err)
	}
	if e.filter.Category != model.AllCategories && !e.categories.IsValid(e.filter.Category) {
		e.filter.Category = model.AllCategories
	}
	log.WithFields(log.Fields{
		"tasks":    len(res.Tasks),
		"dropped":  res.Dropped,
		"settings": res.HasSettings,
	}).Info("imported data")
	e.render()
	if saveErr != nil {
		return res, e.saveFailed("importing", saveErr)
	}
	return res, nil
}

// CheckDue alerts once per task per day for open tasks due today. It never
// modifies tasks and returns the tasks it alerted for.
func (e *Engine) CheckDue() ([]model.Task, error) {
	if e.notifier == nil || !e.categories.Notifications() {
		return nil, nil
	}
	today := e.Today()
	var alerted []model.Task
	var errs error
	for _, t := range notify.DueToday(e.tasks.All(), today) {
		if day, ok := e.notified[notify.Tag(t.ID)]; ok && day == today {
			continue
		}
		if err := e.alert(TitleDue, t, today); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		alerted = append(alerted, t)
	}
	return alerted, errs
}

// adoptOrphans moves tasks whose category is not registered to the fallback
// category so no task references a missing category.
func (e *Engine) adoptOrphans() (int, error) {
	n, err := e.tasks.ReassignInvalid(e.categories.IsValid, model.FallbackCategory)
	if n > 0 {
		log.WithFields(log.Fields{
			"tasks":    n,
			"category": model.FallbackCategory,
		}).Info("moved tasks off unknown categories")
	}
	return n, err
}

func (e *Engine) alert(title string, t model.Task, today model.Date) error {
	if e.notifier == nil {
		return nil
	}
	if err := e.notifier.Notify(title, t.Text); err != nil {
		log.WithError(err).WithField("task", t.ID).Warn("notification failed")
		return fmt.Errorf("notifying: %w", err)
	}
	e.notified[notify.Tag(t.ID)] = today
	return nil
}

func (e *Engine) confirm(ctx context.Context, title, message string) (bool, error) {
	if e.confirmer == nil {
		return true, nil
	}
	ok, err := e.confirmer.Confirm(ctx, title, message)
	if err != nil {
		return false, fmt.Errorf("confirming %s: %w", title, err)
	}
	return ok, nil
}

func (e *Engine) render() {
	if len(e.observers) == 0 {
		return
	}
	visible, stats := e.Visible(), e.Stats()
	for _, o := range e.observers {
		o(visible, stats)
	}
}

// saveFailed logs a persistence failure. The in-memory change stays in place.
func (e *Engine) saveFailed(op string, err error) error {
	log.WithError(err).WithField("op", op).Warn("changes kept in memory but not saved")
	return err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
