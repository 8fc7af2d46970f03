// Package category manages the default and custom task categories together
// with the rest of the settings record they are persisted in.
package category

import (
	"fmt"

	"github.com/rogersnm/todo/internal/model"
)

// SettingsSaver persists the settings record.
type SettingsSaver interface {
	SaveSettings(settings model.Settings) error
}

// TaskIndex is the view of the task collection needed to remove a category.
type TaskIndex interface {
	CountCategory(name string) int
	Reassign(from, to string) (int, error)
}

type Registry struct {
	settings model.Settings
	saver    SettingsSaver
	tasks    TaskIndex
}

func New(saver SettingsSaver, tasks TaskIndex, settings model.Settings) *Registry {
	return &Registry{
		settings: settings.Normalize(),
		saver:    saver,
		tasks:    tasks,
	}
}

// IsValid reports whether name is an existing default or custom category.
func (r *Registry) IsValid(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

func (r *Registry) Lookup(name string) (model.Category, bool) {
	for _, c := range r.settings.Categories {
		if c == name {
			return model.Category{Name: c, IsDefault: true}, true
		}
	}
	for _, c := range r.settings.CustomCategories {
		if c.Name == name {
			return c, true
		}
	}
	return model.Category{}, false
}

// Add registers a custom category. The name is trimmed and lowercased; an
// empty color selects the default custom color.
func (r *Registry) Add(name, color string) (model.Category, error) {
	name = model.NormalizeCategoryName(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", model.ErrValidation)
	}
	if name == model.AllCategories {
		return model.Category{}, fmt.Errorf("%w: %q is reserved", model.ErrValidation, name)
	}
	if color == "" {
		color = model.DefaultCustomColor
	}
	if err := model.ValidateColor(color); err != nil {
		return model.Category{}, err
	}
	if r.IsValid(name) {
		return model.Category{}, fmt.Errorf("%w: category %q already exists", model.ErrDuplicate, name)
	}

	c := model.Category{Name: name, Color: color}
	r.settings.CustomCategories = append(r.settings.CustomCategories, c)
	return c, r.save()
}

// Remove deletes a custom category after moving its tasks to the fallback
// category. It returns the number of reassigned tasks.
func (r *Registry) Remove(name string) (int, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: category %q", model.ErrNotFound, name)
	}
	if c.IsDefault {
		return 0, fmt.Errorf("%w: %q is a default category", model.ErrProtectedCategory, name)
	}

	n := 0
	if r.tasks != nil {
		var err error
		if n, err = r.tasks.Reassign(name, model.FallbackCategory); err != nil {
			return n, fmt.Errorf("reassigning tasks: %w", err)
		}
	}

	custom := make([]model.Category, 0, len(r.settings.CustomCategories))
	for _, cc := range r.settings.CustomCategories {
		if cc.Name != name {
			custom = append(custom, cc)
		}
	}
	r.settings.CustomCategories = custom
	return n, r.save()
}

// InUse returns the number of tasks referencing name.
func (r *Registry) InUse(name string) int {
	if r.tasks == nil {
		return 0
	}
	return r.tasks.CountCategory(name)
}

// All returns defaults first, then custom categories in insertion order.
func (r *Registry) All() []model.Category {
	all := r.Defaults()
	return append(all, r.Custom()...)
}

func (r *Registry) Defaults() []model.Category {
	out := make([]model.Category, 0, len(r.settings.Categories))
	for _, c := range r.settings.Categories {
		out = append(out, model.Category{Name: c, IsDefault: true})
	}
	return out
}

func (r *Registry) Custom() []model.Category {
	return append([]model.Category(nil), r.settings.CustomCategories...)
}

// Color returns the display color for name, grey for unknown categories.
func (r *Registry) Color(name string) string {
	if c, ok := r.Lookup(name); ok {
		return c.DisplayColor()
	}
	return model.DefaultColor(name)
}

func (r *Registry) DisplayName(name string) string {
	return model.DisplayName(name)
}

func (r *Registry) Theme() model.Theme {
	return r.settings.Theme
}

func (r *Registry) SetTheme(t model.Theme) error {
	if err := model.ValidateTheme(t); err != nil {
		return err
	}
	r.settings.Theme = t
	return r.save()
}

func (r *Registry) ToggleTheme() (model.Theme, error) {
	next := model.ThemeDark
	if r.settings.Theme == model.ThemeDark {
		next = model.ThemeLight
	}
	r.settings.Theme = next
	return next, r.save()
}

func (r *Registry) Notifications() bool {
	return r.settings.Notifications
}

func (r *Registry) SetNotifications(on bool) error {
	r.settings.Notifications = on
	return r.save()
}

// Settings returns a copy of the current settings record.
func (r *Registry) Settings() model.Settings {
	return r.settings.Clone()
}

// Replace swaps the whole settings record, as an import does.
func (r *Registry) Replace(s model.Settings) error {
	r.settings = s.Normalize()
	return r.save()
}

func (r *Registry) save() error {
	if r.saver == nil {
		return nil
	}
	if err := r.saver.SaveSettings(r.settings.Clone()); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
