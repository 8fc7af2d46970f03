package model

import "fmt"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ValidateTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return fmt.Errorf("%w: invalid theme %q: must be light or dark", ErrValidation, t)
	}
	return nil
}

// Settings is the process-wide configuration record.
type Settings struct {
	Theme            Theme      `json:"theme" yaml:"theme"`
	Categories       []string   `json:"categories" yaml:"categories"`
	CustomCategories []Category `json:"customCategories" yaml:"customCategories"`
	Notifications    bool       `json:"notifications" yaml:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:            ThemeLight,
		Categories:       append([]string(nil), DefaultCategories...),
		CustomCategories: []Category{},
		Notifications:    true,
	}
}

// Normalize repairs a loaded or imported record: unknown themes fall back to
// light, the fallback category is always present among the defaults, and
// custom categories that shadow a default or repeat are dropped.
func (s Settings) Normalize() Settings {
	if ValidateTheme(s.Theme) != nil {
		s.Theme = ThemeLight
	}

	seen := make(map[string]bool)
	defaults := make([]string, 0, len(s.Categories)+1)
	for _, c := range s.Categories {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		defaults = append(defaults, c)
	}
	if !seen[FallbackCategory] {
		seen[FallbackCategory] = true
		defaults = append(defaults, FallbackCategory)
	}
	s.Categories = defaults

	custom := make([]Category, 0, len(s.CustomCategories))
	for _, c := range s.CustomCategories {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		c.IsDefault = false
		custom = append(custom, c)
	}
	s.CustomCategories = custom
	return s
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	s.Categories = append([]string(nil), s.Categories...)
	s.CustomCategories = append([]Category(nil), s.CustomCategories...)
	return s
}
