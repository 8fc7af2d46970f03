package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// FallbackCategory receives the tasks of a removed custom category. It is a
	// default category and therefore can never be removed itself.
	FallbackCategory = "personal"

	DefaultCustomColor = "#4CAF50"
	fallbackColor      = "#757575"
)

var DefaultCategories = []string{"work", "personal", "school", "shopping"}

var defaultColors = map[string]string{
	"work":     "#2196F3",
	"personal": "#4CAF50",
	"school":   "#FF9800",
	"shopping": "#9C27B0",
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category is either a protected default or a user-defined custom category.
// Only custom categories carry a stored color.
type Category struct {
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	IsDefault bool   `json:"-" yaml:"-"`
}

// DisplayName capitalizes the first character of the stored key.
func (c Category) DisplayName() string {
	return DisplayName(c.Name)
}

func (c Category) DisplayColor() string {
	if !c.IsDefault && c.Color != "" {
		return c.Color
	}
	return DefaultColor(c.Name)
}

func DisplayName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// DefaultColor looks up the fixed color of a default category, falling back to grey.
func DefaultColor(name string) string {
	if c, ok := defaultColors[name]; ok {
		return c
	}
	return fallbackColor
}

// NormalizeCategoryName is the case-normalized identity used for uniqueness checks.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ValidateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("%w: invalid color %q (want #RRGGBB)", ErrValidation, color)
	}
	return nil
}
