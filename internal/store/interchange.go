package store

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/reorder"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json or yaml)", model.ErrValidation, s)
	}
}

// Document is the export interchange shape.
type Document struct {
	Tasks      []model.Task   `json:"tasks" yaml:"tasks"`
	Settings   model.Settings `json:"settings" yaml:"settings"`
	Version    int            `json:"version" yaml:"version"`
	ExportDate time.Time      `json:"exportDate" yaml:"exportDate"`
}

// ExportFilename is the suggested backup file name for the day of now.
func ExportFilename(now time.Time, f Format) string {
	return fmt.Sprintf("todo-app-backup-%s.%s", now.Format("2006-01-02"), f)
}

// Export serializes the full state. JSON output is indented by two spaces.
func (s *Store) Export(tasks []model.Task, settings model.Settings, f Format) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	doc := Document{
		Tasks:      tasks,
		Settings:   settings,
		Version:    CurrentVersion,
		ExportDate: s.now(),
	}
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding export: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding export: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := codec.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding export: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", model.ErrValidation, f)
	}
}

// ImportResult is a sanitized import. Tasks and Settings are only meaningful
// when the matching Has flag is set.
type ImportResult struct {
	Tasks       []model.Task
	Settings    model.Settings
	HasTasks    bool
	HasSettings bool
	Dropped     int
}

// Import parses an exported document. JSON is tried first, then YAML. The
// whole import fails with ErrMalformedData when the top level is not an
// object, tasks is not an array or settings is not an object. Individual
// task entries are repaired or dropped, never rejected.
func (s *Store) Import(data []byte, current model.Settings) (ImportResult, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Settings: current.Clone()}
	if v, ok := doc["tasks"]; ok && v != nil {
		entries, ok := v.([]any)
		if !ok {
			return ImportResult{}, fmt.Errorf("%w: tasks must be an array", model.ErrMalformedData)
		}
		tasks, _ := sanitizeTasks(entries, s.now())
		res.Tasks = reorder.Normalize(tasks)
		res.HasTasks = true
		res.Dropped = len(entries) - len(tasks)
	}
	if v, ok := doc["settings"]; ok && v != nil {
		raw, ok := v.(map[string]any)
		if !ok {
			return ImportResult{}, fmt.Errorf("%w: settings must be an object", model.ErrMalformedData)
		}
		res.Settings = mergeSettings(current, raw)
		res.HasSettings = true
	}
	return res, nil
}

func decodeDocument(data []byte) (map[string]any, error) {
	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		v = nil
		if yerr := yaml.Unmarshal(data, &v); yerr != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedData, err)
		}
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", model.ErrMalformedData)
	}
	return doc, nil
}

// sanitizeTasks converts decoded entries into tasks. Non-objects and entries
// without text are dropped; missing fields get defaults and repeated ids get
// fresh ones. repaired reports whether any entry needed a default.
func sanitizeTasks(entries []any, now time.Time) ([]model.Task, bool) {
	tasks := make([]model.Task, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	repaired := false
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			repaired = true
			continue
		}
		t, fixed := sanitizeTask(obj, now)
		if strings.TrimSpace(t.Text) == "" {
			repaired = true
			continue
		}
		if t.ID == "" || seen[t.ID] {
			fresh, err := id.NewUnique(func(v string) bool { return seen[v] })
			if err != nil {
				continue
			}
			t.ID = fresh
			fixed = true
		}
		seen[t.ID] = true
		repaired = repaired || fixed
		tasks = append(tasks, t)
	}
	return tasks, repaired
}

func sanitizeTask(obj map[string]any, now time.Time) (model.Task, bool) {
	fixed := false
	t := model.Task{}

	t.ID, _ = obj["id"].(string)
	t.Text, _ = obj["text"].(string)
	t.Completed, _ = obj["completed"].(bool)

	if c, ok := obj["category"].(string); ok && c != "" {
		t.Category = c
	} else {
		t.Category = model.FallbackCategory
		fixed = true
	}

	if d, ok := parseDate(obj["dueDate"]); ok {
		t.DueDate = &d
	}

	if ts, ok := parseTime(obj["createdAt"]); ok {
		t.CreatedAt = ts
	} else {
		t.CreatedAt = now
		fixed = true
	}
	if ts, ok := parseTime(obj["updatedAt"]); ok {
		t.UpdatedAt = ts
	} else {
		t.UpdatedAt = now
		fixed = true
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
		fixed = true
	}

	if o, ok := toInt(obj["order"]); ok {
		t.Order = o
	}
	return t, fixed
}

// mergeSettings overlays raw onto base key by key. Keys of the wrong type are ignored.
func mergeSettings(base model.Settings, raw map[string]any) model.Settings {
	s := base.Clone()
	if v, ok := raw["theme"].(string); ok {
		s.Theme = model.Theme(v)
	}
	if v, ok := raw["notifications"].(bool); ok {
		s.Notifications = v
	}
	if v, ok := raw["categories"].([]any); ok {
		cats := make([]string, 0, len(v))
		for _, c := range v {
			if name, ok := c.(string); ok {
				cats = append(cats, model.NormalizeCategoryName(name))
			}
		}
		s.Categories = cats
	}
	if v, ok := raw["customCategories"].([]any); ok {
		custom := make([]model.Category, 0, len(v))
		for _, c := range v {
			obj, ok := c.(map[string]any)
			if !ok {
				continue
			}
			name, _ := obj["name"].(string)
			name = model.NormalizeCategoryName(name)
			if name == "" || name == model.AllCategories {
				continue
			}
			color, _ := obj["color"].(string)
			if model.ValidateColor(color) != nil {
				color = model.DefaultCustomColor
			}
			custom = append(custom, model.Category{Name: name, Color: color})
		}
		s.CustomCategories = custom
	}
	return s.Normalize()
}

func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseDate(v any) (model.Date, bool) {
	switch x := v.(type) {
	case time.Time:
		return model.DateOf(x.UTC()), true
	case string:
		if d, err := model.ParseDate(x); err == nil {
			return d, true
		}
	}
	return model.Date{}, false
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	}
	return 0, false
}
