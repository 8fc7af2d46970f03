// Package store persists the task and settings records and converts them to
// and from the export interchange format.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/reorder"
)

const (
	TasksKey    = "todoAppData"
	SettingsKey = "todoAppSettings"

	// CurrentVersion is the task record schema version written by this build.
	CurrentVersion = 1

	corruptSuffix = ".corrupt"
)

var codec = sonic.ConfigStd

// TaskRecord is the stored shape of the task collection.
type TaskRecord struct {
	Tasks       []model.Task `json:"tasks"`
	Version     int          `json:"version"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

type Store struct {
	backend Backend
	now     func() time.Time
}

func New(backend Backend) *Store {
	return &Store{backend: backend, now: now}
}

// SetClock replaces the time source.
func (s *Store) SetClock(fn func() time.Time) {
	s.now = fn
}

// Load reads both records. Missing or unreadable records degrade to an empty
// task list and default settings; unparsable task bytes are copied aside to
// <key>.corrupt before anything can overwrite them. Records written by an
// older schema are migrated and saved back.
func (s *Store) Load() ([]model.Task, model.Settings, error) {
	tasks, err := s.loadTasks()
	if err != nil {
		return nil, model.Settings{}, err
	}
	settings, err := s.loadSettings()
	if err != nil {
		return nil, model.Settings{}, err
	}
	return tasks, settings, nil
}

func (s *Store) loadTasks() ([]model.Task, error) {
	data, err := s.backend.Get(TasksKey)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil || raw == nil {
		s.quarantine(TasksKey, data, err)
		return []model.Task{}, nil
	}
	if _, ok := raw["tasks"].([]any); !ok && raw["tasks"] != nil {
		s.quarantine(TasksKey, data, errors.New("tasks is not an array"))
		return []model.Task{}, nil
	}

	rec, changed := Migrate(raw, s.now())
	if changed {
		log.WithFields(log.Fields{
			"from":  versionOf(raw),
			"to":    CurrentVersion,
			"tasks": len(rec.Tasks),
		}).Info("migrated task record")
		if err := s.SaveTasks(rec.Tasks); err != nil {
			log.WithError(err).Warn("saving migrated task record")
		}
	}
	return rec.Tasks, nil
}

func (s *Store) loadSettings() (model.Settings, error) {
	data, err := s.backend.Get(SettingsKey)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return model.DefaultSettings(), nil
		}
		return model.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil || raw == nil {
		log.WithError(err).Warn("settings record unreadable, using defaults")
		return model.DefaultSettings(), nil
	}
	return mergeSettings(model.DefaultSettings(), raw), nil
}

func (s *Store) quarantine(key string, data []byte, cause error) {
	entry := log.WithField("key", key)
	if cause != nil {
		entry = entry.WithError(cause)
	}
	if err := s.backend.Put(key+corruptSuffix, data); err != nil {
		entry.WithField("backup_error", err).Warn("record unreadable and could not be backed up, starting empty")
		return
	}
	entry.WithField("backup", key+corruptSuffix).Warn("record unreadable, starting empty")
}

// SaveTasks overwrites the task record.
func (s *Store) SaveTasks(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := codec.Marshal(TaskRecord{
		Tasks:       tasks,
		Version:     CurrentVersion,
		LastUpdated: s.now(),
	})
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	return s.backend.Put(TasksKey, data)
}

// SaveSettings overwrites the settings record.
func (s *Store) SaveSettings(settings model.Settings) error {
	data, err := codec.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return s.backend.Put(SettingsKey, data)
}

// Migrate upgrades a decoded task record to CurrentVersion, filling missing
// ids and timestamps. changed reports whether the record needs to be written
// back. Migrating a migrated record is a no-op.
func Migrate(raw map[string]any, now time.Time) (TaskRecord, bool) {
	entries, _ := raw["tasks"].([]any)
	tasks, repaired := sanitizeTasks(entries, now)
	rec := TaskRecord{
		Tasks:       reorder.Normalize(tasks),
		Version:     CurrentVersion,
		LastUpdated: now,
	}
	if ts, ok := parseTime(raw["lastUpdated"]); ok {
		rec.LastUpdated = ts
	}
	return rec, repaired || versionOf(raw) != CurrentVersion
}

func versionOf(raw map[string]any) int {
	v, _ := toInt(raw["version"])
	return v
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
