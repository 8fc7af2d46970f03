package store

import (
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogersnm/todo/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	s := New(backend)
	s.SetClock(func() time.Time { return fixedNow })
	return s
}

func sampleTasks() []model.Task {
	due := model.Date{Year: 2026, Month: time.March, Day: 20}
	created := fixedNow.Add(-time.Hour)
	return []model.Task{
		{ID: "a", Text: "first", Category: "work", DueDate: &due, CreatedAt: created, UpdatedAt: created, Order: 0},
		{ID: "b", Text: "second", Completed: true, Category: "personal", CreatedAt: created, UpdatedAt: fixedNow, Order: 1},
	}
}

func TestLoad_Empty(t *testing.T) {
	s := newTestStore(t, NewMemory(0))
	tasks, settings, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t, NewMemory(0))
	want := sampleTasks()
	require.NoError(t, s.SaveTasks(want))

	settings := model.DefaultSettings()
	settings.Theme = model.ThemeDark
	settings.CustomCategories = []model.Category{{Name: "gym", Color: "#123456"}}
	require.NoError(t, s.SaveSettings(settings))

	tasks, gotSettings, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, tasks)
	assert.Equal(t, settings, gotSettings)
}

func TestSaveTasks_RecordShape(t *testing.T) {
	mem := NewMemory(0)
	s := newTestStore(t, mem)
	require.NoError(t, s.SaveTasks(nil))

	data, err := mem.Get(TasksKey)
	require.NoError(t, err)
	var rec TaskRecord
	require.NoError(t, codec.Unmarshal(data, &rec))
	assert.Equal(t, CurrentVersion, rec.Version)
	assert.Equal(t, fixedNow, rec.LastUpdated)
	assert.NotNil(t, rec.Tasks)
	assert.Contains(t, string(data), `"tasks":[]`)
}

func TestLoad_CorruptTasksDegrades(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	mem := NewMemory(0)
	require.NoError(t, mem.Put(TasksKey, []byte("{not json")))
	require.NoError(t, mem.Put(SettingsKey, []byte("also broken")))

	s := newTestStore(t, mem)
	tasks, settings, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, model.DefaultSettings(), settings)

	backup, err := mem.Get(TasksKey + corruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

type failingBackend struct{ err error }

func (f failingBackend) Get(string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Put(string, []byte) error { return f.err }
func (f failingBackend) Delete(string) error { return f.err }

func TestLoad_BackendErrorReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	s := newTestStore(t, failingBackend{err: boom})
	_, _, err := s.Load()
	assert.ErrorIs(t, err, boom)
}

func TestLoad_MigratesLegacyRecord(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	mem := NewMemory(0)
	legacy := `{"tasks":[{"text":"old task","completed":true},{"id":"keep","text":"with id","category":"work","order":1}]}`
	require.NoError(t, mem.Put(TasksKey, []byte(legacy)))

	s := newTestStore(t, mem)
	tasks, _, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.NotEmpty(t, tasks[0].ID)
	assert.Equal(t, model.FallbackCategory, tasks[0].Category)
	assert.Equal(t, fixedNow, tasks[0].CreatedAt)
	assert.Equal(t, "keep", tasks[1].ID)

	data, err := mem.Get(TasksKey)
	require.NoError(t, err)
	var rec TaskRecord
	require.NoError(t, codec.Unmarshal(data, &rec))
	assert.Equal(t, CurrentVersion, rec.Version)
	assert.Equal(t, tasks, rec.Tasks)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "migrated task record", hook.LastEntry().Message)

	again, _, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, tasks, again)
}

func TestMigrate_Idempotent(t *testing.T) {
	raw := map[string]any{
		"tasks": []any{map[string]any{"text": "x"}},
	}
	first, changed := Migrate(raw, fixedNow)
	assert.True(t, changed)

	data, err := codec.Marshal(first)
	require.NoError(t, err)
	var again map[string]any
	require.NoError(t, codec.Unmarshal(data, &again))

	second, changed := Migrate(again, fixedNow.Add(time.Hour))
	assert.False(t, changed)
	assert.Equal(t, first.Tasks, second.Tasks)
}

func TestSave_QuotaExceededKeepsPrevious(t *testing.T) {
	mem := NewMemory(400)
	s := newTestStore(t, mem)
	require.NoError(t, s.SaveTasks(sampleTasks()[:1]))
	before, _ := mem.Get(TasksKey)

	big := make([]model.Task, 0, 20)
	for i := 0; i < 20; i++ {
		big = append(big, model.Task{ID: "id", Text: "a rather long task text", Category: "work", CreatedAt: fixedNow, UpdatedAt: fixedNow, Order: i})
	}
	err := s.SaveTasks(big)
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)

	after, _ := mem.Get(TasksKey)
	assert.Equal(t, before, after)
}
