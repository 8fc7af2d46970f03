package category

import (
	"testing"
	"time"

	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsSaver struct {
	saves int
	last  model.Settings
	err   error
}

func (s *settingsSaver) SaveSettings(settings model.Settings) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.last = settings
	return nil
}

func newRegistry(t *testing.T) (*Registry, *tasks.Store, *settingsSaver) {
	t.Helper()
	ts := tasks.New(nil, nil)
	ts.SetClock(func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) })
	sv := &settingsSaver{}
	return New(sv, ts, model.DefaultSettings()), ts, sv
}

func TestDefaults(t *testing.T) {
	r, _, _ := newRegistry(t)
	for _, name := range model.DefaultCategories {
		assert.True(t, r.IsValid(name), name)
	}
	assert.False(t, r.IsValid("Work"))
	assert.False(t, r.IsValid("gym"))
	assert.Empty(t, r.Custom())
	assert.Len(t, r.All(), 4)
}

func TestAdd(t *testing.T) {
	r, _, sv := newRegistry(t)

	c, err := r.Add("  Gym ", "")
	require.NoError(t, err)
	assert.Equal(t, "gym", c.Name)
	assert.Equal(t, model.DefaultCustomColor, c.Color)
	assert.True(t, r.IsValid("gym"))
	assert.Equal(t, 1, sv.saves)
	require.Len(t, sv.last.CustomCategories, 1)

	c, err = r.Add("Garden", "#123abc")
	require.NoError(t, err)
	assert.Equal(t, "#123abc", r.Color("garden"))
	assert.Equal(t, "Garden", r.DisplayName(c.Name))

	all := r.All()
	assert.Equal(t, "gym", all[4].Name)
	assert.Equal(t, "garden", all[5].Name)
}

func TestAdd_Rejects(t *testing.T) {
	r, _, sv := newRegistry(t)
	_, err := r.Add("  ", "")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = r.Add("ALL", "")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = r.Add("gym", "green")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = r.Add("Work", "")
	assert.ErrorIs(t, err, model.ErrDuplicate)

	_, err = r.Add("gym", "")
	require.NoError(t, err)
	_, err = r.Add("GYM", "")
	assert.ErrorIs(t, err, model.ErrDuplicate)
	assert.Equal(t, 1, sv.saves)
}

func TestRemove_ReassignsTasks(t *testing.T) {
	r, ts, _ := newRegistry(t)
	_, err := r.Add("gym", "")
	require.NoError(t, err)
	ts.Add("squats", "gym", nil)
	ts.Add("report", "work", nil)
	ts.Add("run", "gym", nil)

	assert.Equal(t, 2, r.InUse("gym"))
	n, err := r.Remove("gym")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, r.IsValid("gym"))
	assert.Equal(t, 0, ts.CountCategory("gym"))
	assert.Equal(t, 2, ts.CountCategory(model.FallbackCategory))
	assert.Equal(t, 1, ts.CountCategory("work"))
}

func TestRemove_Protected(t *testing.T) {
	r, _, sv := newRegistry(t)
	_, err := r.Remove("work")
	assert.ErrorIs(t, err, model.ErrProtectedCategory)
	assert.True(t, r.IsValid("work"))
	assert.Equal(t, 0, sv.saves)
}

func TestRemove_Unknown(t *testing.T) {
	r, _, _ := newRegistry(t)
	_, err := r.Remove("gym")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestColor(t *testing.T) {
	r, _, _ := newRegistry(t)
	assert.Equal(t, "#2196F3", r.Color("work"))
	assert.Equal(t, "#757575", r.Color("nope"))
}

func TestTheme(t *testing.T) {
	r, _, sv := newRegistry(t)
	assert.Equal(t, model.ThemeLight, r.Theme())

	next, err := r.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, next)
	assert.Equal(t, model.ThemeDark, sv.last.Theme)

	assert.ErrorIs(t, r.SetTheme("sepia"), model.ErrValidation)
	require.NoError(t, r.SetTheme(model.ThemeLight))
	assert.Equal(t, model.ThemeLight, r.Theme())
}

func TestNotifications(t *testing.T) {
	r, _, sv := newRegistry(t)
	assert.True(t, r.Notifications())
	require.NoError(t, r.SetNotifications(false))
	assert.False(t, r.Notifications())
	assert.False(t, sv.last.Notifications)
}

func TestReplace(t *testing.T) {
	r, _, _ := newRegistry(t)
	s := model.Settings{
		Theme:            model.ThemeDark,
		Categories:       []string{"work"},
		CustomCategories: []model.Category{{Name: "gym", Color: "#000000"}},
	}
	require.NoError(t, r.Replace(s))
	assert.True(t, r.IsValid(model.FallbackCategory))
	assert.True(t, r.IsValid("gym"))
	assert.False(t, r.IsValid("school"))
	assert.Equal(t, model.ThemeDark, r.Theme())
}

func TestSettingsIsCopy(t *testing.T) {
	r, _, _ := newRegistry(t)
	s := r.Settings()
	s.Categories[0] = "mutated"
	assert.True(t, r.IsValid("work"))
}
