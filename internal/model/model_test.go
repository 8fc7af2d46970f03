package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() *Task {
	ts := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return &Task{ID: "abc", Text: "Buy milk", Category: "shopping", CreatedAt: ts, UpdatedAt: ts}
}

func TestTask_Validate_Valid(t *testing.T) {
	assert.NoError(t, validTask().Validate())
}

func TestTask_Validate_BlankText(t *testing.T) {
	task := validTask()
	task.Text = "   "
	err := task.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTask_Validate_MissingID(t *testing.T) {
	task := validTask()
	task.ID = ""
	assert.Error(t, task.Validate())
}

func TestTask_Validate_UpdatedBeforeCreated(t *testing.T) {
	task := validTask()
	task.UpdatedAt = task.CreatedAt.Add(-time.Hour)
	assert.Error(t, task.Validate())
}

func TestTask_Touch_NeverMovesBackwards(t *testing.T) {
	task := validTask()
	later := task.UpdatedAt.Add(time.Minute)
	task.Touch(later)
	assert.Equal(t, later, task.UpdatedAt)

	task.Touch(later.Add(-time.Hour))
	assert.Equal(t, later, task.UpdatedAt)
}

func TestTask_IsOverdue(t *testing.T) {
	today := Date{Year: 2026, Month: time.March, Day: 10}
	yesterday := today.AddDays(-1)

	task := validTask()
	task.DueDate = &yesterday
	assert.True(t, task.IsOverdue(today))

	task.Completed = true
	assert.False(t, task.IsOverdue(today))

	task.Completed = false
	task.DueDate = &today
	assert.False(t, task.IsOverdue(today))
	assert.True(t, task.IsDueToday(today))

	task.Completed = true
	assert.False(t, task.IsOverdue(today))
	assert.False(t, task.IsDueToday(today))

	task.DueDate = nil
	assert.False(t, task.IsOverdue(today))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.February, Day: 28}, d)

	d, err = ParseDate("2026-02-28T23:10:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", d.String())

	_, err = ParseDate("28/02/2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDate_Relative(t *testing.T) {
	today := Date{Year: 2026, Month: time.March, Day: 10}
	tests := []struct {
		d    Date
		want string
	}{
		{today, "Today"},
		{today.AddDays(1), "Tomorrow"},
		{today.AddDays(-1), "Yesterday"},
		{today.AddDays(-4), "4 days overdue"},
		{today.AddDays(7), "Mar 17"},
		{Date{Year: 2027, Month: time.January, Day: 2}, "Jan 2, 2027"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Relative(today))
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	d := Date{Year: 2026, Month: time.December, Day: 1}
	b, err := d.MarshalText()
	require.NoError(t, err)

	var got Date
	require.NoError(t, got.UnmarshalText(b))
	assert.Equal(t, d, got)
}

func TestCategory_DisplayName(t *testing.T) {
	assert.Equal(t, "Work", Category{Name: "work", IsDefault: true}.DisplayName())
	assert.Equal(t, "Gym", DisplayName("gym"))
	assert.Equal(t, "", DisplayName(""))
}

func TestCategory_DisplayColor(t *testing.T) {
	assert.Equal(t, "#2196F3", Category{Name: "work", IsDefault: true}.DisplayColor())
	assert.Equal(t, "#123456", Category{Name: "gym", Color: "#123456"}.DisplayColor())
	assert.Equal(t, "#757575", Category{Name: "gym"}.DisplayColor())
}

func TestValidateColor(t *testing.T) {
	assert.NoError(t, ValidateColor("#a1B2c3"))
	for _, c := range []string{"", "red", "#12345", "#1234567", "123456"} {
		assert.Error(t, ValidateColor(c), "expected error for %q", c)
	}
}

func TestSettings_Normalize_RestoresFallback(t *testing.T) {
	s := Settings{Theme: "neon", Categories: []string{"work", "work"}}
	got := s.Normalize()
	assert.Equal(t, ThemeLight, got.Theme)
	assert.Equal(t, []string{"work", FallbackCategory}, got.Categories)
	assert.NotNil(t, got.CustomCategories)
}

func TestSettings_Normalize_DropsShadowingCustom(t *testing.T) {
	s := DefaultSettings()
	s.CustomCategories = []Category{{Name: "work", Color: "#000000"}, {Name: "gym", Color: "#111111"}, {Name: "gym"}}
	got := s.Normalize()
	require.Len(t, got.CustomCategories, 1)
	assert.Equal(t, "gym", got.CustomCategories[0].Name)
}

func TestFilterSpec_Normalize(t *testing.T) {
	f := FilterSpec{Search: "MiLk "}.Normalize()
	assert.Equal(t, AllCategories, f.Category)
	assert.Equal(t, StatusAll, f.Status)
	assert.Equal(t, "milk ", f.Search)
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []Status{StatusAll, StatusActive, StatusCompleted, StatusOverdue} {
		assert.NoError(t, ValidateStatus(s))
	}
	assert.ErrorIs(t, ValidateStatus("closed"), ErrValidation)
}
