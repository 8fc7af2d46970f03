package markdown

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogersnm/todo/internal/model"
)

func TestMarshalTask_RoundTrip(t *testing.T) {
	due := model.Date{Year: 2026, Month: time.May, Day: 1}
	task := model.Task{ID: "abc", Text: "Buy milk", Category: "shopping", DueDate: &due, Completed: true}

	data, err := MarshalTask(task)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))

	meta, text, err := ParseTask(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", text)
	assert.Equal(t, "shopping", meta.Category)
	assert.True(t, meta.Completed)

	got, err := meta.DueDate()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, due, *got)
}

func TestMarshalTask_NoDue(t *testing.T) {
	data, err := MarshalTask(model.Task{Text: "x", Category: "work"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "due:")

	meta, _, err := ParseTask(bytes.NewReader(data))
	require.NoError(t, err)
	got, err := meta.DueDate()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseTask_JoinsLines(t *testing.T) {
	input := "---\ncategory: work\n---\n\nCall the\n  plumber\n"
	_, text, err := ParseTask(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Call the plumber", text)
}

func TestParseTask_BadDue(t *testing.T) {
	input := "---\ncategory: work\ndue: next week\n---\n\nx\n"
	meta, _, err := ParseTask(strings.NewReader(input))
	require.NoError(t, err)
	_, err = meta.DueDate()
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParse_NoFrontmatter(t *testing.T) {
	meta, body, err := Parse[TaskMeta](strings.NewReader("Just some plain text."))
	require.NoError(t, err)
	assert.Equal(t, "", meta.Category)
	assert.Equal(t, "Just some plain text.", body)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, _, err := Parse[TaskMeta](strings.NewReader("---\n{{invalid yaml\n---\n"))
	assert.Error(t, err)
}

func TestMarshal_EmptyBody(t *testing.T) {
	data, err := Marshal(TaskMeta{Category: "work"}, "")
	require.NoError(t, err)

	parsed, body, err := Parse[TaskMeta](bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "work", parsed.Category)
	assert.Equal(t, "", body)
}
