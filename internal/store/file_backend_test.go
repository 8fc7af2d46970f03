package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogersnm/todo/internal/model"
)

func TestFileBackend_PutGet(t *testing.T) {
	fb, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = fb.Get("missing")
	assert.ErrorIs(t, err, ErrNoRecord)

	require.NoError(t, fb.Put("k", []byte("one")))
	require.NoError(t, fb.Put("k", []byte("two")))
	got, err := fb.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, fb.Delete("k"))
	require.NoError(t, fb.Delete("k"))
	_, err = fb.Get("k")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestFileBackend_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFile(dir, 0)
	require.NoError(t, err)
	require.NoError(t, fb.Put(TasksKey, []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
	_, err = os.Stat(filepath.Join(dir, TasksKey+".json"))
	assert.NoError(t, err)
}

func TestFileBackend_Quota(t *testing.T) {
	fb, err := NewFile(t.TempDir(), 10)
	require.NoError(t, err)
	require.NoError(t, fb.Put("a", []byte("12345")))
	// replacing a record only counts its new size
	require.NoError(t, fb.Put("a", []byte("1234567")))

	err = fb.Put("b", []byte("12345"))
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)

	got, err := fb.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1234567", string(got))
}

func TestFileBackend_StoreRoundTrip(t *testing.T) {
	fb, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)
	s := newTestStore(t, fb)
	require.NoError(t, s.SaveTasks(sampleTasks()))

	tasks, _, err := New(fb).Load()
	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), tasks)
}
