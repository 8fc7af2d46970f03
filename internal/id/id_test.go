package id

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNew_Format(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	assert.Regexp(t, validPattern, v)
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v, err := New()
		require.NoError(t, err)
		assert.False(t, seen[v], "collision: %s", v)
		seen[v] = true
	}
}

func TestNewUnique_SkipsTaken(t *testing.T) {
	calls := 0
	v, err := NewUnique(func(string) bool {
		calls++
		return calls < 3
	})
	require.NoError(t, err)
	assert.NotEmpty(t, v)
	assert.Equal(t, 3, calls)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123abcd", Short("0123abcd-ffff"))
	assert.Equal(t, "abc", Short("abc"))
}

func TestMatch(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}

	got, err := Match("abd", ids)
	require.NoError(t, err)
	assert.Equal(t, "abd456", got)

	got, err = Match("ABC", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	_, err = Match("ab", ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = Match("zz", ids)
	assert.Error(t, err)

	_, err = Match(" ", ids)
	assert.Error(t, err)
}
