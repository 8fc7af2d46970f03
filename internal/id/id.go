package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is the number of leading characters shown for an id in listings.
const ShortLen = 8

// New returns a fresh random task id.
func New() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return u.String(), nil
}

// NewUnique returns a fresh id that is not in taken.
func NewUnique(taken func(string) bool) (string, error) {
	for {
		v, err := New()
		if err != nil {
			return "", err
		}
		if !taken(v) {
			return v, nil
		}
	}
}

func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// Match resolves a case-insensitive prefix to exactly one of ids. An exact
// match always wins over longer ids sharing the prefix.
func Match(prefix string, ids []string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return "", fmt.Errorf("empty id")
	}
	var found []string
	for _, v := range ids {
		lv := strings.ToLower(v)
		if lv == p {
			return v, nil
		}
		if strings.HasPrefix(lv, p) {
			found = append(found, v)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no task matches %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("ambiguous id %q matches %d tasks", prefix, len(found))
	}
}
