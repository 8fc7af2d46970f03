package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// AllCategories is the FilterSpec category sentinel that disables category filtering.
const AllCategories = "all"

var validStatuses = []Status{StatusAll, StatusActive, StatusCompleted, StatusOverdue}

func ValidateStatus(s Status) error {
	for _, v := range validStatuses {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid status %q: must be one of all, active, completed, overdue", ErrValidation, s)
}

// FilterSpec is the transient view criteria. It is never persisted.
type FilterSpec struct {
	Category string
	Status   Status
	Search   string
}

func DefaultFilter() FilterSpec {
	return FilterSpec{Category: AllCategories, Status: StatusAll}
}

// Normalize fills empty fields with their "all" defaults and lower-cases the
// search term. Whitespace in the term is significant.
func (f FilterSpec) Normalize() FilterSpec {
	if f.Category == "" {
		f.Category = AllCategories
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	f.Search = strings.ToLower(f.Search)
	return f
}

func (f FilterSpec) Validate() error {
	return ValidateStatus(f.Normalize().Status)
}
