package ledger

import (
	"strings"
	"time"

	"github.com/theirongolddev/spent/internal/model"
)

// Filter narrows a record listing. Zero fields match everything.
type Filter struct {
	Category string    // case-insensitive substring
	Since    time.Time // inclusive
	Until    time.Time // inclusive
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Since.IsZero() && f.Until.IsZero()
}

// Apply returns the records matching f, preserving order.
func (f Filter) Apply(records []model.Expense) []model.Expense {
	if f.IsZero() {
		return records
	}
	var result []model.Expense
	for _, e := range records {
		if f.Category != "" && !containsIgnoreCase(e.Category, f.Category) {
			continue
		}
		d := e.Time()
		if !f.Since.IsZero() && d.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && d.After(f.Until) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
