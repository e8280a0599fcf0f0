// Package model defines domain types for spent expenses and budgets.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and input format for expense dates.
const DateLayout = "2006-01-02"

// Validation causes, matched with errors.Is.
var (
	ErrInvalidDate      = errors.New("date must be a valid calendar date (YYYY-MM-DD)")
	ErrEmptyCategory    = errors.New("category cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrInvalidBudget    = errors.New("budget must be a positive number")
)

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Expense is one validated (date, category, amount, description) entry.
type Expense struct {
	Date        string
	Category    string
	Amount      decimal.Decimal
	Description string
}

// NewExpense validates the raw fields and returns a normalized Expense.
// Category and description are trimmed; the date is kept in its ISO form.
func NewExpense(date, category string, amount decimal.Decimal, description string) (Expense, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Expense{}, &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if !amount.IsPositive() {
		return Expense{}, &ValidationError{Field: "amount", Value: amount.String(), Err: ErrInvalidAmount}
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Expense{}, &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	return Expense{
		Date:        d.Format(DateLayout),
		Category:    category,
		Amount:      amount,
		Description: description,
	}, nil
}

// ParseDate parses a YYYY-MM-DD string, rejecting impossible dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return t, nil
}

// Time returns the expense date as a UTC midnight time.
func (e Expense) Time() time.Time {
	t, _ := time.Parse(DateLayout, e.Date)
	return t
}
