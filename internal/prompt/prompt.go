// Package prompt builds the huh forms used for interactive input.
//
// Field validators run the same parsers the ledger uses, so a form only
// completes with values the ledger will accept.
package prompt

import (
	"errors"
	"strings"

	"github.com/theirongolddev/spent/internal/model"

	"github.com/charmbracelet/huh"
)

// ExpenseValues holds the raw text of an expense being entered.
type ExpenseValues struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// Complete reports whether every field has a value.
func (v ExpenseValues) Complete() bool {
	return strings.TrimSpace(v.Date) != "" &&
		strings.TrimSpace(v.Category) != "" &&
		strings.TrimSpace(v.Amount) != "" &&
		strings.TrimSpace(v.Description) != ""
}

// ExpenseForm asks for all four fields of an expense. Pre-filled values are
// shown as editable defaults.
func ExpenseForm(v *ExpenseValues) *huh.Form {
	return huh.NewForm(huh.NewGroup(expenseFields(v, false)...)).
		WithTheme(huh.ThemeCharm())
}

// MissingExpenseForm asks only for the fields of v that are still empty.
// It returns nil when nothing is missing.
func MissingExpenseForm(v *ExpenseValues) *huh.Form {
	fields := expenseFields(v, true)
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm())
}

func expenseFields(v *ExpenseValues, onlyMissing bool) []huh.Field {
	var fields []huh.Field
	want := func(s string) bool {
		return !onlyMissing || strings.TrimSpace(s) == ""
	}

	if want(v.Date) {
		fields = append(fields, huh.NewInput().
			Title("Date of the expense").
			Placeholder(model.DateLayout).
			Value(&v.Date).
			Validate(ValidateDate))
	}
	if want(v.Category) {
		fields = append(fields, huh.NewInput().
			Title("Category").
			Placeholder("Food, Travel, ...").
			Value(&v.Category).
			Validate(ValidateCategory))
	}
	if want(v.Amount) {
		fields = append(fields, huh.NewInput().
			Title("Amount spent").
			Placeholder("0.00").
			Value(&v.Amount).
			Validate(ValidateAmount))
	}
	if want(v.Description) {
		fields = append(fields, huh.NewInput().
			Title("Brief description").
			Value(&v.Description).
			Validate(ValidateDescription))
	}
	return fields
}

// BudgetForm asks for a monthly budget amount.
func BudgetForm(amount *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Monthly budget").
			Placeholder("0.00").
			Value(amount).
			Validate(ValidateBudget),
	)).WithTheme(huh.ThemeCharm())
}

// ConfirmForm asks a yes/no question.
func ConfirmForm(title string, yes *bool) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(yes),
	)).WithTheme(huh.ThemeCharm())
}

// Aborted reports whether err means the user cancelled a form.
func Aborted(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}

// ValidateDate accepts a real YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	_, err := model.ParseDate(s)
	return err
}

// ValidateCategory rejects blank categories.
func ValidateCategory(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrEmptyCategory
	}
	return nil
}

// ValidateDescription rejects blank descriptions.
func ValidateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrEmptyDescription
	}
	return nil
}

// ValidateAmount accepts a positive amount.
func ValidateAmount(s string) error {
	_, err := model.ParseAmount(s)
	return err
}

// ValidateBudget accepts a positive budget.
func ValidateBudget(s string) error {
	_, err := model.ParseBudget(s)
	return err
}
