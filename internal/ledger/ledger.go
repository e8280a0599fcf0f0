// Package ledger holds the in-memory expense records and monthly budget.
package ledger

import (
	"github.com/theirongolddev/spent/internal/model"

	"github.com/shopspring/decimal"
)

// Ledger is an insertion-ordered list of expenses plus a monthly budget.
// A zero budget means no budget has been set. The zero value is ready to use.
type Ledger struct {
	records []model.Expense
	budget  decimal.Decimal
}

// New returns an empty ledger with no budget.
func New() *Ledger {
	return &Ledger{}
}

// Add validates the fields and appends a new expense.
// The ledger is left unchanged when validation fails.
func (l *Ledger) Add(date, category string, amount decimal.Decimal, description string) (model.Expense, error) {
	e, err := model.NewExpense(date, category, amount, description)
	if err != nil {
		return model.Expense{}, err
	}
	l.records = append(l.records, e)
	return e, nil
}

// AddRaw is Add with the amount still in text form.
func (l *Ledger) AddRaw(date, category, amount, description string) (model.Expense, error) {
	if _, err := model.ParseDate(date); err != nil {
		return model.Expense{}, err
	}
	amt, err := model.ParseAmount(amount)
	if err != nil {
		return model.Expense{}, err
	}
	return l.Add(date, category, amt, description)
}

// SetBudget replaces the monthly budget. Non-positive values are rejected.
func (l *Ledger) SetBudget(v decimal.Decimal) error {
	if !v.IsPositive() {
		return &model.ValidationError{Field: "budget", Value: v.String(), Err: model.ErrInvalidBudget}
	}
	l.budget = v
	return nil
}

// Budget returns the monthly budget, zero when unset.
func (l *Ledger) Budget() decimal.Decimal {
	return l.budget
}

// HasBudget reports whether a monthly budget has been set.
func (l *Ledger) HasBudget() bool {
	return l.budget.IsPositive()
}

// Records returns a copy of the expenses in insertion order.
func (l *Ledger) Records() []model.Expense {
	out := make([]model.Expense, len(l.records))
	copy(out, l.records)
	return out
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{records: l.Records(), budget: l.budget}
}

// Len returns the number of recorded expenses.
func (l *Ledger) Len() int {
	return len(l.records)
}

// TotalSpent sums every expense amount.
func (l *Ledger) TotalSpent() decimal.Decimal {
	return Sum(l.records)
}

// BudgetStatus compares the total spent against the budget.
func (l *Ledger) BudgetStatus() model.BudgetStatus {
	spent := l.TotalSpent()
	if !l.HasBudget() {
		return model.BudgetStatus{Unset: true, Spent: spent}
	}
	remaining := l.budget.Sub(spent)
	return model.BudgetStatus{
		Budget:     l.budget,
		Spent:      spent,
		Remaining:  remaining,
		OverBudget: spent.GreaterThan(l.budget),
	}
}

// Sum adds up the amounts of the given expenses.
func Sum(records []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}
