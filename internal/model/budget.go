package model

import "github.com/shopspring/decimal"

// BudgetStatus compares total spending against the monthly budget.
//
// When Unset is true no budget has been configured and only Spent is
// meaningful; callers should offer to set one instead of reporting an overage.
type BudgetStatus struct {
	Unset      bool
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal // negative when over budget
	OverBudget bool
}

// OverBy returns how far spending exceeds the budget, or zero.
func (s BudgetStatus) OverBy() decimal.Decimal {
	if !s.OverBudget {
		return decimal.Zero
	}
	return s.Remaining.Abs()
}

// maxUsedFraction caps UsedFraction so extreme overspend stays finite.
var maxUsedFraction = decimal.NewFromInt(100)

// UsedFraction returns Spent/Budget as a float for progress bars, capped
// at 100 (10000%).
func (s BudgetStatus) UsedFraction() float64 {
	if s.Unset || !s.Budget.IsPositive() {
		return 0
	}
	f, _ := decimal.Min(s.Spent.Div(s.Budget), maxUsedFraction).Float64()
	return f
}
