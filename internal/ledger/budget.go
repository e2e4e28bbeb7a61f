package ledger

import (
	"math"

	"github.com/shopspring/decimal"

	"cashew/internal/models"
)

// WarningLevel is the tier of budget consumption shown to the user.
type WarningLevel string

const (
	WarningNone WarningLevel = "none"
	WarningMid  WarningLevel = "mid"
	WarningHigh WarningLevel = "high"
	WarningOver WarningLevel = "over"
)

// BudgetProgress is the evaluated state of one budget.
//
// RawPercent is the unclamped consumption and may be +Inf when the limit
// is zero; it is excluded from JSON (clients get the clamped Percent and
// the warning level instead).
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	RawPercent float64         `json:"-"`
	Percent    float64         `json:"percent"`
	Level      WarningLevel    `json:"warning_level"`
}

// EvaluateBudgets computes spend and warning tier for every budget,
// preserving input order. For each budget the spend is the all-time sum
// of transactions matching its type and category.
//
// Two observed behaviors of the original design are preserved on purpose
// rather than "fixed" (see DESIGN.md): the budget's month field is
// ignored at evaluation time, and no currency filtering is applied — a
// caller mixing currencies gets totals in mixed units.
//
// Duplicate budgets for the same category are evaluated independently.
func EvaluateBudgets(budgets []models.Budget, transactions []models.Transaction) []BudgetProgress {
	results := make([]BudgetProgress, 0, len(budgets))

	for _, b := range budgets {
		spent := decimal.Zero
		for _, t := range transactions {
			if t.Type == b.Type && t.Category == b.Category {
				spent = spent.Add(t.Amount)
			}
		}

		raw := rawPercent(spent, b.Limit)

		results = append(results, BudgetProgress{
			BudgetID:   b.ID,
			Category:   b.Category,
			Limit:      b.Limit,
			Spent:      spent,
			Remaining:  b.Limit.Sub(spent),
			RawPercent: raw,
			Percent:    math.Min(raw, 100),
			Level:      warningLevel(raw),
		})
	}

	return results
}

// rawPercent returns spent/limit*100 without clamping. A zero limit with
// nonzero spend is defined as +Inf, not a division error.
func rawPercent(spent, limit decimal.Decimal) float64 {
	if limit.IsZero() {
		if spent.IsPositive() {
			return math.Inf(1)
		}
		return 0
	}
	f, _ := spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// warningLevel maps raw consumption to a tier. Boundaries are inclusive
// on the lower bound and checked in descending order, so exactly 100 is
// over, not high.
func warningLevel(raw float64) WarningLevel {
	switch {
	case raw >= 100:
		return WarningOver
	case raw >= 75:
		return WarningHigh
	case raw >= 50:
		return WarningMid
	default:
		return WarningNone
	}
}
