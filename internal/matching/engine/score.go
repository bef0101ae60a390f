package engine

import "github.com/shopspring/decimal"

// Score components.
const (
	BaseScore    = 100
	BreadthBonus = 5
	BudgetBonus  = 10
	MaxScore     = 120
)

var half = decimal.NewFromFloat(0.5)

// Score rates how well a provider's compatible items fit a call.
// Each item after the first adds BreadthBonus. When the call has a price
// ceiling and the mean item price is at most half of it, BudgetBonus is added.
// The result never exceeds MaxScore. An empty item list scores 0.
func Score(prices []decimal.Decimal, ceiling *decimal.Decimal) int {
	n := len(prices)
	if n == 0 {
		return 0
	}

	score := BaseScore + BreadthBonus*(n-1)

	if ceiling != nil {
		mean := Sum(prices).Div(decimal.NewFromInt(int64(n)))
		if mean.LessThanOrEqual(ceiling.Mul(half)) {
			score += BudgetBonus
		}
	}

	return min(score, MaxScore)
}

// Sum adds prices exactly.
func Sum(prices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total
}
