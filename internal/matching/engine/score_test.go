package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func prices(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		prices  []decimal.Decimal
		ceiling *decimal.Decimal
		want    int
	}{
		{"empty", nil, nil, 0},
		{"single item without ceiling", prices(1), nil, 100},
		{"three items without ceiling", prices(1, 2, 3), nil, 110},
		{"mean under half the ceiling", prices(85000, 8000), ceiling(100000), 115},
		{"mean exactly half the ceiling", prices(40000, 60000), ceiling(100000), 115},
		{"mean above half the ceiling", prices(60000, 60000), ceiling(100000), 105},
		{"zero ceiling with free item", prices(0), ceiling(0), 110},
		{"capped", prices(1, 1, 1, 1, 1, 1), ceiling(10), 120},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.prices, tc.ceiling))
		})
	}
}

func TestScore_EachExtraItemAddsFiveUntilCap(t *testing.T) {
	for _, ceil := range []*decimal.Decimal{nil, ceiling(1000)} {
		list := prices(10)
		previous := Score(list, ceil)
		for i := 0; i < 8; i++ {
			list = append(list, decimal.NewFromInt(10))
			next := Score(list, ceil)
			assert.Equal(t, min(previous+BreadthBonus, MaxScore), next)
			previous = next
		}
	}
}

func TestSum_IsExact(t *testing.T) {
	got := Sum([]decimal.Decimal{
		decimal.RequireFromString("0.1"),
		decimal.RequireFromString("0.2"),
	})
	assert.Equal(t, "0.3", got.String())
}
