// Package allocation splits a monetary total across participants in
// proportion to their weights.
//
// The first N-1 participants receive their share rounded half-up to cents;
// the last participant in input order receives whatever remains, so the
// portions always add up to the total exactly. Callers must therefore pass
// participants in a stable order.
package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/money"
)

var (
	ErrNoParticipants = errors.New("allocation: no participants configured")
	ErrInvalidWeight  = errors.New("allocation: invalid weight")
)

// Weight is one participant's claim: a share in [0,1] or an absolute amount.
type Weight struct {
	InvestorID uint64
	Value      decimal.Decimal
}

type Portion struct {
	InvestorID uint64
	Amount     money.Amount
}

// Proportional allocates total across weights. The weights only need to be
// proportional to each other; they are normalised by their own sum.
func Proportional(total money.Amount, weights []Weight) ([]Portion, error) {
	if len(weights) == 0 {
		return nil, ErrNoParticipants
	}
	sum := decimal.Zero
	for _, w := range weights {
		if w.Value.IsNegative() {
			return nil, fmt.Errorf("%w: investor %d has negative weight %s", ErrInvalidWeight, w.InvestorID, w.Value)
		}
		sum = sum.Add(w.Value)
	}
	if sum.IsZero() {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeight)
	}

	out := make([]Portion, len(weights))
	allocated := money.Zero
	last := len(weights) - 1
	for i, w := range weights[:last] {
		part := money.New(total.Decimal().Mul(w.Value).DivRound(sum, money.Places))
		out[i] = Portion{InvestorID: w.InvestorID, Amount: part}
		allocated = allocated.Add(part)
	}
	out[last] = Portion{InvestorID: weights[last].InvestorID, Amount: total.Sub(allocated)}
	return out, nil
}

// WeightsOf maps pies (shares or amounts) to weights, keeping their order.
func WeightsOf[T any](items []T, key func(T) (uint64, decimal.Decimal)) []Weight {
	out := make([]Weight, 0, len(items))
	for _, it := range items {
		id, v := key(it)
		out = append(out, Weight{InvestorID: id, Value: v})
	}
	return out
}

// Total sums the portions.
func Total(portions []Portion) money.Amount {
	total := money.Zero
	for _, p := range portions {
		total = total.Add(p.Amount)
	}
	return total
}
