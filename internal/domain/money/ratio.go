package money

import "github.com/shopspring/decimal"

// SharePlaces is the persisted scale of ownership shares.
const SharePlaces = 8

var one = decimal.NewFromInt(1)

// ValidShare reports whether s lies in (0, 1].
func ValidShare(s decimal.Decimal) bool {
	return s.IsPositive() && s.LessThanOrEqual(one)
}

// SharesSumToOne reports whether the shares add up to exactly 1.
func SharesSumToOne(shares []decimal.Decimal) bool {
	return decimal.Sum(decimal.Zero, shares...).Equal(one)
}
