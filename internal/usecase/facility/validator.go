package facility

import (
	"strings"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/money"
)

// Validate checks everything about a facility that needs no storage.
func Validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Rule("facility name is required")
	}
	if !in.Commitment.IsPositive() {
		return apperr.Rule("commitment must be positive, got %s", in.Commitment)
	}
	if !in.Commitment.HasCentPrecision() {
		return apperr.Rule("commitment %s has more than %d decimals", in.Commitment.Decimal(), money.Places)
	}
	if !money.ValidCurrency(in.Currency) {
		return apperr.Rule("unknown currency %q", in.Currency)
	}
	if in.InterestRate.IsNegative() {
		return apperr.Rule("interest rate cannot be negative")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return apperr.Rule("start and end dates are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return apperr.Rule("end date %s must be after start date %s",
			in.EndDate.Format("2006-01-02"), in.StartDate.Format("2006-01-02"))
	}
	return validateSharePies(in.SharePies)
}

func validateSharePies(pies []SharePieInput) error {
	if len(pies) == 0 {
		return apperr.Rule("at least one share pie is required")
	}
	seen := make(map[uint64]bool, len(pies))
	shares := make([]decimal.Decimal, 0, len(pies))
	for _, p := range pies {
		if p.InvestorID == 0 {
			return apperr.Rule("share pie without investor")
		}
		if seen[p.InvestorID] {
			return apperr.Rule("investor %d appears in more than one share pie", p.InvestorID)
		}
		seen[p.InvestorID] = true
		if !money.ValidShare(p.Share) || !p.Share.Equal(p.Share.Round(money.SharePlaces)) {
			return apperr.Rule("share %s of investor %d must be in (0, 1] with at most %d decimals", p.Share, p.InvestorID, money.SharePlaces)
		}
		shares = append(shares, p.Share)
	}
	if !money.SharesSumToOne(shares) {
		return apperr.Rule("share pies must sum to exactly 1")
	}
	return nil
}
