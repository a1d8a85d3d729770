package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/money"
)

// LoanDTO is a loan together with its repayment progress.
type LoanDTO struct {
	ID                 uint64          `json:"id"`
	FacilityID         uint64          `json:"facility_id"`
	BorrowerID         uint64          `json:"borrower_id"`
	Principal          money.Amount    `json:"principal"`
	OutstandingBalance money.Amount    `json:"outstanding_balance"`
	RepaidPrincipal    money.Amount    `json:"repaid_principal"`
	Outstanding        string          `json:"outstanding_display"`
	Currency           string          `json:"currency"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	StartDate          time.Time       `json:"start_date"`
	Status             string          `json:"status"`
	CompletedPayments  int64           `json:"completed_payments"`
	Version            int64           `json:"version"`
}
