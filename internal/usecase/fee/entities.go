package fee

import (
	"time"

	domain "syndicated-loan-service/internal/domain/fee"
	"syndicated-loan-service/internal/domain/money"
)

type Input struct {
	FacilityID          uint64       `json:"facility_id"`
	BorrowerID          uint64       `json:"borrower_id"`
	FeeType             domain.Type  `json:"fee_type"`
	RecipientInvestorID *uint64      `json:"recipient_investor_id,omitempty"`
	Amount              money.Amount `json:"amount"`
	Currency            string       `json:"currency"`
	FeeDate             time.Time    `json:"fee_date"`
	Description         string       `json:"description"`
}
