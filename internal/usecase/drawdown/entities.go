package drawdown

import (
	"time"

	"syndicated-loan-service/internal/domain/money"
)

type AmountPieInput struct {
	InvestorID uint64       `json:"investor_id"`
	Amount     money.Amount `json:"amount"`
}

// CreateInput leaves AmountPies empty to split by the facility's SharePies.
type CreateInput struct {
	FacilityID   uint64           `json:"facility_id"`
	Amount       money.Amount     `json:"amount"`
	Currency     string           `json:"currency"`
	Purpose      string           `json:"purpose"`
	DrawdownDate time.Time        `json:"drawdown_date"`
	AmountPies   []AmountPieInput `json:"amount_pies"`
}
