package facility

import (
	"time"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/money"
)

type SharePieInput struct {
	InvestorID uint64          `json:"investor_id"`
	Share      decimal.Decimal `json:"share"`
}

// Input is shared by create and update; SyndicateID is ignored on update.
type Input struct {
	SyndicateID  uint64          `json:"syndicate_id"`
	Name         string          `json:"name"`
	Commitment   money.Amount    `json:"commitment"`
	Currency     string          `json:"currency"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	SharePies    []SharePieInput `json:"share_pies"`
}
