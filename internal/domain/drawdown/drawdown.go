package drawdown

import (
	"context"
	"time"

	"syndicated-loan-service/internal/domain/money"
)

// Drawdown is a single withdrawal against a facility; it always owns one loan.
type Drawdown struct {
	ID           uint64       `gorm:"primaryKey;column:id" json:"id"`
	FacilityID   uint64       `gorm:"not null;index" json:"facility_id"`
	BorrowerID   uint64       `gorm:"not null;index" json:"borrower_id"`
	LoanID       uint64       `gorm:"not null;uniqueIndex" json:"loan_id"`
	Amount       money.Amount `gorm:"type:decimal(19,2);not null" json:"amount"`
	Currency     string       `gorm:"size:3;not null" json:"currency"`
	Purpose      string       `gorm:"size:255" json:"purpose"`
	DrawdownDate time.Time    `gorm:"not null" json:"drawdown_date"`
	AmountPies   []AmountPie  `gorm:"foreignKey:DrawdownID" json:"amount_pies"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Drawdown) TableName() string { return "drawdowns" }

// AmountPie is the absolute slice of a drawdown funded by one investor.
type AmountPie struct {
	ID         uint64       `gorm:"primaryKey;column:id" json:"-"`
	DrawdownID uint64       `gorm:"not null;index" json:"-"`
	InvestorID uint64       `gorm:"not null" json:"investor_id"`
	Amount     money.Amount `gorm:"type:decimal(19,2);not null" json:"amount"`
}

func (AmountPie) TableName() string { return "amount_pies" }

func (d *Drawdown) PieTotal() money.Amount {
	total := money.Zero
	for _, p := range d.AmountPies {
		total = total.Add(p.Amount)
	}
	return total
}

type Repository interface {
	// Create inserts the drawdown together with its AmountPies.
	Create(ctx context.Context, d *Drawdown) error
	FindByID(ctx context.Context, id uint64) (*Drawdown, error)
	FindByLoanID(ctx context.Context, loanID uint64) (*Drawdown, error)
	CountByFacilityID(ctx context.Context, facilityID uint64) (int64, error)
	Delete(ctx context.Context, id uint64) error
}
