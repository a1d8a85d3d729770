package fee

import (
	"context"
	"time"

	"syndicated-loan-service/internal/domain/money"
)

type Type string

const (
	TypeArrangement Type = "ARRANGEMENT"
	TypeAgent       Type = "AGENT"
	TypeCommitment  Type = "COMMITMENT"
	TypeLate        Type = "LATE"
)

type RecipientType string

const (
	RecipientLeadBank  RecipientType = "LEAD_BANK"
	RecipientInvestors RecipientType = "INVESTORS"
)

// RecipientFor reports who is paid for a given fee type. The second result
// is false for unknown types.
func RecipientFor(t Type) (RecipientType, bool) {
	switch t {
	case TypeArrangement, TypeAgent:
		return RecipientLeadBank, true
	case TypeCommitment, TypeLate:
		return RecipientInvestors, true
	}
	return "", false
}

type Payment struct {
	ID                  uint64         `gorm:"primaryKey;column:id" json:"id"`
	FacilityID          uint64         `gorm:"not null;index" json:"facility_id"`
	BorrowerID          uint64         `gorm:"not null;index" json:"borrower_id"`
	FeeType             Type           `gorm:"size:16;not null" json:"fee_type"`
	RecipientType       RecipientType  `gorm:"size:16;not null" json:"recipient_type"`
	RecipientInvestorID *uint64        `json:"recipient_investor_id,omitempty"`
	Amount              money.Amount   `gorm:"type:decimal(19,2);not null" json:"amount"`
	Currency            string         `gorm:"size:3;not null" json:"currency"`
	FeeDate             time.Time      `gorm:"not null" json:"fee_date"`
	Description         string         `gorm:"size:255" json:"description"`
	Distributions       []Distribution `gorm:"foreignKey:FeePaymentID" json:"distributions"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "fee_payments" }

type Distribution struct {
	ID           uint64       `gorm:"primaryKey;column:id" json:"-"`
	FeePaymentID uint64       `gorm:"not null;index" json:"-"`
	InvestorID   uint64       `gorm:"not null" json:"investor_id"`
	Amount       money.Amount `gorm:"type:decimal(19,2);not null" json:"amount"`
}

func (Distribution) TableName() string { return "fee_distributions" }

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uint64) (*Payment, error)
	CountByFacilityID(ctx context.Context, facilityID uint64) (int64, error)
}
