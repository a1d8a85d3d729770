package payment

import (
	"context"
	"time"

	"syndicated-loan-service/internal/domain/money"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type DetailStatus string

const (
	DetailUnpaid DetailStatus = "UNPAID"
	DetailPaid   DetailStatus = "PAID"
)

// Detail is a scheduled installment of a loan.
type Detail struct {
	ID              uint64       `gorm:"primaryKey;column:id" json:"id"`
	LoanID          uint64       `gorm:"not null;index" json:"loan_id"`
	DueDate         time.Time    `gorm:"not null" json:"due_date"`
	PrincipalAmount money.Amount `gorm:"type:decimal(19,2);not null" json:"principal_amount"`
	InterestAmount  money.Amount `gorm:"type:decimal(19,2);not null" json:"interest_amount"`
	Status          DetailStatus `gorm:"size:16;not null;default:'UNPAID'" json:"status"`
	PaymentID       *uint64      `json:"payment_id,omitempty"`
	Version         int64        `gorm:"not null;default:0" json:"version"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Detail) TableName() string { return "payment_details" }

type Payment struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"id"`
	LoanID          uint64         `gorm:"not null;index" json:"loan_id"`
	PaymentDetailID *uint64        `gorm:"index" json:"payment_detail_id,omitempty"`
	PaymentDate     time.Time      `gorm:"not null" json:"payment_date"`
	PrincipalAmount money.Amount   `gorm:"type:decimal(19,2);not null" json:"principal_amount"`
	InterestAmount  money.Amount   `gorm:"type:decimal(19,2);not null" json:"interest_amount"`
	Currency        string         `gorm:"size:3;not null" json:"currency"`
	Status          Status         `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	Distributions   []Distribution `gorm:"foreignKey:PaymentID" json:"distributions"`
	Version         int64          `gorm:"not null;default:0" json:"version"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) Total() money.Amount { return p.PrincipalAmount.Add(p.InterestAmount) }

// Distribution is one investor's cut of a payment.
type Distribution struct {
	ID              uint64       `gorm:"primaryKey;column:id" json:"-"`
	PaymentID       uint64       `gorm:"not null;index" json:"-"`
	InvestorID      uint64       `gorm:"not null" json:"investor_id"`
	PrincipalAmount money.Amount `gorm:"type:decimal(19,2);not null" json:"principal_amount"`
	InterestAmount  money.Amount `gorm:"type:decimal(19,2);not null" json:"interest_amount"`
}

func (Distribution) TableName() string { return "payment_distributions" }

type Repository interface {
	// Create inserts the payment together with its distributions.
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uint64) (*Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	CountCompletedByLoanID(ctx context.Context, loanID uint64) (int64, error)
	CountByLoanID(ctx context.Context, loanID uint64) (int64, error)
	// RepaidPrincipal sums, per investor, the principal of the loan's
	// COMPLETED payments.
	RepaidPrincipal(ctx context.Context, loanID uint64) (map[uint64]money.Amount, error)
}

type DetailRepository interface {
	Create(ctx context.Context, d *Detail) error
	FindByID(ctx context.Context, id uint64) (*Detail, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Detail, error)
	Save(ctx context.Context, d *Detail) error
	DeleteByLoanID(ctx context.Context, loanID uint64) error
}
