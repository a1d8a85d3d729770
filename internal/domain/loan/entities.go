package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/statemachine"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

type Event string

const (
	EventFirstPayment        Event = "FIRST_PAYMENT"
	EventFinalPayment        Event = "FINAL_PAYMENT"
	EventPaymentReverted     Event = "PAYMENT_REVERTED"
	EventLastPaymentReverted Event = "LAST_PAYMENT_REVERTED"
)

var Machine = statemachine.New("loan", []statemachine.Transition[Status, Event]{
	{From: StatusDraft, Event: EventFirstPayment, To: StatusActive},
	{From: StatusActive, Event: EventFinalPayment, To: StatusCompleted},
	{From: StatusCompleted, Event: EventPaymentReverted, To: StatusActive},
	{From: StatusActive, Event: EventLastPaymentReverted, To: StatusDraft},
})

// Loan is created by exactly one drawdown and repaid through payments.
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"id"`
	FacilityID         uint64          `gorm:"not null;index" json:"facility_id"`
	BorrowerID         uint64          `gorm:"not null;index" json:"borrower_id"`
	Principal          money.Amount    `gorm:"type:decimal(19,2);not null" json:"principal"`
	OutstandingBalance money.Amount    `gorm:"type:decimal(19,2);not null" json:"outstanding_balance"`
	Currency           string          `gorm:"size:3;not null" json:"currency"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"interest_rate"`
	StartDate          time.Time       `gorm:"not null" json:"start_date"`
	Status             Status          `gorm:"size:16;not null;default:'DRAFT';index" json:"status"`
	Version            int64           `gorm:"not null;default:0" json:"version"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Repay lowers the outstanding balance by a principal amount.
func (l *Loan) Repay(principal money.Amount) {
	l.OutstandingBalance = l.OutstandingBalance.Sub(principal)
}

// Restore is the inverse of Repay.
func (l *Loan) Restore(principal money.Amount) {
	l.OutstandingBalance = l.OutstandingBalance.Add(principal)
}
