package payment

import (
	"time"

	"syndicated-loan-service/internal/domain/money"
)

type InstallmentInput struct {
	DueDate         time.Time    `json:"due_date"`
	PrincipalAmount money.Amount `json:"principal_amount"`
	InterestAmount  money.Amount `json:"interest_amount"`
}

type PaymentInput struct {
	LoanID          uint64       `json:"loan_id"`
	PrincipalAmount money.Amount `json:"principal_amount"`
	InterestAmount  money.Amount `json:"interest_amount"`
	PaymentDate     time.Time    `json:"payment_date"`
}
