package party

import (
	"time"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/money"
)

type Borrower struct {
	ID           uint64       `gorm:"primaryKey;column:id" json:"id"`
	Name         string       `gorm:"size:128;not null" json:"name"`
	Email        string       `gorm:"size:255;index:idx_borrowers_email" json:"email"`
	Phone        string       `gorm:"size:32" json:"phone"`
	CompanyName  string       `gorm:"size:255" json:"company_name"`
	CreditLimit  money.Amount `gorm:"type:decimal(19,2);not null" json:"credit_limit"`
	CreditRating string       `gorm:"size:8" json:"credit_rating"`
	Status       Status       `gorm:"size:16;not null;default:'DRAFT';index" json:"status"`
	Version      int64        `gorm:"not null;default:0" json:"version"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Borrower) TableName() string { return "borrowers" }

type InvestorType string

const (
	InvestorBank    InvestorType = "BANK"
	InvestorFund    InvestorType = "FUND"
	InvestorInsurer InvestorType = "INSURER"
	InvestorOther   InvestorType = "OTHER"
)

type Investor struct {
	ID                      uint64       `gorm:"primaryKey;column:id" json:"id"`
	Name                    string       `gorm:"size:128;not null" json:"name"`
	Email                   string       `gorm:"size:255;index:idx_investors_email" json:"email"`
	Phone                   string       `gorm:"size:32" json:"phone"`
	InvestorType            InvestorType `gorm:"size:16;not null" json:"investor_type"`
	InvestmentCapacity      money.Amount `gorm:"type:decimal(19,2);not null" json:"investment_capacity"`
	CurrentInvestmentAmount money.Amount `gorm:"type:decimal(19,2);not null" json:"current_investment_amount"`
	Status                  Status       `gorm:"size:16;not null;default:'DRAFT';index" json:"status"`
	Version                 int64        `gorm:"not null;default:0" json:"version"`
	CreatedAt               time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Investor) TableName() string { return "investors" }

// Invest adds a drawdown pie to the investor's exposure. A zero capacity
// means no cap is configured.
func (i *Investor) Invest(a money.Amount) error {
	next := i.CurrentInvestmentAmount.Add(a)
	if i.InvestmentCapacity.IsPositive() && next.GreaterThan(i.InvestmentCapacity) {
		return apperr.Rule("investor %d: investment %s would exceed capacity %s", i.ID, next, i.InvestmentCapacity)
	}
	i.CurrentInvestmentAmount = next
	return nil
}

// Divest removes repaid or reversed principal from the investor's exposure.
func (i *Investor) Divest(a money.Amount) error {
	next := i.CurrentInvestmentAmount.Sub(a)
	if next.IsNegative() {
		return apperr.Rule("investor %d: investment amount %s cannot go below zero", i.ID, next)
	}
	i.CurrentInvestmentAmount = next
	return nil
}

// Reinstate undoes a Divest. It ignores the capacity so a cancelled
// repayment can always be rolled back.
func (i *Investor) Reinstate(a money.Amount) {
	i.CurrentInvestmentAmount = i.CurrentInvestmentAmount.Add(a)
}
