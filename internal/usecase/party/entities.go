package party

import "syndicated-loan-service/internal/domain/money"

type BorrowerInput struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	CompanyName  string       `json:"company_name"`
	CreditLimit  money.Amount `json:"credit_limit"`
	CreditRating string       `json:"credit_rating"`
}

type InvestorInput struct {
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	InvestorType       string       `json:"investor_type"`
	InvestmentCapacity money.Amount `json:"investment_capacity"`
}
