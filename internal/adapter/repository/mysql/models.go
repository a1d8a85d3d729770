package mysql

import (
	"syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/fee"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/payment"
	"syndicated-loan-service/internal/domain/syndicate"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&party.Borrower{},
		&party.Investor{},
		&syndicate.Syndicate{},
		&syndicate.Member{},
		&facility.Facility{},
		&facility.SharePie{},
		&loan.Loan{},
		&drawdown.Drawdown{},
		&drawdown.AmountPie{},
		&payment.Detail{},
		&payment.Payment{},
		&payment.Distribution{},
		&fee.Payment{},
		&fee.Distribution{},
	}
}
