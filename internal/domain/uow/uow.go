package uow

import (
	"context"

	"syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/fee"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/payment"
	"syndicated-loan-service/internal/domain/syndicate"
)

// Repos are bound to a single transaction.
type Repos struct {
	Borrowers      party.BorrowerRepository
	Investors      party.InvestorRepository
	Syndicates     syndicate.Repository
	Facilities     facility.Repository
	Drawdowns      drawdown.Repository
	Loans          loan.Repository
	Payments       payment.Repository
	PaymentDetails payment.DetailRepository
	Fees           fee.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
