package loan

import (
	"context"

	domain "syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/uow"
)

// Usecase is the read side of loans; every write goes through payments.
type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx}
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.FindByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := r.Payments.CountCompletedByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		dto = toDTO(l, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func toDTO(l *domain.Loan, completed int64) *LoanDTO {
	return &LoanDTO{
		ID:                 l.ID,
		FacilityID:         l.FacilityID,
		BorrowerID:         l.BorrowerID,
		Principal:          l.Principal,
		OutstandingBalance: l.OutstandingBalance,
		RepaidPrincipal:    l.Principal.Sub(l.OutstandingBalance),
		Outstanding:        money.Format(l.OutstandingBalance, l.Currency),
		Currency:           l.Currency,
		InterestRate:       l.InterestRate,
		StartDate:          l.StartDate,
		Status:             string(l.Status),
		CompletedPayments:  completed,
		Version:            l.Version,
	}
}
