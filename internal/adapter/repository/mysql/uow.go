package mysql

import (
	"context"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Borrowers:      &BorrowerRepository{db: db},
		Investors:      &InvestorRepository{db: db},
		Syndicates:     &SyndicateRepository{db: db},
		Facilities:     &FacilityRepository{db: db},
		Drawdowns:      &DrawdownRepository{db: db},
		Loans:          &LoanRepository{db: db},
		Payments:       &PaymentRepository{db: db},
		PaymentDetails: &PaymentDetailRepository{db: db},
		Fees:           &FeeRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
