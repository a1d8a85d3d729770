package mysql

import (
	"context"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	return saveVersioned(ctx, r.db, "loan", l.ID, &l.Version, l)
}

func (r *LoanRepository) FindByID(ctx context.Context, id uint64) (*loan.Loan, error) {
	return findByID[loan.Loan](ctx, r.db, "loan", id)
}

func (r *LoanRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*loan.Loan, error) {
	return findByID[loan.Loan](ctx, r.db, "loan", id, forUpdate)
}

func (r *LoanRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID[loan.Loan](ctx, r.db, "loan", id)
}
