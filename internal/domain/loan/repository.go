package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	FindByID(ctx context.Context, id uint64) (*Loan, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id uint64) error
}
