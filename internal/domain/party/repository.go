package party

import "context"

type BorrowerRepository interface {
	Create(ctx context.Context, b *Borrower) error
	FindByID(ctx context.Context, id uint64) (*Borrower, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Borrower, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	// Save bumps Version and fails with apperr.ErrConcurrentUpdate on a stale copy.
	Save(ctx context.Context, b *Borrower) error
	Delete(ctx context.Context, id uint64) error
}

type InvestorRepository interface {
	Create(ctx context.Context, i *Investor) error
	FindByID(ctx context.Context, id uint64) (*Investor, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Investor, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	Save(ctx context.Context, i *Investor) error
	Delete(ctx context.Context, id uint64) error
}
