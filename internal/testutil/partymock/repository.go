package partymock

import (
	"context"

	"syndicated-loan-service/internal/domain/party"
)

var (
	_ party.BorrowerRepository = (*BorrowerRepo)(nil)
	_ party.InvestorRepository = (*InvestorRepo)(nil)
)

// BorrowerRepo is a function-backed mock of party.BorrowerRepository.
// Unset finders return context.Canceled; unset writers succeed.
type BorrowerRepo struct {
	CreateFn            func(ctx context.Context, b *party.Borrower) error
	FindByIDFn          func(ctx context.Context, id uint64) (*party.Borrower, error)
	FindByIDForUpdateFn func(ctx context.Context, id uint64) (*party.Borrower, error)
	ExistsFn            func(ctx context.Context, id uint64) (bool, error)
	SaveFn              func(ctx context.Context, b *party.Borrower) error
	DeleteFn            func(ctx context.Context, id uint64) error
}

func (m *BorrowerRepo) Create(ctx context.Context, b *party.Borrower) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *BorrowerRepo) FindByID(ctx context.Context, id uint64) (*party.Borrower, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

// FindByIDForUpdate falls back to FindByIDFn when no locking variant is set.
func (m *BorrowerRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*party.Borrower, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *BorrowerRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	return false, context.Canceled
}

func (m *BorrowerRepo) Save(ctx context.Context, b *party.Borrower) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *BorrowerRepo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// InvestorRepo is a function-backed mock of party.InvestorRepository.
type InvestorRepo struct {
	CreateFn            func(ctx context.Context, i *party.Investor) error
	FindByIDFn          func(ctx context.Context, id uint64) (*party.Investor, error)
	FindByIDForUpdateFn func(ctx context.Context, id uint64) (*party.Investor, error)
	ExistsFn            func(ctx context.Context, id uint64) (bool, error)
	SaveFn              func(ctx context.Context, i *party.Investor) error
	DeleteFn            func(ctx context.Context, id uint64) error
}

func (m *InvestorRepo) Create(ctx context.Context, i *party.Investor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, i)
	}
	return nil
}

func (m *InvestorRepo) FindByID(ctx context.Context, id uint64) (*party.Investor, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

// FindByIDForUpdate falls back to FindByIDFn when no locking variant is set.
func (m *InvestorRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*party.Investor, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *InvestorRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	return false, context.Canceled
}

func (m *InvestorRepo) Save(ctx context.Context, i *party.Investor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, i)
	}
	return nil
}

func (m *InvestorRepo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
