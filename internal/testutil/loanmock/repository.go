package loanmock

import (
	"context"

	domain "syndicated-loan-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset finders return context.Canceled; unset writers succeed.
type Repo struct {
	CreateFn            func(ctx context.Context, l *domain.Loan) error
	FindByIDFn          func(ctx context.Context, id uint64) (*domain.Loan, error)
	FindByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Loan, error)
	SaveFn              func(ctx context.Context, l *domain.Loan) error
	DeleteFn            func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) FindByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
