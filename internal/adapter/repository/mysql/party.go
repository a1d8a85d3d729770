package mysql

import (
	"context"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/party"
)

type BorrowerRepository struct{ db *gorm.DB }

func NewBorrowerRepository(db *gorm.DB) *BorrowerRepository { return &BorrowerRepository{db: db} }

func (r *BorrowerRepository) Create(ctx context.Context, b *party.Borrower) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BorrowerRepository) FindByID(ctx context.Context, id uint64) (*party.Borrower, error) {
	return findByID[party.Borrower](ctx, r.db, "borrower", id)
}

func (r *BorrowerRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*party.Borrower, error) {
	return findByID[party.Borrower](ctx, r.db, "borrower", id, forUpdate)
}

func (r *BorrowerRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return existsByID[party.Borrower](ctx, r.db, id)
}

func (r *BorrowerRepository) Save(ctx context.Context, b *party.Borrower) error {
	return saveVersioned(ctx, r.db, "borrower", b.ID, &b.Version, b)
}

func (r *BorrowerRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID[party.Borrower](ctx, r.db, "borrower", id)
}

type InvestorRepository struct{ db *gorm.DB }

func NewInvestorRepository(db *gorm.DB) *InvestorRepository { return &InvestorRepository{db: db} }

func (r *InvestorRepository) Create(ctx context.Context, i *party.Investor) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InvestorRepository) FindByID(ctx context.Context, id uint64) (*party.Investor, error) {
	return findByID[party.Investor](ctx, r.db, "investor", id)
}

func (r *InvestorRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*party.Investor, error) {
	return findByID[party.Investor](ctx, r.db, "investor", id, forUpdate)
}

func (r *InvestorRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return existsByID[party.Investor](ctx, r.db, id)
}

func (r *InvestorRepository) Save(ctx context.Context, i *party.Investor) error {
	return saveVersioned(ctx, r.db, "investor", i.ID, &i.Version, i)
}

func (r *InvestorRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID[party.Investor](ctx, r.db, "investor", id)
}
