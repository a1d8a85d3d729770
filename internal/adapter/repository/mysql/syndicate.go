package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/syndicate"
)

type SyndicateRepository struct{ db *gorm.DB }

func NewSyndicateRepository(db *gorm.DB) *SyndicateRepository {
	return &SyndicateRepository{db: db}
}

// Create inserts the syndicate and its member rows.
func (r *SyndicateRepository) Create(ctx context.Context, s *syndicate.Syndicate) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SyndicateRepository) FindByID(ctx context.Context, id uint64) (*syndicate.Syndicate, error) {
	return findByID[syndicate.Syndicate](ctx, r.db, "syndicate", id, ordered("Members"))
}

func (r *SyndicateRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	return existsByID[syndicate.Syndicate](ctx, r.db, id)
}

func (r *SyndicateRepository) Save(ctx context.Context, s *syndicate.Syndicate) error {
	return saveVersioned(ctx, r.db, "syndicate", s.ID, &s.Version, s)
}

func (r *SyndicateRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Where("syndicate_id = ?", id).Delete(&syndicate.Member{}).Error; err != nil {
		return fmt.Errorf("delete syndicate %d members: %w", id, err)
	}
	return deleteByID[syndicate.Syndicate](ctx, r.db, "syndicate", id)
}

func (r *SyndicateRepository) CountByBorrowerID(ctx context.Context, borrowerID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&syndicate.Syndicate{}).Where("borrower_id = ?", borrowerID).Count(&n).Error
	return n, err
}

func (r *SyndicateRepository) CountByInvestorID(ctx context.Context, investorID uint64) (int64, error) {
	db := r.db.WithContext(ctx)
	members := db.Model(&syndicate.Member{}).Select("syndicate_id").Where("investor_id = ?", investorID)
	var n int64
	err := db.Model(&syndicate.Syndicate{}).
		Where("lead_investor_id = ? OR id IN (?)", investorID, members).
		Count(&n).Error
	return n, err
}
