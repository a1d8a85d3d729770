package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/drawdown"
)

type DrawdownRepository struct{ db *gorm.DB }

func NewDrawdownRepository(db *gorm.DB) *DrawdownRepository { return &DrawdownRepository{db: db} }

func (r *DrawdownRepository) Create(ctx context.Context, d *drawdown.Drawdown) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DrawdownRepository) FindByID(ctx context.Context, id uint64) (*drawdown.Drawdown, error) {
	return findByID[drawdown.Drawdown](ctx, r.db, "drawdown", id, ordered("AmountPies"))
}

func (r *DrawdownRepository) FindByLoanID(ctx context.Context, loanID uint64) (*drawdown.Drawdown, error) {
	var out drawdown.Drawdown
	err := ordered("AmountPies")(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("drawdown for loan", loanID)
	}
	if err != nil {
		return nil, fmt.Errorf("find drawdown for loan %d: %w", loanID, err)
	}
	return &out, nil
}

func (r *DrawdownRepository) CountByFacilityID(ctx context.Context, facilityID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&drawdown.Drawdown{}).Where("facility_id = ?", facilityID).Count(&n).Error
	return n, err
}

func (r *DrawdownRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Where("drawdown_id = ?", id).Delete(&drawdown.AmountPie{}).Error; err != nil {
		return fmt.Errorf("delete amount pies of drawdown %d: %w", id, err)
	}
	return deleteByID[drawdown.Drawdown](ctx, r.db, "drawdown", id)
}
