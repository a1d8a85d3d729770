package mysql

import (
	"context"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/fee"
)

type FeeRepository struct{ db *gorm.DB }

func NewFeeRepository(db *gorm.DB) *FeeRepository { return &FeeRepository{db: db} }

func (r *FeeRepository) Create(ctx context.Context, p *fee.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *FeeRepository) FindByID(ctx context.Context, id uint64) (*fee.Payment, error) {
	return findByID[fee.Payment](ctx, r.db, "fee payment", id, ordered("Distributions"))
}

func (r *FeeRepository) CountByFacilityID(ctx context.Context, facilityID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&fee.Payment{}).Where("facility_id = ?", facilityID).Count(&n).Error
	return n, err
}
