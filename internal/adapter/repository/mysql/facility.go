package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/syndicate"
)

type FacilityRepository struct{ db *gorm.DB }

func NewFacilityRepository(db *gorm.DB) *FacilityRepository { return &FacilityRepository{db: db} }

// Create inserts the facility and its SharePies.
func (r *FacilityRepository) Create(ctx context.Context, f *facility.Facility) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacilityRepository) FindByID(ctx context.Context, id uint64) (*facility.Facility, error) {
	return findByID[facility.Facility](ctx, r.db, "facility", id, ordered("SharePies"))
}

func (r *FacilityRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*facility.Facility, error) {
	return findByID[facility.Facility](ctx, r.db, "facility", id, forUpdate, ordered("SharePies"))
}

func (r *FacilityRepository) Save(ctx context.Context, f *facility.Facility) error {
	return saveVersioned(ctx, r.db, "facility", f.ID, &f.Version, f)
}

func (r *FacilityRepository) ReplaceSharePies(ctx context.Context, facilityID uint64, pies []facility.SharePie) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("facility_id = ?", facilityID).Delete(&facility.SharePie{}).Error; err != nil {
		return fmt.Errorf("clear share pies of facility %d: %w", facilityID, err)
	}
	if len(pies) == 0 {
		return nil
	}
	for i := range pies {
		pies[i].ID = 0
		pies[i].FacilityID = facilityID
	}
	return db.Create(&pies).Error
}

func (r *FacilityRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Where("facility_id = ?", id).Delete(&facility.SharePie{}).Error; err != nil {
		return fmt.Errorf("delete share pies of facility %d: %w", id, err)
	}
	return deleteByID[facility.Facility](ctx, r.db, "facility", id)
}

func (r *FacilityRepository) ParticipantInvestorIDs(ctx context.Context, facilityID uint64) ([]uint64, error) {
	f, err := findByID[facility.Facility](ctx, r.db, "facility", facilityID, ordered("SharePies"))
	if err != nil {
		return nil, err
	}
	s, err := findByID[syndicate.Syndicate](ctx, r.db, "syndicate", f.SyndicateID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(f.SharePies)+1)
	ids := make([]uint64, 0, len(f.SharePies)+1)
	add := func(id uint64) {
		if _, dup := seen[id]; dup || id == 0 {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range f.SharePies {
		add(p.InvestorID)
	}
	add(s.LeadInvestorID)
	return ids, nil
}

func (r *FacilityRepository) CountBySyndicateID(ctx context.Context, syndicateID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&facility.Facility{}).Where("syndicate_id = ?", syndicateID).Count(&n).Error
	return n, err
}

func (r *FacilityRepository) CountByBorrowerID(ctx context.Context, borrowerID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&facility.Facility{}).
		Joins("JOIN syndicates ON syndicates.id = facilities.syndicate_id").
		Where("syndicates.borrower_id = ?", borrowerID).
		Count(&n).Error
	return n, err
}

// CountByInvestorID counts facilities the investor holds a SharePie in or
// leads through the syndicate.
func (r *FacilityRepository) CountByInvestorID(ctx context.Context, investorID uint64) (int64, error) {
	db := r.db.WithContext(ctx)
	pies := db.Model(&facility.SharePie{}).Select("facility_id").Where("investor_id = ?", investorID)
	var n int64
	err := db.
		Model(&facility.Facility{}).
		Joins("JOIN syndicates ON syndicates.id = facilities.syndicate_id").
		Where("facilities.id IN (?) OR syndicates.lead_investor_id = ?", pies, investorID).
		Count(&n).Error
	return n, err
}
