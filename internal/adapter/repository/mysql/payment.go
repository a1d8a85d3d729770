package mysql

import (
	"context"

	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint64) (*payment.Payment, error) {
	return findByID[payment.Payment](ctx, r.db, "payment", id, ordered("Distributions"))
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*payment.Payment, error) {
	return findByID[payment.Payment](ctx, r.db, "payment", id, forUpdate, ordered("Distributions"))
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return saveVersioned(ctx, r.db, "payment", p.ID, &p.Version, p)
}

func (r *PaymentRepository) CountCompletedByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("loan_id = ? AND status = ?", loanID, payment.StatusCompleted).
		Count(&n).Error
	return n, err
}

func (r *PaymentRepository) CountByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&payment.Payment{}).Where("loan_id = ?", loanID).Count(&n).Error
	return n, err
}

func (r *PaymentRepository) RepaidPrincipal(ctx context.Context, loanID uint64) (map[uint64]money.Amount, error) {
	completed := r.db.Model(&payment.Payment{}).
		Select("id").
		Where("loan_id = ? AND status = ?", loanID, payment.StatusCompleted)

	var rows []payment.Distribution
	err := r.db.WithContext(ctx).
		Where("payment_id IN (?)", completed).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	// summed here rather than in SQL: sqlite would add the columns as floats
	out := make(map[uint64]money.Amount, len(rows))
	for _, d := range rows {
		out[d.InvestorID] = out[d.InvestorID].Add(d.PrincipalAmount.Round())
	}
	return out, nil
}

type PaymentDetailRepository struct{ db *gorm.DB }

func NewPaymentDetailRepository(db *gorm.DB) *PaymentDetailRepository {
	return &PaymentDetailRepository{db: db}
}

func (r *PaymentDetailRepository) Create(ctx context.Context, d *payment.Detail) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *PaymentDetailRepository) FindByID(ctx context.Context, id uint64) (*payment.Detail, error) {
	return findByID[payment.Detail](ctx, r.db, "payment detail", id)
}

func (r *PaymentDetailRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*payment.Detail, error) {
	return findByID[payment.Detail](ctx, r.db, "payment detail", id, forUpdate)
}

func (r *PaymentDetailRepository) Save(ctx context.Context, d *payment.Detail) error {
	return saveVersioned(ctx, r.db, "payment detail", d.ID, &d.Version, d)
}

func (r *PaymentDetailRepository) DeleteByLoanID(ctx context.Context, loanID uint64) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&payment.Detail{}).Error
}
