package facility

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/statemachine"
)

type Status string

const (
	StatusDraft Status = "DRAFT"
	// StatusFixed is the locked state entered on the first drawdown.
	StatusFixed Status = "FIXED"
)

type Event string

const (
	EventDrawdownExecuted Event = "DRAWDOWN_EXECUTED"
	EventRevertToDraft    Event = "REVERT_TO_DRAFT"
)

var Machine = statemachine.New("facility", []statemachine.Transition[Status, Event]{
	{From: StatusDraft, Event: EventDrawdownExecuted, To: StatusFixed},
	{From: StatusFixed, Event: EventRevertToDraft, To: StatusDraft},
})

// Facility is a credit line underwritten by a syndicate.
type Facility struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"id"`
	SyndicateID  uint64          `gorm:"not null;index" json:"syndicate_id"`
	Name         string          `gorm:"size:128;not null" json:"name"`
	Commitment   money.Amount    `gorm:"type:decimal(19,2);not null" json:"commitment"`
	Currency     string          `gorm:"size:3;not null" json:"currency"`
	InterestRate decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"interest_rate"`
	StartDate    time.Time       `gorm:"not null" json:"start_date"`
	EndDate      time.Time       `gorm:"not null" json:"end_date"`
	Status       Status          `gorm:"size:16;not null;default:'DRAFT';index" json:"status"`
	SharePies    []SharePie      `gorm:"foreignKey:FacilityID" json:"share_pies"`
	Version      int64           `gorm:"not null;default:0" json:"version"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Facility) TableName() string { return "facilities" }

// SharePie is an investor's fractional ownership of the commitment.
type SharePie struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"-"`
	FacilityID uint64          `gorm:"not null;index" json:"-"`
	InvestorID uint64          `gorm:"not null" json:"investor_id"`
	Share      decimal.Decimal `gorm:"type:decimal(9,8);not null" json:"share"`
}

func (SharePie) TableName() string { return "share_pies" }

func (f *Facility) Locked() bool { return f.Status == StatusFixed }

// Covers reports whether d falls in the facility's [start, end] window.
func (f *Facility) Covers(d time.Time) bool {
	return !d.Before(f.StartDate) && !d.After(f.EndDate)
}

func (f *Facility) HasInvestor(investorID uint64) bool {
	for _, p := range f.SharePies {
		if p.InvestorID == investorID {
			return true
		}
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, f *Facility) error
	FindByID(ctx context.Context, id uint64) (*Facility, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Facility, error)
	Save(ctx context.Context, f *Facility) error
	ReplaceSharePies(ctx context.Context, facilityID uint64, pies []SharePie) error
	Delete(ctx context.Context, id uint64) error

	// ParticipantInvestorIDs joins the facility's SharePies with its
	// syndicate's lead investor: pie investors in pie order, then the lead,
	// without duplicates.
	ParticipantInvestorIDs(ctx context.Context, facilityID uint64) ([]uint64, error)
	CountBySyndicateID(ctx context.Context, syndicateID uint64) (int64, error)
	CountByBorrowerID(ctx context.Context, borrowerID uint64) (int64, error)
	CountByInvestorID(ctx context.Context, investorID uint64) (int64, error)
}
