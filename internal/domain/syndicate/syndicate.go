package syndicate

import (
	"context"
	"time"

	"syndicated-loan-service/internal/domain/statemachine"
)

type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusActive Status = "ACTIVE"
)

type Event string

const (
	EventFacilityCreated Event = "FACILITY_CREATED"
	EventFacilityDeleted Event = "FACILITY_DELETED"
)

var Machine = statemachine.New("syndicate", []statemachine.Transition[Status, Event]{
	{From: StatusDraft, Event: EventFacilityCreated, To: StatusActive},
	{From: StatusActive, Event: EventFacilityDeleted, To: StatusDraft},
})

// Syndicate binds one borrower to a lead investor and member investors.
type Syndicate struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	BorrowerID     uint64    `gorm:"not null;index" json:"borrower_id"`
	LeadInvestorID uint64    `gorm:"not null;index" json:"lead_investor_id"`
	Members        []Member  `gorm:"foreignKey:SyndicateID" json:"members"`
	Status         Status    `gorm:"size:16;not null;default:'DRAFT'" json:"status"`
	Version        int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Syndicate) TableName() string { return "syndicates" }

type Member struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	SyndicateID uint64 `gorm:"not null;uniqueIndex:ux_syndicate_members" json:"-"`
	InvestorID  uint64 `gorm:"not null;uniqueIndex:ux_syndicate_members" json:"investor_id"`
}

func (Member) TableName() string { return "syndicate_members" }

func (s *Syndicate) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(s.Members))
	for _, m := range s.Members {
		ids = append(ids, m.InvestorID)
	}
	return ids
}

// IsMember is true for the lead and every listed member.
func (s *Syndicate) IsMember(investorID uint64) bool {
	if investorID == s.LeadInvestorID {
		return true
	}
	for _, m := range s.Members {
		if m.InvestorID == investorID {
			return true
		}
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, s *Syndicate) error
	FindByID(ctx context.Context, id uint64) (*Syndicate, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	Save(ctx context.Context, s *Syndicate) error
	Delete(ctx context.Context, id uint64) error
	CountByBorrowerID(ctx context.Context, borrowerID uint64) (int64, error)
	// CountByInvestorID counts syndicates the investor leads or belongs to.
	CountByInvestorID(ctx context.Context, investorID uint64) (int64, error)
}
