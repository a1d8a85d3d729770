package facility

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/event"
	domain "syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/syndicate"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/usecase/lifecycle"
)

type Usecase struct {
	uow      uow.UnitOfWork
	events   event.Publisher
	notifier event.Notifier
	mgr      *lifecycle.Manager
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, events event.Publisher, notifier event.Notifier, mgr *lifecycle.Manager, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, events: events, notifier: notifier, mgr: mgr, log: log, now: time.Now}
}

// Create stores a DRAFT facility and runs the FacilityCreated cascade in
// the same transaction.
func (u *Usecase) Create(ctx context.Context, in Input) (*domain.Facility, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	f := &domain.Facility{
		SyndicateID:  in.SyndicateID,
		Name:         in.Name,
		Commitment:   in.Commitment,
		Currency:     in.Currency,
		InterestRate: in.InterestRate,
		StartDate:    in.StartDate.UTC(),
		EndDate:      in.EndDate.UTC(),
		Status:       domain.StatusDraft,
		SharePies:    toSharePies(in.SharePies),
	}

	var ev event.FacilityCreated
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Syndicates.FindByID(ctx, in.SyndicateID)
		if err != nil {
			return err
		}
		if err := checkParticipants(ctx, r, s, in); err != nil {
			return err
		}
		if err := r.Facilities.Create(ctx, f); err != nil {
			return err
		}
		ev = event.FacilityCreated{FacilityID: f.ID, SyndicateID: s.ID, At: u.now().UTC()}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return nil, err
	}
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return f, nil
}

// Update rewrites a DRAFT facility and its SharePies. Investors that join
// are restricted; investors that leave revert once they hold no facility.
func (u *Usecase) Update(ctx context.Context, id uint64, in Input) (*domain.Facility, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	var out *domain.Facility
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Facilities.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if f.Locked() {
			return apperr.Rule("facility %d is locked", id)
		}
		s, err := r.Syndicates.FindByID(ctx, f.SyndicateID)
		if err != nil {
			return err
		}
		if err := checkParticipants(ctx, r, s, in); err != nil {
			return err
		}
		before, err := r.Facilities.ParticipantInvestorIDs(ctx, id)
		if err != nil {
			return err
		}

		f.Name = in.Name
		f.Commitment = in.Commitment
		f.Currency = in.Currency
		f.InterestRate = in.InterestRate
		f.StartDate = in.StartDate.UTC()
		f.EndDate = in.EndDate.UTC()
		if err := r.Facilities.Save(ctx, f); err != nil {
			return err
		}
		if err := r.Facilities.ReplaceSharePies(ctx, id, toSharePies(in.SharePies)); err != nil {
			return err
		}

		after, err := r.Facilities.ParticipantInvestorIDs(ctx, id)
		if err != nil {
			return err
		}
		for _, inv := range after {
			if _, err := u.mgr.InvestorToRestricted(ctx, r, inv); err != nil {
				return err
			}
		}
		for _, inv := range without(before, after) {
			n, err := r.Facilities.CountByInvestorID(ctx, inv)
			if err != nil {
				return err
			}
			if n == 0 {
				if _, err := u.mgr.InvestorToDraft(ctx, r, inv); err != nil {
					return err
				}
			}
		}

		out, err = r.Facilities.FindByID(ctx, id)
		return err
	})
	return out, err
}

// Delete removes a DRAFT facility and reverts the parties it restricted.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	var ev event.FacilityDeleted
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Facilities.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if f.Locked() {
			return apperr.Rule("facility %d is locked", id)
		}
		fees, err := r.Fees.CountByFacilityID(ctx, id)
		if err != nil {
			return err
		}
		if fees > 0 {
			return apperr.Rule("facility %d has %d fee payment(s)", id, fees)
		}
		s, err := r.Syndicates.FindByID(ctx, f.SyndicateID)
		if err != nil {
			return err
		}
		investors, err := r.Facilities.ParticipantInvestorIDs(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Facilities.Delete(ctx, id); err != nil {
			return err
		}
		ev = event.FacilityDeleted{
			FacilityID:  id,
			SyndicateID: s.ID,
			BorrowerID:  s.BorrowerID,
			InvestorIDs: investors,
			At:          u.now().UTC(),
		}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return err
	}
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Facility, error) {
	var out *domain.Facility
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Facilities.FindByID(ctx, id)
		return err
	})
	return out, err
}

// checkParticipants enforces the rules that need storage: investors exist
// and belong to the syndicate, and the commitment fits the borrower's limit.
// checkParticipants also rejects COMPLETED parties up front; the cascade
// could not restrict them.
func checkParticipants(ctx context.Context, r uow.Repos, s *syndicate.Syndicate, in Input) error {
	ids := make([]uint64, 0, len(in.SharePies)+1)
	for _, p := range in.SharePies {
		if !s.IsMember(p.InvestorID) {
			if ok, err := r.Investors.ExistsByID(ctx, p.InvestorID); err != nil {
				return err
			} else if !ok {
				return apperr.NotFound("investor", p.InvestorID)
			}
			return apperr.Rule("investor %d is not a member of syndicate %d", p.InvestorID, s.ID)
		}
		ids = append(ids, p.InvestorID)
	}
	ids = append(ids, s.LeadInvestorID)
	for _, id := range ids {
		inv, err := r.Investors.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if inv.Status == party.StatusCompleted {
			return apperr.Rule("investor %d is COMPLETED and cannot join facilities", id)
		}
	}

	b, err := r.Borrowers.FindByID(ctx, s.BorrowerID)
	if err != nil {
		return err
	}
	if b.Status == party.StatusCompleted {
		return apperr.Rule("borrower %d is COMPLETED and cannot take facilities", b.ID)
	}
	if b.CreditLimit.IsPositive() && in.Commitment.GreaterThan(b.CreditLimit) {
		return apperr.Rule("commitment %s exceeds credit limit %s of borrower %d", in.Commitment, b.CreditLimit, b.ID)
	}
	return nil
}

func toSharePies(in []SharePieInput) []domain.SharePie {
	out := make([]domain.SharePie, 0, len(in))
	for _, p := range in {
		out = append(out, domain.SharePie{InvestorID: p.InvestorID, Share: p.Share})
	}
	return out
}

// without returns the ids of a missing from b.
func without(a, b []uint64) []uint64 {
	keep := make(map[uint64]bool, len(b))
	for _, id := range b {
		keep[id] = true
	}
	var out []uint64
	for _, id := range a {
		if !keep[id] {
			out = append(out, id)
		}
	}
	return out
}
