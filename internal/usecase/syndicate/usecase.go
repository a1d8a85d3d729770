package syndicate

import (
	"context"
	"strings"

	"syndicated-loan-service/internal/domain/apperr"
	domain "syndicated-loan-service/internal/domain/syndicate"
	"syndicated-loan-service/internal/domain/uow"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Create registers a DRAFT syndicate. The lead is always a member and
// duplicate member ids collapse.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Syndicate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Rule("syndicate name is required")
	}
	if in.BorrowerID == 0 || in.LeadInvestorID == 0 {
		return nil, apperr.Rule("borrower and lead investor are required")
	}

	s := &domain.Syndicate{
		Name:           in.Name,
		BorrowerID:     in.BorrowerID,
		LeadInvestorID: in.LeadInvestorID,
		Status:         domain.StatusDraft,
	}
	seen := map[uint64]bool{}
	for _, id := range append([]uint64{in.LeadInvestorID}, in.MemberIDs...) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		s.Members = append(s.Members, domain.Member{InvestorID: id})
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Borrowers.ExistsByID(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("borrower", in.BorrowerID)
		}
		for _, m := range s.Members {
			ok, err := r.Investors.ExistsByID(ctx, m.InvestorID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.NotFound("investor", m.InvestorID)
			}
		}
		return r.Syndicates.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Syndicate, error) {
	var out *domain.Syndicate
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Syndicates.FindByID(ctx, id)
		return err
	})
	return out, err
}

// Delete removes a DRAFT syndicate that underwrites no facility.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Syndicates.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if s.Status != domain.StatusDraft {
			return apperr.Rule("syndicate %d is %s and cannot be deleted", id, s.Status)
		}
		n, err := r.Facilities.CountBySyndicateID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Rule("syndicate %d still underwrites %d facility(ies)", id, n)
		}
		return r.Syndicates.Delete(ctx, id)
	})
}
