package fee

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/allocation"
	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/facility"
	domain "syndicated-loan-service/internal/domain/fee"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/syndicate"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/observability"
)

type Usecase struct {
	uow     uow.UnitOfWork
	metrics *observability.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, metrics *observability.Metrics, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, metrics: metrics, log: log, now: time.Now}
}

// Create books a fee against a facility and records who receives it.
func (u *Usecase) Create(ctx context.Context, in Input) (*domain.Payment, error) {
	recipient, ok := domain.RecipientFor(in.FeeType)
	if !ok {
		return nil, apperr.Rule("unknown fee type %q", in.FeeType)
	}
	if !in.Amount.IsPositive() || !in.Amount.HasCentPrecision() {
		return nil, apperr.Rule("fee amount %s must be positive with at most %d decimals", in.Amount.Decimal(), money.Places)
	}
	if in.FeeDate.IsZero() {
		in.FeeDate = u.now()
	}
	if in.FeeDate.After(u.now()) {
		return nil, apperr.Rule("fee date %s is in the future", in.FeeDate.Format(time.RFC3339))
	}

	var out *domain.Payment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Facilities.FindByID(ctx, in.FacilityID)
		if err != nil {
			return err
		}
		s, err := r.Syndicates.FindByID(ctx, f.SyndicateID)
		if err != nil {
			return err
		}
		if s.BorrowerID != in.BorrowerID {
			return apperr.Rule("borrower %d is not the borrower of facility %d", in.BorrowerID, f.ID)
		}
		if in.Currency != f.Currency {
			return apperr.Rule("fee currency %s does not match facility currency %s", in.Currency, f.Currency)
		}

		dists, err := distribute(f, s, recipient, in)
		if err != nil {
			return err
		}
		p := &domain.Payment{
			FacilityID:    f.ID,
			BorrowerID:    in.BorrowerID,
			FeeType:       in.FeeType,
			RecipientType: recipient,
			Amount:        in.Amount,
			Currency:      in.Currency,
			FeeDate:       in.FeeDate.UTC(),
			Description:   in.Description,
			Distributions: dists,
		}
		if recipient == domain.RecipientLeadBank {
			lead := s.LeadInvestorID
			p.RecipientInvestorID = &lead
		}
		if err := r.Fees.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Uint64("fee_payment_id", out.ID).
		Uint64("facility_id", out.FacilityID).
		Str("fee_type", string(out.FeeType)).
		Str("amount", money.Format(out.Amount, out.Currency)).
		Msg("fee booked")
	if u.metrics != nil {
		u.metrics.AllocatedAmount.WithLabelValues("fee").Add(out.Amount.Decimal().InexactFloat64())
	}
	return out, nil
}

func distribute(f *facility.Facility, s *syndicate.Syndicate, recipient domain.RecipientType, in Input) ([]domain.Distribution, error) {
	switch recipient {
	case domain.RecipientLeadBank:
		if in.RecipientInvestorID != nil && *in.RecipientInvestorID != s.LeadInvestorID {
			return nil, apperr.Rule("%s fees are paid to the lead investor %d, not %d", in.FeeType, s.LeadInvestorID, *in.RecipientInvestorID)
		}
		return []domain.Distribution{{InvestorID: s.LeadInvestorID, Amount: in.Amount}}, nil
	default:
		if in.RecipientInvestorID != nil {
			return nil, apperr.Rule("%s fees are shared by all investors and take no recipient", in.FeeType)
		}
		portions, err := allocation.Proportional(in.Amount, allocation.WeightsOf(f.SharePies, func(p facility.SharePie) (uint64, decimal.Decimal) {
			return p.InvestorID, p.Share
		}))
		if err != nil {
			return nil, apperr.Rule("facility %d: %v", f.ID, err)
		}
		out := make([]domain.Distribution, len(portions))
		for i, p := range portions {
			out[i] = domain.Distribution{InvestorID: p.InvestorID, Amount: p.Amount}
		}
		return out, nil
	}
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Payment, error) {
	var out *domain.Payment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Fees.FindByID(ctx, id)
		return err
	})
	return out, err
}
