package drawdown

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/allocation"
	"syndicated-loan-service/internal/domain/apperr"
	domain "syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/observability"
	"syndicated-loan-service/internal/usecase/lifecycle"
)

type Usecase struct {
	uow      uow.UnitOfWork
	events   event.Publisher
	notifier event.Notifier
	metrics  *observability.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, events event.Publisher, notifier event.Notifier, metrics *observability.Metrics, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, events: events, notifier: notifier, metrics: metrics, log: log, now: time.Now}
}

// Create draws against a facility: it opens the loan, splits the amount
// into AmountPies, books each pie on its investor and locks the facility.
// Any failure leaves nothing behind.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Drawdown, error) {
	var (
		out *domain.Drawdown
		ev  event.DrawdownCreated
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Facilities.FindByIDForUpdate(ctx, in.FacilityID)
		if err != nil {
			return err
		}
		if f.Locked() {
			return apperr.Rule("facility %d is already fixed: second drawdown forbidden", f.ID)
		}
		if err := checkAmount(f, in); err != nil {
			return err
		}
		s, err := r.Syndicates.FindByID(ctx, f.SyndicateID)
		if err != nil {
			return err
		}

		l := &loan.Loan{
			FacilityID:         f.ID,
			BorrowerID:         s.BorrowerID,
			Principal:          in.Amount,
			OutstandingBalance: in.Amount,
			Currency:           f.Currency,
			InterestRate:       f.InterestRate,
			StartDate:          in.DrawdownDate.UTC(),
			Status:             loan.StatusDraft,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		pies, err := u.pies(f, in)
		if err != nil {
			return err
		}
		d := &domain.Drawdown{
			FacilityID:   f.ID,
			BorrowerID:   s.BorrowerID,
			LoanID:       l.ID,
			Amount:       in.Amount,
			Currency:     f.Currency,
			Purpose:      in.Purpose,
			DrawdownDate: in.DrawdownDate.UTC(),
			AmountPies:   pies,
		}
		if err := r.Drawdowns.Create(ctx, d); err != nil {
			return err
		}

		for _, p := range pies {
			inv, err := r.Investors.FindByIDForUpdate(ctx, p.InvestorID)
			if err != nil {
				return err
			}
			if err := inv.Invest(p.Amount); err != nil {
				return err
			}
			if err := r.Investors.Save(ctx, inv); err != nil {
				return err
			}
		}

		ev = event.DrawdownCreated{DrawdownID: d.ID, FacilityID: f.ID, LoanID: l.ID, At: u.now().UTC()}
		if err := u.events.Publish(ctx, r, ev); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	if u.metrics != nil {
		u.metrics.AllocatedAmount.WithLabelValues("drawdown").Add(out.Amount.Decimal().InexactFloat64())
	}
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return out, nil
}

func checkAmount(f *facility.Facility, in CreateInput) error {
	if !in.Amount.IsPositive() || !in.Amount.HasCentPrecision() {
		return apperr.Rule("drawdown amount %s must be positive with at most %d decimals", in.Amount.Decimal(), money.Places)
	}
	if in.Amount.GreaterThan(f.Commitment) {
		return apperr.Rule("drawdown amount %s exceeds commitment %s", in.Amount, f.Commitment)
	}
	if in.Currency != "" && in.Currency != f.Currency {
		return apperr.Rule("drawdown currency %s does not match facility currency %s", in.Currency, f.Currency)
	}
	if in.DrawdownDate.IsZero() || !f.Covers(in.DrawdownDate) {
		return apperr.Rule("drawdown date %s is outside the facility term", in.DrawdownDate.Format("2006-01-02"))
	}
	return nil
}

// pies takes explicit amounts when given, otherwise splits the amount by
// SharePie in insertion order.
func (u *Usecase) pies(f *facility.Facility, in CreateInput) ([]domain.AmountPie, error) {
	if len(in.AmountPies) == 0 {
		portions, err := allocation.Proportional(in.Amount, allocation.WeightsOf(f.SharePies, func(p facility.SharePie) (uint64, decimal.Decimal) {
			return p.InvestorID, p.Share
		}))
		if err != nil {
			return nil, apperr.Rule("facility %d: %v", f.ID, err)
		}
		out := make([]domain.AmountPie, 0, len(portions))
		for _, p := range portions {
			out = append(out, domain.AmountPie{InvestorID: p.InvestorID, Amount: p.Amount})
		}
		return out, nil
	}

	seen := make(map[uint64]bool, len(in.AmountPies))
	out := make([]domain.AmountPie, 0, len(in.AmountPies))
	total := money.Zero
	for _, p := range in.AmountPies {
		if !f.HasInvestor(p.InvestorID) {
			return nil, apperr.Rule("investor %d holds no share of facility %d", p.InvestorID, f.ID)
		}
		if seen[p.InvestorID] {
			return nil, apperr.Rule("investor %d appears in more than one amount pie", p.InvestorID)
		}
		seen[p.InvestorID] = true
		if !p.Amount.IsPositive() || !p.Amount.HasCentPrecision() {
			return nil, apperr.Rule("amount pie %s of investor %d must be positive with at most %d decimals", p.Amount.Decimal(), p.InvestorID, money.Places)
		}
		total = total.Add(p.Amount)
		out = append(out, domain.AmountPie{InvestorID: p.InvestorID, Amount: p.Amount})
	}
	if !total.Equal(in.Amount) {
		return nil, apperr.Rule("amount pies sum to %s, expected %s", total, in.Amount)
	}
	return out, nil
}

// Delete reverses a drawdown whose loan has never been paid. The facility
// returns to DRAFT once its last drawdown is gone.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	var ev event.DrawdownDeleted
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Drawdowns.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := r.Facilities.FindByIDForUpdate(ctx, d.FacilityID); err != nil {
			return err
		}
		l, err := r.Loans.FindByIDForUpdate(ctx, d.LoanID)
		if err != nil {
			return err
		}
		if l.Status != loan.StatusDraft {
			return apperr.Rule("drawdown %d: loan %d is %s", id, l.ID, l.Status)
		}
		n, err := r.Payments.CountByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Rule("drawdown %d: loan %d has payment history", id, l.ID)
		}

		for _, p := range d.AmountPies {
			inv, err := r.Investors.FindByIDForUpdate(ctx, p.InvestorID)
			if err != nil {
				return err
			}
			if err := inv.Divest(p.Amount); err != nil {
				return err
			}
			if err := r.Investors.Save(ctx, inv); err != nil {
				return err
			}
		}
		if err := r.Drawdowns.Delete(ctx, id); err != nil {
			return err
		}
		if err := r.PaymentDetails.DeleteByLoanID(ctx, l.ID); err != nil {
			return err
		}
		if err := r.Loans.Delete(ctx, l.ID); err != nil {
			return err
		}
		ev = event.DrawdownDeleted{DrawdownID: id, FacilityID: d.FacilityID, At: u.now().UTC()}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return err
	}
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.Drawdown, error) {
	var out *domain.Drawdown
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Drawdowns.FindByID(ctx, id)
		return err
	})
	return out, err
}
