package payment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"syndicated-loan-service/internal/domain/allocation"
	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/money"
	domain "syndicated-loan-service/internal/domain/payment"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/observability"
	"syndicated-loan-service/internal/usecase/lifecycle"
)

// Usecase books repayments. Loan status and investor balances change
// inline here; the payment events are only announced.
type Usecase struct {
	uow      uow.UnitOfWork
	events   event.Publisher
	notifier event.Notifier
	exec     *lifecycle.Executor
	metrics  *observability.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(
	tx uow.UnitOfWork,
	events event.Publisher,
	notifier event.Notifier,
	exec *lifecycle.Executor,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Usecase {
	return &Usecase{uow: tx, events: events, notifier: notifier, exec: exec, metrics: metrics, log: log, now: time.Now}
}

// ScheduleInstallment adds an UNPAID installment to a loan.
func (u *Usecase) ScheduleInstallment(ctx context.Context, loanID uint64, in InstallmentInput) (*domain.Detail, error) {
	if err := checkAmounts(in.PrincipalAmount, in.InterestAmount); err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, apperr.Rule("due date is required")
	}
	var out *domain.Detail
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status == loan.StatusCompleted {
			return apperr.Rule("loan %d is already repaid", l.ID)
		}
		d := &domain.Detail{
			LoanID:          l.ID,
			DueDate:         in.DueDate.UTC(),
			PrincipalAmount: in.PrincipalAmount,
			InterestAmount:  in.InterestAmount,
			Status:          domain.DetailUnpaid,
		}
		if err := r.PaymentDetails.Create(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

// ProcessPayment books an ad-hoc repayment.
func (u *Usecase) ProcessPayment(ctx context.Context, in PaymentInput) (*domain.Payment, error) {
	var (
		out *domain.Payment
		ev  event.PaymentCreated
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		p, err := u.settle(ctx, r, l, nil, in.PrincipalAmount, in.InterestAmount, in.PaymentDate)
		if err != nil {
			return err
		}
		out = p
		ev = event.PaymentCreated{PaymentID: p.ID, LoanID: l.ID, At: u.now().UTC()}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return nil, err
	}
	u.booked(out)
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return out, nil
}

// ProcessScheduledPayment pays an installment in full.
func (u *Usecase) ProcessScheduledPayment(ctx context.Context, detailID uint64, paymentDate time.Time) (*domain.Payment, error) {
	var (
		out *domain.Payment
		ev  event.PaymentCreated
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.PaymentDetails.FindByID(ctx, detailID)
		if err != nil {
			return err
		}
		// loan first, like every other payment path
		l, err := r.Loans.FindByIDForUpdate(ctx, d.LoanID)
		if err != nil {
			return err
		}
		if d, err = r.PaymentDetails.FindByIDForUpdate(ctx, detailID); err != nil {
			return err
		}
		if d.Status != domain.DetailUnpaid {
			return apperr.Rule("installment %d is already paid", d.ID)
		}
		p, err := u.settle(ctx, r, l, d, d.PrincipalAmount, d.InterestAmount, paymentDate)
		if err != nil {
			return err
		}
		d.Status = domain.DetailPaid
		d.PaymentID = &p.ID
		if err := r.PaymentDetails.Save(ctx, d); err != nil {
			return err
		}
		out = p
		ev = event.PaymentCreated{PaymentID: p.ID, LoanID: l.ID, At: u.now().UTC()}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return nil, err
	}
	u.booked(out)
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return out, nil
}

// settle splits one repayment across the loan's investors and advances
// the loan. Interest is distributed but never touches investment amounts.
func (u *Usecase) settle(
	ctx context.Context,
	r uow.Repos,
	l *loan.Loan,
	detail *domain.Detail,
	principal, interest money.Amount,
	paidAt time.Time,
) (*domain.Payment, error) {
	if l.Status == loan.StatusCompleted {
		return nil, apperr.Rule("loan %d is already repaid", l.ID)
	}
	if err := checkAmounts(principal, interest); err != nil {
		return nil, err
	}
	if principal.GreaterThan(l.OutstandingBalance) {
		return nil, apperr.Rule("principal %s exceeds outstanding balance %s of loan %d", principal, l.OutstandingBalance, l.ID)
	}
	if paidAt.IsZero() {
		paidAt = u.now()
	}
	if paidAt.After(u.now()) {
		return nil, apperr.Rule("payment date %s is in the future", paidAt.Format(time.RFC3339))
	}
	if paidAt.Before(l.StartDate) {
		return nil, apperr.Rule("payment date %s precedes loan start %s", paidAt.Format("2006-01-02"), l.StartDate.Format("2006-01-02"))
	}

	dd, err := r.Drawdowns.FindByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	repaid, err := r.Payments.RepaidPrincipal(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	dists, err := distribute(dd, repaid, principal, interest)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		LoanID:          l.ID,
		PaymentDate:     paidAt.UTC(),
		PrincipalAmount: principal,
		InterestAmount:  interest,
		Currency:        l.Currency,
		Status:          domain.StatusPending,
		Distributions:   dists,
	}
	if detail != nil {
		p.PaymentDetailID = &detail.ID
	}
	if err := r.Payments.Create(ctx, p); err != nil {
		return nil, err
	}

	for _, d := range dists {
		inv, err := r.Investors.FindByIDForUpdate(ctx, d.InvestorID)
		if err != nil {
			return nil, err
		}
		if err := inv.Divest(d.PrincipalAmount); err != nil {
			return nil, err
		}
		if err := r.Investors.Save(ctx, inv); err != nil {
			return nil, err
		}
	}

	l.Repay(principal)
	if l.Status == loan.StatusDraft {
		if l.Status, err = lifecycle.Execute(u.exec, loan.Machine, l.ID, l.Status, loan.EventFirstPayment); err != nil {
			return nil, err
		}
	}
	if l.OutstandingBalance.IsZero() {
		if l.Status, err = lifecycle.Execute(u.exec, loan.Machine, l.ID, l.Status, loan.EventFinalPayment); err != nil {
			return nil, err
		}
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, err
	}

	p.Status = domain.StatusCompleted
	if err := r.Payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// distribute splits interest by the drawdown's AmountPies and principal by
// what each investor still holds on the loan (pie minus principal already
// repaid). A payment that clears the balance therefore settles every pie.
func distribute(dd *drawdown.Drawdown, repaid map[uint64]money.Amount, principal, interest money.Amount) ([]domain.Distribution, error) {
	pies := allocation.WeightsOf(dd.AmountPies, func(p drawdown.AmountPie) (uint64, decimal.Decimal) {
		return p.InvestorID, p.Amount.Decimal()
	})
	held := allocation.WeightsOf(dd.AmountPies, func(p drawdown.AmountPie) (uint64, decimal.Decimal) {
		return p.InvestorID, p.Amount.Sub(repaid[p.InvestorID]).Decimal()
	})
	pp, err := allocation.Proportional(principal, held)
	if err != nil {
		return nil, apperr.Rule("drawdown %d: %v", dd.ID, err)
	}
	fitToHeld(pp, held)
	ip, err := allocation.Proportional(interest, pies)
	if err != nil {
		return nil, apperr.Rule("drawdown %d: %v", dd.ID, err)
	}
	out := make([]domain.Distribution, len(pp))
	for i := range pp {
		out[i] = domain.Distribution{
			InvestorID:      pp[i].InvestorID,
			PrincipalAmount: pp[i].Amount,
			InterestAmount:  ip[i].Amount,
		}
	}
	return out, nil
}

// fitToHeld keeps every principal portion within [0, held]. Only the
// remainder slot can stray, by a few cents; the difference is moved to or
// from the earlier investors and the total is unchanged.
func fitToHeld(pp []allocation.Portion, held []allocation.Weight) {
	last := len(pp) - 1
	limit := func(i int) money.Amount { return money.New(held[i].Value) }
	for i := 0; i < last && pp[last].Amount.GreaterThan(limit(last)); i++ {
		move := smaller(limit(i).Sub(pp[i].Amount), pp[last].Amount.Sub(limit(last)))
		if move.IsPositive() {
			pp[i].Amount = pp[i].Amount.Add(move)
			pp[last].Amount = pp[last].Amount.Sub(move)
		}
	}
	for i := last - 1; i >= 0 && pp[last].Amount.IsNegative(); i-- {
		move := smaller(pp[i].Amount, pp[last].Amount.Neg())
		if move.IsPositive() {
			pp[i].Amount = pp[i].Amount.Sub(move)
			pp[last].Amount = pp[last].Amount.Add(move)
		}
	}
}

func smaller(a, b money.Amount) money.Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// CancelPayment is the exact inverse of a completed payment.
func (u *Usecase) CancelPayment(ctx context.Context, paymentID uint64) (*domain.Payment, error) {
	var (
		out *domain.Payment
		ev  event.PaymentCancelled
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		l, err := r.Loans.FindByIDForUpdate(ctx, p.LoanID)
		if err != nil {
			return err
		}
		if p, err = r.Payments.FindByIDForUpdate(ctx, paymentID); err != nil {
			return err
		}
		if p.Status != domain.StatusCompleted {
			return apperr.Rule("payment %d is %s and cannot be cancelled", p.ID, p.Status)
		}

		for _, d := range p.Distributions {
			inv, err := r.Investors.FindByIDForUpdate(ctx, d.InvestorID)
			if err != nil {
				return err
			}
			inv.Reinstate(d.PrincipalAmount)
			if err := r.Investors.Save(ctx, inv); err != nil {
				return err
			}
		}

		p.Status = domain.StatusCancelled
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		l.Restore(p.PrincipalAmount)
		if l.Status == loan.StatusCompleted && l.OutstandingBalance.IsPositive() {
			if l.Status, err = lifecycle.Execute(u.exec, loan.Machine, l.ID, l.Status, loan.EventPaymentReverted); err != nil {
				return err
			}
		}
		remaining, err := r.Payments.CountCompletedByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if remaining == 0 && l.Status == loan.StatusActive {
			if l.Status, err = lifecycle.Execute(u.exec, loan.Machine, l.ID, l.Status, loan.EventLastPaymentReverted); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if p.PaymentDetailID != nil {
			d, err := r.PaymentDetails.FindByIDForUpdate(ctx, *p.PaymentDetailID)
			if err != nil {
				return err
			}
			d.Status = domain.DetailUnpaid
			d.PaymentID = nil
			if err := r.PaymentDetails.Save(ctx, d); err != nil {
				return err
			}
		}

		out = p
		ev = event.PaymentCancelled{PaymentID: p.ID, LoanID: l.ID, At: u.now().UTC()}
		return u.events.Publish(ctx, r, ev)
	})
	if err != nil {
		return nil, err
	}
	lifecycle.AfterCommit(ctx, u.notifier, u.log, ev)
	return out, nil
}

func (u *Usecase) GetPayment(ctx context.Context, id uint64) (*domain.Payment, error) {
	var out *domain.Payment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Payments.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (u *Usecase) booked(p *domain.Payment) {
	if u.metrics == nil {
		return
	}
	u.metrics.AllocatedAmount.WithLabelValues("principal").Add(p.PrincipalAmount.Decimal().InexactFloat64())
	u.metrics.AllocatedAmount.WithLabelValues("interest").Add(p.InterestAmount.Decimal().InexactFloat64())
}

func checkAmounts(principal, interest money.Amount) error {
	for _, a := range []money.Amount{principal, interest} {
		if a.IsNegative() || !a.HasCentPrecision() {
			return apperr.Rule("amount %s must be non-negative with at most %d decimals", a.Decimal(), money.Places)
		}
	}
	if !principal.Add(interest).IsPositive() {
		return apperr.Rule("payment must move a positive amount")
	}
	return nil
}
