package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/domain/uow"
)

// Handlers implements the cascades triggered by facility, drawdown and
// payment events.
type Handlers struct {
	mgr *Manager
	log zerolog.Logger
}

func NewHandlers(mgr *Manager, log zerolog.Logger) *Handlers {
	return &Handlers{mgr: mgr, log: log}
}

func (h *Handlers) Register(d *Dispatcher) {
	d.Subscribe(event.NameFacilityCreated, h.onFacilityCreated)
	d.Subscribe(event.NameFacilityDeleted, h.onFacilityDeleted)
	d.Subscribe(event.NameDrawdownCreated, h.onDrawdownCreated)
	d.Subscribe(event.NameDrawdownDeleted, h.onDrawdownDeleted)
	d.Subscribe(event.NamePaymentCreated, h.onPayment)
	d.Subscribe(event.NamePaymentCancelled, h.onPayment)
}

// onFacilityCreated activates the syndicate, then restricts the borrower,
// then every participating investor. The order matters: the later steps
// resolve their ids through the syndicate.
func (h *Handlers) onFacilityCreated(ctx context.Context, r uow.Repos, e event.Event) error {
	ev, ok := e.(event.FacilityCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e)
	}
	f, err := r.Facilities.FindByID(ctx, ev.FacilityID)
	if err != nil {
		return err
	}
	if _, err := h.mgr.SyndicateToActive(ctx, r, f.SyndicateID); err != nil {
		return err
	}
	s, err := r.Syndicates.FindByID(ctx, f.SyndicateID)
	if err != nil {
		return err
	}
	if _, err := h.mgr.BorrowerToRestricted(ctx, r, s.BorrowerID); err != nil {
		return err
	}
	investors, err := r.Facilities.ParticipantInvestorIDs(ctx, f.ID)
	if err != nil {
		return err
	}
	for _, id := range investors {
		if _, err := h.mgr.InvestorToRestricted(ctx, r, id); err != nil {
			return err
		}
	}
	return nil
}

// onFacilityDeleted runs the reverse cascade. A party or syndicate still
// tied to another facility keeps its status.
func (h *Handlers) onFacilityDeleted(ctx context.Context, r uow.Repos, e event.Event) error {
	ev, ok := e.(event.FacilityDeleted)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e)
	}

	n, err := r.Facilities.CountBySyndicateID(ctx, ev.SyndicateID)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := h.mgr.SyndicateToDraft(ctx, r, ev.SyndicateID); err != nil {
			return err
		}
	}

	n, err = r.Facilities.CountByBorrowerID(ctx, ev.BorrowerID)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := h.mgr.BorrowerToDraft(ctx, r, ev.BorrowerID); err != nil {
			return err
		}
	}

	for _, id := range ev.InvestorIDs {
		n, err := r.Facilities.CountByInvestorID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := h.mgr.InvestorToDraft(ctx, r, id); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) onDrawdownCreated(ctx context.Context, r uow.Repos, e event.Event) error {
	ev, ok := e.(event.DrawdownCreated)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e)
	}
	_, err := h.mgr.FacilityToFixed(ctx, r, ev.FacilityID)
	return err
}

func (h *Handlers) onDrawdownDeleted(ctx context.Context, r uow.Repos, e event.Event) error {
	ev, ok := e.(event.DrawdownDeleted)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e)
	}
	n, err := r.Drawdowns.CountByFacilityID(ctx, ev.FacilityID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = h.mgr.FacilityToDraft(ctx, r, ev.FacilityID)
	return err
}

// onPayment only records the event. Loan status and investor balances are
// updated by the payment service in the same transaction.
func (h *Handlers) onPayment(_ context.Context, _ uow.Repos, e event.Event) error {
	h.log.Info().Str("event", string(e.Name())).Time("at", e.OccurredAt()).Msg("payment event recorded")
	return nil
}
