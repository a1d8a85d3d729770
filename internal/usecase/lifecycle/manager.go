package lifecycle

import (
	"context"
	"errors"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/statemachine"
	"syndicated-loan-service/internal/domain/syndicate"
	"syndicated-loan-service/internal/domain/uow"
)

// Manager moves a single entity to a target status inside the caller's
// transaction. Every method reports whether a write happened.
type Manager struct {
	exec *Executor
}

func NewManager(exec *Executor) *Manager { return &Manager{exec: exec} }

// move is the shared fetch/skip/execute/persist path.
func move[S ~string, E ~string](
	x *Executor,
	m *statemachine.Machine[S, E],
	id uint64,
	current, target S,
	ev E,
	persist func(next S) error,
) (bool, error) {
	if current != "" && !ShouldTransition(current, target) {
		x.skipped(m.Name(), id, string(current))
		return false, nil
	}
	next, err := Execute(x, m, id, current, ev)
	if err != nil {
		return false, err
	}
	if err := persist(next); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) BorrowerToRestricted(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.borrower(ctx, r, id, party.StatusRestricted, party.EventFacilityParticipation)
}

// BorrowerToDraft leaves a COMPLETED borrower untouched.
func (m *Manager) BorrowerToDraft(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.borrower(ctx, r, id, party.StatusDraft, party.EventFacilityDeleted)
}

func (m *Manager) BorrowerToCompleted(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.borrower(ctx, r, id, party.StatusCompleted, party.EventComplete)
}

func (m *Manager) borrower(ctx context.Context, r uow.Repos, id uint64, target party.Status, ev party.Event) (bool, error) {
	b, err := r.Borrowers.FindByIDForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	if ev == party.EventFacilityDeleted && party.Machine.Terminal(b.Status) {
		m.exec.skipped(party.Machine.Name(), id, string(b.Status))
		return false, nil
	}
	return move(m.exec, party.Machine, id, b.Status, target, ev, func(next party.Status) error {
		b.Status = next
		return r.Borrowers.Save(ctx, b)
	})
}

func (m *Manager) InvestorToRestricted(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.investor(ctx, r, id, party.StatusRestricted, party.EventFacilityParticipation)
}

// InvestorToDraft leaves a COMPLETED investor untouched.
func (m *Manager) InvestorToDraft(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.investor(ctx, r, id, party.StatusDraft, party.EventFacilityDeleted)
}

func (m *Manager) InvestorToCompleted(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.investor(ctx, r, id, party.StatusCompleted, party.EventComplete)
}

func (m *Manager) investor(ctx context.Context, r uow.Repos, id uint64, target party.Status, ev party.Event) (bool, error) {
	inv, err := r.Investors.FindByIDForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	if ev == party.EventFacilityDeleted && party.Machine.Terminal(inv.Status) {
		m.exec.skipped(party.Machine.Name(), id, string(inv.Status))
		return false, nil
	}
	return move(m.exec, party.Machine, id, inv.Status, target, ev, func(next party.Status) error {
		inv.Status = next
		return r.Investors.Save(ctx, inv)
	})
}

func (m *Manager) SyndicateToActive(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.syndicate(ctx, r, id, syndicate.StatusActive, syndicate.EventFacilityCreated)
}

func (m *Manager) SyndicateToDraft(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	return m.syndicate(ctx, r, id, syndicate.StatusDraft, syndicate.EventFacilityDeleted)
}

func (m *Manager) syndicate(ctx context.Context, r uow.Repos, id uint64, target syndicate.Status, ev syndicate.Event) (bool, error) {
	s, err := r.Syndicates.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return move(m.exec, syndicate.Machine, id, s.Status, target, ev, func(next syndicate.Status) error {
		s.Status = next
		return r.Syndicates.Save(ctx, s)
	})
}

// FacilityToFixed locks the facility. Unlike every other transition a
// repeat is an error: a facility takes exactly one drawdown.
func (m *Manager) FacilityToFixed(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	f, err := r.Facilities.FindByIDForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	if f.Status == facility.StatusFixed {
		return false, apperr.Rule("facility %d is already fixed: second drawdown forbidden", id)
	}
	return m.facility(ctx, r, f, facility.StatusFixed, facility.EventDrawdownExecuted)
}

func (m *Manager) FacilityToDraft(ctx context.Context, r uow.Repos, id uint64) (bool, error) {
	f, err := r.Facilities.FindByIDForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	return m.facility(ctx, r, f, facility.StatusDraft, facility.EventRevertToDraft)
}

// facility surfaces machine rejections as rule violations.
func (m *Manager) facility(ctx context.Context, r uow.Repos, f *facility.Facility, target facility.Status, ev facility.Event) (bool, error) {
	changed, err := move(m.exec, facility.Machine, f.ID, f.Status, target, ev, func(next facility.Status) error {
		f.Status = next
		return r.Facilities.Save(ctx, f)
	})
	var te *apperr.TransitionError
	if errors.As(err, &te) {
		return false, apperr.Rule("%s", te.Error())
	}
	return changed, err
}
