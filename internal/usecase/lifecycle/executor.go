// Package lifecycle drives entity status changes: the generic transition
// executor, the per-entity managers and the in-transaction event handlers
// that cascade one business event across several aggregates.
package lifecycle

import (
	"errors"

	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/statemachine"
	"syndicated-loan-service/internal/observability"
)

var errEmptyStatus = errors.New("entity has no status")

// Executor fires events on state machines and records the outcome.
type Executor struct {
	log     zerolog.Logger
	metrics *observability.Metrics
}

// NewExecutor accepts a nil metrics set.
func NewExecutor(log zerolog.Logger, metrics *observability.Metrics) *Executor {
	return &Executor{log: log, metrics: metrics}
}

// Execute fires ev on m from current. Any rejection is returned as an
// *apperr.TransitionError tagged with the machine name and id.
func Execute[S ~string, E ~string](x *Executor, m *statemachine.Machine[S, E], id uint64, current S, ev E) (S, error) {
	x.log.Debug().
		Str("entity", m.Name()).
		Uint64("id", id).
		Str("from", string(current)).
		Str("event", string(ev)).
		Msg("transition started")

	if current == "" {
		return current, x.failed(m.Name(), id, string(current), string(ev), errEmptyStatus)
	}
	next, err := m.Fire(current, ev)
	if err != nil {
		return current, x.failed(m.Name(), id, string(current), string(ev), err)
	}
	x.succeeded(m.Name(), id, string(current), string(ev), string(next))
	return next, nil
}

// ShouldTransition is false when the entity already sits at target.
func ShouldTransition[S ~string](current, target S) bool {
	return current != target
}

func (x *Executor) succeeded(entity string, id uint64, from, ev, to string) {
	x.log.Info().
		Str("entity", entity).
		Uint64("id", id).
		Str("from", from).
		Str("event", ev).
		Str("to", to).
		Msg("transition applied")
	if x.metrics != nil {
		x.metrics.Transitions.WithLabelValues(entity, from, to).Inc()
	}
}

func (x *Executor) failed(entity string, id uint64, from, ev string, cause error) error {
	x.log.Error().
		Err(cause).
		Str("entity", entity).
		Uint64("id", id).
		Str("from", from).
		Str("event", ev).
		Msg("transition failed")
	if x.metrics != nil {
		x.metrics.TransitionFailures.WithLabelValues(entity, ev).Inc()
	}
	return &apperr.TransitionError{Entity: entity, ID: id, From: from, Event: ev, Err: cause}
}

func (x *Executor) skipped(entity string, id uint64, status string) {
	x.log.Debug().
		Str("entity", entity).
		Uint64("id", id).
		Str("status", status).
		Msg("transition skipped")
	if x.metrics != nil {
		x.metrics.TransitionsSkipped.WithLabelValues(entity).Inc()
	}
}
