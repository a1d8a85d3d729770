package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/observability"
)

// Handler reacts to an event inside the publishing transaction.
type Handler func(ctx context.Context, r uow.Repos, e event.Event) error

// Dispatcher calls handlers synchronously in subscription order and stops
// at the first error so the caller's transaction rolls back.
type Dispatcher struct {
	handlers map[event.Name][]Handler
	log      zerolog.Logger
	metrics  *observability.Metrics
}

func NewDispatcher(log zerolog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[event.Name][]Handler),
		log:      log,
		metrics:  metrics,
	}
}

// Subscribe is not safe to call once the dispatcher is serving traffic.
func (d *Dispatcher) Subscribe(name event.Name, h Handler) {
	d.handlers[name] = append(d.handlers[name], h)
}

func (d *Dispatcher) Publish(ctx context.Context, r uow.Repos, e event.Event) error {
	if d.metrics != nil {
		d.metrics.EventsDispatched.WithLabelValues(string(e.Name())).Inc()
	}
	for i, h := range d.handlers[e.Name()] {
		if err := h(ctx, r, e); err != nil {
			d.log.Warn().Err(err).Str("event", string(e.Name())).Int("handler", i).Msg("event handler failed")
			return fmt.Errorf("handle %s: %w", e.Name(), err)
		}
	}
	return nil
}
