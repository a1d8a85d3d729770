package lifecycle

import (
	"context"

	"github.com/rs/zerolog"

	"syndicated-loan-service/internal/domain/event"
)

// AfterCommit forwards committed events outbound. Delivery is best effort:
// a failure is logged and never reported to the caller.
func AfterCommit(ctx context.Context, n event.Notifier, log zerolog.Logger, events ...event.Event) {
	if n == nil {
		return
	}
	for _, e := range events {
		if err := n.Notify(ctx, e); err != nil {
			log.Warn().Err(err).Str("event", string(e.Name())).Msg("event notification dropped")
		}
	}
}
