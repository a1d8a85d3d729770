// Package messaging fans committed domain events out to NATS subscribers.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/observability"
)

// msgPublisher is the slice of *nats.Conn the notifier needs.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

type envelope struct {
	ID         string      `json:"id"`
	Name       event.Name  `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    event.Event `json:"payload"`
}

// Notifier publishes each event on <prefix>.<event name>. The message id
// header lets a JetStream stream drop redeliveries.
type Notifier struct {
	conn    msgPublisher
	prefix  string
	metrics *observability.Metrics
}

func NewNotifier(conn msgPublisher, prefix string, metrics *observability.Metrics) *Notifier {
	return &Notifier{conn: conn, prefix: prefix, metrics: metrics}
}

func (n *Notifier) Subject(name event.Name) string {
	if n.prefix == "" {
		return string(name)
	}
	return n.prefix + "." + string(name)
}

func (n *Notifier) Notify(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := envelope{ID: uuid.NewString(), Name: e.Name(), OccurredAt: e.OccurredAt(), Payload: e}
	data, err := json.Marshal(env)
	if err != nil {
		return n.fail(e.Name(), fmt.Errorf("marshal %s: %w", e.Name(), err))
	}
	msg := nats.NewMsg(n.Subject(e.Name()))
	msg.Header.Set(nats.MsgIdHdr, env.ID)
	msg.Data = data
	if err := n.conn.PublishMsg(msg); err != nil {
		return n.fail(e.Name(), fmt.Errorf("publish %s: %w", msg.Subject, err))
	}
	return nil
}

func (n *Notifier) fail(name event.Name, err error) error {
	if n.metrics != nil {
		n.metrics.NotifyFailures.WithLabelValues(string(name)).Inc()
	}
	return err
}

// Connect dials NATS with reconnects enabled.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}
