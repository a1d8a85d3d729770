// Package harness wires the lifecycle machinery over an in-memory database
// for service tests.
package harness

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"syndicated-loan-service/internal/adapter/repository/mysql"
	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/observability"
	"syndicated-loan-service/internal/testutil/sqlitedb"
	"syndicated-loan-service/internal/usecase/lifecycle"
)

type Harness struct {
	DB         *gorm.DB
	UoW        *mysql.GormUoW
	Executor   *lifecycle.Executor
	Manager    *lifecycle.Manager
	Dispatcher *lifecycle.Dispatcher
	Metrics    *observability.Metrics
	Notifier   *Recorder
	Log        zerolog.Logger
}

func New(t testing.TB) *Harness {
	t.Helper()
	db := sqlitedb.Open(t, mysql.Models()...)
	log := zerolog.New(io.Discard)
	m := observability.NewMetrics(prometheus.NewRegistry())
	x := lifecycle.NewExecutor(log, m)
	mgr := lifecycle.NewManager(x)
	d := lifecycle.NewDispatcher(log, m)
	lifecycle.NewHandlers(mgr, log).Register(d)
	return &Harness{
		DB:         db,
		UoW:        mysql.NewGormUoW(db),
		Executor:   x,
		Manager:    mgr,
		Dispatcher: d,
		Metrics:    m,
		Notifier:   &Recorder{},
		Log:        log,
	}
}

// Recorder is an event.Notifier that keeps what it was sent.
type Recorder struct {
	mu     sync.Mutex
	Err    error
	events []event.Event
}

func (r *Recorder) Notify(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Names() []event.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Name, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name())
	}
	return out
}
