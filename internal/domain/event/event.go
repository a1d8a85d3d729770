// Package event holds the domain events raised by the orchestrating services.
// Events carry identifiers and a timestamp only; handlers reload whatever
// state they need.
package event

import (
	"context"
	"time"

	"syndicated-loan-service/internal/domain/uow"
)

type Name string

const (
	NameFacilityCreated  Name = "facility.created"
	NameFacilityDeleted  Name = "facility.deleted"
	NameDrawdownCreated  Name = "drawdown.created"
	NameDrawdownDeleted  Name = "drawdown.deleted"
	NamePaymentCreated   Name = "payment.created"
	NamePaymentCancelled Name = "payment.cancelled"
)

type Event interface {
	Name() Name
	OccurredAt() time.Time
}

type FacilityCreated struct {
	FacilityID  uint64    `json:"facility_id"`
	SyndicateID uint64    `json:"syndicate_id"`
	At          time.Time `json:"occurred_at"`
}

func (FacilityCreated) Name() Name              { return NameFacilityCreated }
func (e FacilityCreated) OccurredAt() time.Time { return e.At }

// FacilityDeleted is raised after the row is gone, so it carries every id
// the cascade needs.
type FacilityDeleted struct {
	FacilityID  uint64    `json:"facility_id"`
	SyndicateID uint64    `json:"syndicate_id"`
	BorrowerID  uint64    `json:"borrower_id"`
	InvestorIDs []uint64  `json:"investor_ids"`
	At          time.Time `json:"occurred_at"`
}

func (FacilityDeleted) Name() Name              { return NameFacilityDeleted }
func (e FacilityDeleted) OccurredAt() time.Time { return e.At }

type DrawdownCreated struct {
	DrawdownID uint64    `json:"drawdown_id"`
	FacilityID uint64    `json:"facility_id"`
	LoanID     uint64    `json:"loan_id"`
	At         time.Time `json:"occurred_at"`
}

func (DrawdownCreated) Name() Name              { return NameDrawdownCreated }
func (e DrawdownCreated) OccurredAt() time.Time { return e.At }

type DrawdownDeleted struct {
	DrawdownID uint64    `json:"drawdown_id"`
	FacilityID uint64    `json:"facility_id"`
	At         time.Time `json:"occurred_at"`
}

func (DrawdownDeleted) Name() Name              { return NameDrawdownDeleted }
func (e DrawdownDeleted) OccurredAt() time.Time { return e.At }

type PaymentCreated struct {
	PaymentID uint64    `json:"payment_id"`
	LoanID    uint64    `json:"loan_id"`
	At        time.Time `json:"occurred_at"`
}

func (PaymentCreated) Name() Name              { return NamePaymentCreated }
func (e PaymentCreated) OccurredAt() time.Time { return e.At }

type PaymentCancelled struct {
	PaymentID uint64    `json:"payment_id"`
	LoanID    uint64    `json:"loan_id"`
	At        time.Time `json:"occurred_at"`
}

func (PaymentCancelled) Name() Name              { return NamePaymentCancelled }
func (e PaymentCancelled) OccurredAt() time.Time { return e.At }

// Notifier forwards committed events to the outside world. Failures are
// reported but never undo the committed work.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }

// Publisher delivers an event to its handlers inside the caller's
// transaction; a handler error must abort that transaction.
type Publisher interface {
	Publish(ctx context.Context, r uow.Repos, e Event) error
}
