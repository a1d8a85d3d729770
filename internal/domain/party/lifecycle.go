package party

import "syndicated-loan-service/internal/domain/statemachine"

// Status is shared by borrowers and investors.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusRestricted Status = "RESTRICTED"
	StatusCompleted  Status = "COMPLETED"
)

type Event string

const (
	EventFacilityParticipation Event = "FACILITY_PARTICIPATION"
	EventFacilityDeleted       Event = "FACILITY_DELETED"
	EventComplete              Event = "COMPLETE"
)

// Machine: DRAFT <-> RESTRICTED, either -> COMPLETED (terminal).
var Machine = statemachine.New("party", []statemachine.Transition[Status, Event]{
	{From: StatusDraft, Event: EventFacilityParticipation, To: StatusRestricted},
	{From: StatusRestricted, Event: EventFacilityDeleted, To: StatusDraft},
	{From: StatusDraft, Event: EventComplete, To: StatusCompleted},
	{From: StatusRestricted, Event: EventComplete, To: StatusCompleted},
})
