// Package apperr holds the error taxonomy shared by every domain package:
// missing resources, business rule violations, rejected state transitions
// and optimistic-lock conflicts.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrBusinessRule     = errors.New("business rule violation")
	ErrStateTransition  = errors.New("state transition failure")
	ErrConcurrentUpdate = errors.New("concurrent update")
)

// NotFoundError reports an entity id that does not resolve.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func NotFound(resource string, id uint64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// RuleViolation carries a human readable reason for the caller.
type RuleViolation struct {
	Reason string
}

func Rule(format string, args ...any) error {
	return &RuleViolation{Reason: fmt.Sprintf(format, args...)}
}

func (e *RuleViolation) Error() string { return e.Reason }

func (e *RuleViolation) Unwrap() error { return ErrBusinessRule }

// TransitionError is fatal: a manager only fires an event after its own
// checks passed, so a rejection here means status and machine disagree.
type TransitionError struct {
	Entity string
	ID     uint64
	From   string
	Event  string
	Err    error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %d: transition %s from %q failed", e.Entity, e.ID, e.Event, e.From)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStateTransition}
	}
	return []error{ErrStateTransition, e.Err}
}

// Conflict reports a stale write detected by the version column.
func Conflict(resource string, id uint64) error {
	return fmt.Errorf("%s %d was modified concurrently: %w", resource, id, ErrConcurrentUpdate)
}
