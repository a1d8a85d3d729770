package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", NotFound("facility", 7), ErrNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("loan", 1)), ErrNotFound},
		{"rule", Rule("second drawdown forbidden for facility %d", 3), ErrBusinessRule},
		{"transition", &TransitionError{Entity: "investor", ID: 2, From: "COMPLETED", Event: "FACILITY_PARTICIPATION"}, ErrStateTransition},
		{"conflict", Conflict("borrower", 9), ErrConcurrentUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.want)
			}
		})
	}
}

func TestTransitionErrorKeepsCause(t *testing.T) {
	cause := errors.New("rejected")
	err := &TransitionError{Entity: "syndicate", ID: 4, From: "ACTIVE", Event: "FACILITY_CREATED", Err: cause}
	if !errors.Is(err, cause) || !errors.Is(err, ErrStateTransition) {
		t.Fatalf("unexpected unwrap chain: %v", err)
	}
	if !strings.Contains(err.Error(), "syndicate 4") {
		t.Fatalf("message lacks entity tag: %q", err.Error())
	}
	var te *TransitionError
	if !errors.As(fmt.Errorf("cascade: %w", err), &te) || te.ID != 4 {
		t.Fatalf("errors.As failed: %+v", te)
	}
}

func TestRuleViolationMessage(t *testing.T) {
	err := Rule("allocation sum %s does not match %s", "10.00", "11.00")
	if err.Error() != "allocation sum 10.00 does not match 11.00" {
		t.Fatalf("got %q", err.Error())
	}
}
