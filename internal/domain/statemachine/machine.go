// Package statemachine provides immutable transition tables.
//
// A Machine holds no current state: callers pass the entity's persisted
// status on every Fire, so one Machine value is safely shared by all
// goroutines.
package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrRejected     = errors.New("transition rejected")
	ErrUnknownState = errors.New("unknown state")
)

type Transition[S ~string, E ~string] struct {
	From  S
	Event E
	To    S
}

type Machine[S ~string, E ~string] struct {
	name   string
	states map[S]struct{}
	table  map[S]map[E]S
}

// New builds a machine from its transitions. Every state mentioned in a
// transition, plus any extra states (e.g. terminal ones), is known.
func New[S ~string, E ~string](name string, transitions []Transition[S, E], extra ...S) *Machine[S, E] {
	m := &Machine[S, E]{
		name:   name,
		states: make(map[S]struct{}),
		table:  make(map[S]map[E]S),
	}
	for _, t := range transitions {
		m.states[t.From] = struct{}{}
		m.states[t.To] = struct{}{}
		if m.table[t.From] == nil {
			m.table[t.From] = make(map[E]S)
		}
		if prev, dup := m.table[t.From][t.Event]; dup && prev != t.To {
			panic(fmt.Sprintf("statemachine %s: %s on %s is ambiguous", name, t.Event, t.From))
		}
		m.table[t.From][t.Event] = t.To
	}
	for _, s := range extra {
		m.states[s] = struct{}{}
	}
	return m
}

func (m *Machine[S, E]) Name() string { return m.name }

// Fire returns the state reached by ev from current.
func (m *Machine[S, E]) Fire(current S, ev E) (S, error) {
	if _, ok := m.states[current]; !ok {
		return current, fmt.Errorf("%s: %w %q", m.name, ErrUnknownState, current)
	}
	next, ok := m.table[current][ev]
	if !ok {
		return current, fmt.Errorf("%s: %w: %s from %s", m.name, ErrRejected, ev, current)
	}
	return next, nil
}

func (m *Machine[S, E]) Can(current S, ev E) bool {
	_, ok := m.table[current][ev]
	return ok
}

// Terminal reports whether s has no outgoing transitions.
func (m *Machine[S, E]) Terminal(s S) bool {
	_, known := m.states[s]
	return known && len(m.table[s]) == 0
}
