// Package lifecycle holds the status state machines for orders, mechanic
// bookings and logistics bookings.
//
// The machines are pure: Apply validates a requested edge and returns a
// Transition value. Callers persist the new status and then hand the same
// Transition to the tracking timeline and the notification mapping, which
// accept nothing else.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

type Kind string

const (
	KindOrder            Kind = "ORDER"
	KindMechanicBooking  Kind = "MECHANIC_BOOKING"
	KindLogisticsBooking Kind = "LOGISTICS_BOOKING"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrTerminalState     = errors.New("terminal state")
	ErrUnknownKind       = errors.New("unknown subject kind")
)

type machine struct {
	statuses map[Status]struct{}
	edges    map[Status][]Status
	terminal map[Status]struct{}
}

var orderMachine = newMachine(
	map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered},
	},
	StatusDelivered, StatusCancelled,
)

var bookingMachine = newMachine(
	map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted},
	},
	StatusCompleted, StatusCancelled,
)

var machines = map[Kind]*machine{
	KindOrder:            orderMachine,
	KindMechanicBooking:  bookingMachine,
	KindLogisticsBooking: bookingMachine,
}

func newMachine(edges map[Status][]Status, terminal ...Status) *machine {
	m := &machine{
		statuses: make(map[Status]struct{}),
		edges:    edges,
		terminal: make(map[Status]struct{}, len(terminal)),
	}
	for from, tos := range edges {
		m.statuses[from] = struct{}{}
		for _, to := range tos {
			m.statuses[to] = struct{}{}
		}
	}
	for _, s := range terminal {
		m.terminal[s] = struct{}{}
		m.statuses[s] = struct{}{}
	}
	return m
}

func (m *machine) allows(from, to Status) bool {
	for _, s := range m.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Subject identifies the order or booking a transition applies to.
type Subject struct {
	Kind Kind
	ID   string
}

// Transition is a validated status change. The zero value is not a valid
// transition; values are only produced by Apply.
type Transition struct {
	subject Subject
	from    Status
	to      Status
	at      time.Time
}

func (t Transition) Subject() Subject { return t.subject }
func (t Transition) From() Status     { return t.from }
func (t Transition) To() Status       { return t.to }

// At is the timestamp to record on the paired tracking event.
func (t Transition) At() time.Time { return t.at }

// Changed reports whether the transition moved the subject to a new status.
// A same-status request yields an unchanged transition.
func (t Transition) Changed() bool { return t.from != t.to }

type TransitionError struct {
	Subject Subject
	From    Status
	To      Status
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: %v from %s to %s", e.Subject.Kind, e.Subject.ID, e.Err, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// Apply validates moving subject from its current status to the requested one.
//
// Requesting the current status is accepted as a no-op even for terminal
// statuses, so duplicate requests do not fail.
func Apply(subject Subject, current, requested Status, at time.Time) (Transition, error) {
	m, ok := machines[subject.Kind]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownKind, subject.Kind)
	}

	fail := func(err error) (Transition, error) {
		return Transition{}, &TransitionError{Subject: subject, From: current, To: requested, Err: err}
	}

	if _, ok := m.statuses[current]; !ok {
		return fail(ErrInvalidTransition)
	}
	if _, ok := m.statuses[requested]; !ok {
		return fail(ErrInvalidTransition)
	}

	if current == requested {
		return Transition{subject: subject, from: current, to: current, at: at}, nil
	}
	if IsTerminal(subject.Kind, current) {
		return fail(ErrTerminalState)
	}
	if !m.allows(current, requested) {
		return fail(ErrInvalidTransition)
	}

	return Transition{subject: subject, from: current, to: requested, at: at}, nil
}

// IsTerminal reports whether status has no outgoing edges for kind.
func IsTerminal(kind Kind, status Status) bool {
	m, ok := machines[kind]
	if !ok {
		return false
	}
	_, ok = m.terminal[status]
	return ok
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindOrder, KindMechanicBooking, KindLogisticsBooking:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
