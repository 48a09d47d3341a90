package scheduling

import "fmt"

// ===============================
// Error taxonomy
// ===============================

type CapacityScope string

const (
	ScopeDay       CapacityScope = "day"
	ScopeTimeBlock CapacityScope = "time-block"
)

// CapacityExceededError carries the configured limit so callers can render
// a precise message.
type CapacityExceededError struct {
	Scope        CapacityScope
	Limit        int
	BlockMinutes int
}

func (e CapacityExceededError) Error() string {
	if e.Scope == ScopeDay {
		return fmt.Sprintf("daily appointment limit reached (%d appointments)", e.Limit)
	}
	return fmt.Sprintf("time block is fully booked (%d appointments per %d-minute block)", e.Limit, e.BlockMinutes)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError is a fatal precondition, not user-recoverable.
type ConfigurationError struct {
	Missing string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Missing)
}

type StateError struct {
	Status Status
	Action string
}

func (e StateError) Error() string {
	return fmt.Sprintf("cannot %s appointment in status %q", e.Action, e.Status)
}

type AuthorizationError struct {
	Reason string
}

func (e AuthorizationError) Error() string {
	return e.Reason
}
