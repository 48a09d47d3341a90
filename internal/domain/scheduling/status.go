package scheduling

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

func InitialStatus() Status {
	return StatusPending
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func IsValidPriority(p Priority) bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// IsTerminal reports whether the appointment lifecycle has ended.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether the appointment counts against capacity.
// Cancelled and no-show appointments release their block and day.
func IsActive(s Status) bool {
	return s != StatusCancelled && s != StatusNoShow
}

// ===============================
// Validations
// ===============================

// CanCustomerModify guards the customer-facing reschedule/cancel paths.
func CanCustomerModify(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return StateError{Status: current, Action: "modify"}
	}
	return nil
}

// CanAssign refuses assignment once the lifecycle has ended.
func CanAssign(current Status) error {
	if IsTerminal(current) {
		return StateError{Status: current, Action: "assign"}
	}
	return nil
}

// CanDelete allows removal only before work has started.
func CanDelete(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return StateError{Status: current, Action: "delete"}
	}
	return nil
}
