package events

import "time"

// EmployeeLifecycleTopic carries directory-changed notifications so the
// dashboard and timesheet views know to refresh.
const EmployeeLifecycleTopic = "shiftsync.employee.lifecycle.v1"

const (
	EmployeeAdded   = "employee_added"
	EmployeeUpdated = "employee_updated"
	EmployeeDeleted = "employee_deleted"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Pin        string    `json:"pin"`
	OldPin     string    `json:"old_pin,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
