package events

import "time"

const PunchTopic = "shiftsync.timeclock.punch.v1"

const (
	PunchClockIn  = "clock_in"
	PunchClockOut = "clock_out"
)

// PunchEvent mirrors a completed punch for downstream consumers
// (payroll exports, dashboards).
type PunchEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	KioskID    string    `json:"kiosk_id,omitempty"`
	Pin        string    `json:"pin"`
	ClockIn    time.Time `json:"clock_in"`
	ClockOut   time.Time `json:"clock_out,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
