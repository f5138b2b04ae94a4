package session

import (
	"time"

	"github.com/google/uuid"
)

// ActiveSession is an open clock-in. The unique index on employee_pin
// backs the at-most-one-open-session invariant at the storage layer.
type ActiveSession struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeePin string    `gorm:"column:employee_pin;type:varchar(16);not null;uniqueIndex"`
	ClockIn     time.Time `gorm:"column:clock_in;type:timestamptz;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (ActiveSession) TableName() string {
	return "active_sessions"
}

// Session is a completed clock-in/clock-out pair. Immutable except via
// the explicit edit operation, which recomputes DurationMS.
type Session struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeePin string    `gorm:"column:employee_pin;type:varchar(16);not null;index"`
	ClockIn     time.Time `gorm:"column:clock_in;type:timestamptz;not null;index"`
	ClockOut    time.Time `gorm:"column:clock_out;type:timestamptz;not null"`
	DurationMS  int64     `gorm:"column:duration_ms;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
