package ratehistory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateEntry is one hourly-rate change for an employee. Entries are
// append-only except for the retroactive rewrite, which replaces the
// whole history with a single epoch-dated entry.
type RateEntry struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	EmployeePin   string          `gorm:"column:employee_pin;type:varchar(16);not null;index"`
	Rate          decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null"`
	EffectiveFrom time.Time       `gorm:"column:effective_from;type:timestamptz;not null;index"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (RateEntry) TableName() string {
	return "rate_history"
}
