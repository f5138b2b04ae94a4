package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is a directory entry. The PIN is the business key used by
// kiosks and by session records; the uuid id only identifies the row.
// CurrentHourlyRate caches the newest rate-history entry — the history
// table stays the authoritative source.
type Employee struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Pin               string          `gorm:"column:pin;type:varchar(16);not null;uniqueIndex:uq_employee_pin"`
	Name              string          `gorm:"column:name;type:varchar(120);not null"`
	Role              string          `gorm:"column:role;type:varchar(60);not null;default:''"`
	CurrentHourlyRate decimal.Decimal `gorm:"column:current_hourly_rate;type:numeric(12,2);not null"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
