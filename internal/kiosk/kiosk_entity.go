package kiosk

import (
	"time"

	"github.com/google/uuid"
)

// Kiosk is a registered punch terminal. KioskID is the short code shown
// on the device and sent with every punch in the X-Kiosk-ID header.
type Kiosk struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	KioskID   string    `gorm:"column:kiosk_id;type:varchar(12);not null;uniqueIndex:uq_kiosk_kiosk_id"`
	Name      string    `gorm:"column:name;type:varchar(120);not null"`
	Location  string    `gorm:"column:location;type:varchar(200)"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Kiosk) TableName() string {
	return "kiosks"
}
