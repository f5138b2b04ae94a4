package preferences

import (
	"time"

	"github.com/google/uuid"
)

// Preference holds per-user display settings for the dashboard and
// kiosk screens.
type Preference struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:uq_preference_user"`
	TimeFormat string    `gorm:"column:time_format;type:varchar(8);not null;default:'12h'"`
	DateFormat string    `gorm:"column:date_format;type:varchar(16);not null;default:'MM/DD/YYYY'"`
	Timezone   string    `gorm:"column:timezone;type:varchar(64);not null;default:'UTC'"`
	ColorMode  string    `gorm:"column:color_mode;type:varchar(8);not null;default:'light'"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Preference) TableName() string {
	return "user_preferences"
}
