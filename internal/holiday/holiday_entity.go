package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday is an admin-managed public holiday date. Weekday exclusion in
// working-day counts applies regardless of this table; holidays only
// remove additional weekdays.
type Holiday struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(100);not null"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uq_holidays_date_region"`
	Region string    `gorm:"type:varchar(10);not null;default:'DE';uniqueIndex:uq_holidays_date_region"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}
