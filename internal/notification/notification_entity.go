package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-employee inbox entry created from domain events.
// (RefID, Kind) is unique so event redelivery cannot duplicate entries.
type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_employee"`
	Kind       string    `gorm:"type:varchar(40);not null;uniqueIndex:uq_notifications_ref_kind"`
	RefID      string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_notifications_ref_kind"`
	Message    string    `gorm:"type:text;not null"`
	ReadAt     *time.Time
	CreatedAt  time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
