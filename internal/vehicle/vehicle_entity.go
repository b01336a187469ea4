package vehicle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Plate     string         `gorm:"uniqueIndex:uq_vehicles_plate"`
	Label     string         `gorm:"not null"`
	Active    bool           `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

type VehicleBooking struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	VehicleID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProjectID     *uuid.UUID `gorm:"type:uuid"`
	StartsAt      time.Time  `gorm:"type:timestamptz;not null"`
	EndsAt        time.Time  `gorm:"type:timestamptz;not null"`
	OdometerStart *int
	OdometerEnd   *int
	Notes         *string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (VehicleBooking) TableName() string {
	return "vehicle_bookings"
}
