package leave

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest is a vacation request over a date range. WorkingDays is
// snapshotted at creation and never recomputed, even if the holiday
// calendar changes afterwards.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType   string    `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	WorkingDays int       `gorm:"type:int;not null"`
	Reason      string    `gorm:"type:text"`

	Status       string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   *time.Time
	AdminComment *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveBalance is the per-employee, per-year allowance ledger. A missing
// row for the current year means the default allotment with zero usage;
// prior-year rows are never carried over.
type LeaveBalance struct {
	EmployeeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year       int       `gorm:"primaryKey"`
	TotalDays  int       `gorm:"type:int;not null"`
	UsedDays   int       `gorm:"type:int;not null;default:0"`
	UpdatedAt  time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
