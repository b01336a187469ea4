package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName         string    `gorm:"not null"`
	Email            string    `gorm:"uniqueIndex:uq_employees_email"`
	EmployeeNumber   string    `gorm:"uniqueIndex:uq_employees_number"`
	Phone            string
	Role             string `gorm:"not null;default:'EMPLOYEE'"`
	HireDate         time.Time
	EmploymentStatus string `gorm:"not null;default:'ACTIVE'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Employee) TableName() string {
	return "employees"
}
