package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone"`
	Role             string `json:"role" binding:"omitempty,oneof=EMPLOYEE FOREMAN ADMIN"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	EmployeeNumber   string `json:"employee_number" binding:"required"`
	Phone            string `json:"phone"`
	Role             string `json:"role" binding:"required,oneof=EMPLOYEE FOREMAN ADMIN"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"required,oneof=ACTIVE INACTIVE"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role"`
	HireDate         string `json:"hire_date"`
	EmploymentStatus string `json:"employment_status"`
}

// EmployeeOption is the trimmed shape for dropdowns and pickers.
type EmployeeOption struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	EmployeeNumber string `json:"employee_number"`
}
