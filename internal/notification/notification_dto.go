package notification

type CreateNotificationRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Kind       string `json:"kind" binding:"required"`
	RefID      string `json:"ref_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

type NotificationResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Kind       string  `json:"kind"`
	RefID      string  `json:"ref_id"`
	Message    string  `json:"message"`
	ReadAt     *string `json:"read_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
