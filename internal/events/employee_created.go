package events

import "time"

const EmployeeCreatedTopic = "workforce.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
