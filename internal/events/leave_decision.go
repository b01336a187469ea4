package events

import "time"

const LeaveDecisionTopic = "workforce.leave.decision.v1"

// LeaveDecisionEvent is published after an admin decision commits; the
// notification consumer turns it into an employee notification.
type LeaveDecisionEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     string    `json:"leave_id"`
	EmployeeID  string    `json:"employee_id"`
	Status      string    `json:"status"`
	WorkingDays int       `json:"working_days"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LeaveDecisionEventType maps a terminal status to its event type name.
func LeaveDecisionEventType(status string) string {
	if status == "APPROVED" {
		return "leave_approved"
	}
	return "leave_rejected"
}
