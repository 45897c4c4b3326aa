package approval

import "time"

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type ScheduleInput struct {
	DueDate time.Time `json:"dueDate"`
	Amount  float64   `json:"amount"`
}

type DecideInput struct {
	ApplicationID  string
	ReviewerID     string
	Decision       Decision
	Notes          string
	ApprovedAmount float64
	Schedule       []ScheduleInput
}

// DecisionDTO is the updated application summary returned to the reviewer.
type DecisionDTO struct {
	ApplicationID  string     `json:"applicationId"`
	State          string     `json:"state"`
	ReviewerID     string     `json:"reviewerId"`
	ReviewedAt     time.Time  `json:"reviewedAt"`
	Notes          string     `json:"reviewNotes,omitempty"`
	ApprovedAmount float64    `json:"approvedAmount,omitempty"`
	Balance        float64    `json:"balance"`
	NextPaymentDue *time.Time `json:"nextPaymentDue,omitempty"`
}
