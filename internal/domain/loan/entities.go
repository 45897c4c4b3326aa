package loan

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
	StateClosed   State = "closed"
)

var (
	ErrNotFound        = errors.New("application not found")
	ErrAlreadyDecided  = errors.New("application already decided")
	ErrInvalidState    = errors.New("operation not valid for application state")
	ErrNotOwner        = errors.New("actor does not own this loan")
	ErrValidation      = errors.New("invalid input")
	ErrVersionConflict = errors.New("application was modified concurrently")
)

// transitions is the full reachable state machine. Anything not listed here
// is rejected, which replaces scattered per-call state checks.
var transitions = map[State][]State{
	StatePending:  {StateApproved, StateRejected},
	StateApproved: {StateClosed},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) Valid() bool {
	switch s {
	case StatePending, StateApproved, StateRejected, StateClosed:
		return true
	}
	return false
}

// ScheduleSumTolerance is the allowed drift between the sum of schedule
// amounts and the approved amount. Money is stored as decimal(18,2) floats,
// so exact equality is not meaningful.
const ScheduleSumTolerance = 0.01

type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	ScheduleSettled ScheduleStatus = "settled"
)

type ScheduleEntry struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID uint64         `gorm:"column:application_id;not null;index:idx_schedule_application" json:"-"`
	DueDate       time.Time      `gorm:"column:due_date;not null" json:"dueDate"`
	Amount        float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status        ScheduleStatus `gorm:"column:status;size:16;default:'pending'" json:"status"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (ScheduleEntry) TableName() string { return "repayment_schedule_entries" }

// Application is a client's loan request across its whole lifecycle: the
// requested terms from submission, review metadata once decided, and the
// running ledger fields while approved.
type Application struct {
	ID             uint64   `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID  string   `gorm:"column:application_id;size:32;uniqueIndex:ux_applications_public_id" json:"applicationId"`
	BorrowerID     string   `gorm:"column:borrower_id;size:32;index:idx_applications_borrower" json:"borrowerId"`
	Amount         float64  `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	DurationMonths int      `gorm:"column:duration_months" json:"durationMonths"`
	Purpose        string   `gorm:"column:purpose;type:text" json:"purpose"`
	Documents      []string `gorm:"column:documents;serializer:json" json:"documents,omitempty"`

	State State `gorm:"column:state;size:16;default:'pending';index:idx_applications_state" json:"state"`

	ReviewerID  string     `gorm:"column:reviewer_id;size:32" json:"reviewerId,omitempty"`
	ReviewNotes string     `gorm:"column:review_notes;type:text" json:"reviewNotes,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`

	ApprovedAmount  float64         `gorm:"column:approved_amount;type:decimal(18,2)" json:"approvedAmount,omitempty"`
	Schedule        []ScheduleEntry `gorm:"foreignKey:ApplicationID;references:ID" json:"repaymentSchedule,omitempty"`
	Balance         float64         `gorm:"column:balance;type:decimal(18,2)" json:"balance"`
	TotalPaid       float64         `gorm:"column:total_paid;type:decimal(18,2)" json:"totalPaid"`
	LastPaymentDate *time.Time      `gorm:"column:last_payment_date" json:"lastPaymentDate,omitempty"`
	NextPaymentDue  *time.Time      `gorm:"column:next_payment_due" json:"nextPaymentDue,omitempty"`
	IsFullyPaid     bool            `gorm:"column:is_fully_paid" json:"isFullyPaid"`

	// Version backs the compare-and-write primitive; every committed
	// mutation increments it.
	Version uint64 `gorm:"column:version;default:0" json:"-"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Application) TableName() string { return "loan_applications" }

// DeriveState is the single place deciding whether a balance mutation closes
// the loan. Every mutator must call it rather than re-deriving inline.
func DeriveState(balance float64, current State) State {
	if current == StateApproved && balance <= 0 {
		return StateClosed
	}
	return current
}

// ApplyPayment decrements the balance, updates the aggregate paid fields and
// re-derives the state. Caller has already validated amount and ownership.
func (a *Application) ApplyPayment(amount float64, now time.Time) {
	a.Balance = round2(a.Balance - amount)
	a.TotalPaid = round2(a.TotalPaid + amount)
	paidAt := now
	a.LastPaymentDate = &paidAt
	next := now.AddDate(0, 1, 0)
	a.NextPaymentDue = &next
	a.State = DeriveState(a.Balance, a.State)
	if a.State == StateClosed {
		a.IsFullyPaid = true
	}
}

// ValidateSchedule checks a proposed repayment schedule against the approved
// amount: non-empty, strictly positive amounts, due dates present and not in
// the past, and a total within ScheduleSumTolerance of the target.
func ValidateSchedule(entries []ScheduleEntry, approvedAmount float64, now time.Time) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: repayment schedule must not be empty", ErrValidation)
	}
	var total float64
	for i, e := range entries {
		if e.Amount <= 0 {
			return fmt.Errorf("%w: schedule entry %d amount must be positive, got %.2f", ErrValidation, i, e.Amount)
		}
		if e.DueDate.IsZero() {
			return fmt.Errorf("%w: schedule entry %d is missing a due date", ErrValidation, i)
		}
		if e.DueDate.Before(now) {
			return fmt.Errorf("%w: schedule entry %d due date %s is in the past", ErrValidation, i, e.DueDate.Format(time.RFC3339))
		}
		total += e.Amount
	}
	if math.Abs(total-approvedAmount) > ScheduleSumTolerance {
		return fmt.Errorf("%w: schedule total %.2f does not match approved amount %.2f", ErrValidation, total, approvedAmount)
	}
	return nil
}

// EarliestDue returns the earliest due date in the schedule. Entries arrive
// ordered from the caller but this does not rely on it.
func EarliestDue(entries []ScheduleEntry) time.Time {
	earliest := entries[0].DueDate
	for _, e := range entries[1:] {
		if e.DueDate.Before(earliest) {
			earliest = e.DueDate
		}
	}
	return earliest
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
