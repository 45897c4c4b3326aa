package transaction

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("transaction not found")

type Kind string

const (
	KindRepayment  Kind = "repayment"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRepayment, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Transaction is an immutable record of money movement. Rows are written
// once and never updated or deleted; the repository exposes no mutators.
type Transaction struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Reference string    `gorm:"column:reference;size:64;uniqueIndex:ux_transactions_reference" json:"reference"`
	LoanID    string    `gorm:"column:loan_id;size:32;index:idx_transactions_loan" json:"loanId,omitempty"`
	OwnerID   string    `gorm:"column:owner_id;size:32;index:idx_transactions_owner" json:"ownerId"`
	Amount    float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Kind      Kind      `gorm:"column:kind;size:16" json:"kind"`
	Status    Status    `gorm:"column:status;size:16" json:"status"`
	Timestamp time.Time `gorm:"column:occurred_at" json:"timestamp"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
