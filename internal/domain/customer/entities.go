package customer

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("customer not found")
	ErrValidation = errors.New("invalid input")
)

// Customer carries the savings balance the scoring engine reads and the
// derived credit score state written back after every savings mutation.
type Customer struct {
	ID            uint64  `gorm:"primaryKey;column:id" json:"-"`
	CustomerID    string  `gorm:"column:customer_id;size:32;uniqueIndex:ux_customers_public_id" json:"customerId"`
	FullName      string  `gorm:"column:full_name;size:255;index:idx_customers_name" json:"fullName"`
	MonthlyIncome float64 `gorm:"column:monthly_income;type:decimal(18,2)" json:"monthlyIncome"`

	SavingsBalance float64 `gorm:"column:savings_balance;type:decimal(18,2)" json:"savingsBalance"`

	// Derived, never authored directly.
	CreditScore    int        `gorm:"column:credit_score" json:"creditScore"`
	ScoreUpdatedAt *time.Time `gorm:"column:score_updated_at" json:"scoreUpdatedAt,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Customer) TableName() string { return "customers" }
