package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "microlend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Omit("Schedule").Create(a).Error
}

func (r *LoanRepository) Save(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Omit("Schedule").Save(a).Error
}

// SaveIfVersionMatches is the compare-and-write primitive shared by the
// decision and repayment paths. The row is updated only while its version
// column still holds the value the caller read; zero affected rows means a
// concurrent writer got there first.
func (r *LoanRepository) SaveIfVersionMatches(ctx context.Context, a *loanDomain.Application) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"state":             a.State,
			"reviewer_id":       a.ReviewerID,
			"review_notes":      a.ReviewNotes,
			"reviewed_at":       a.ReviewedAt,
			"approved_amount":   a.ApprovedAmount,
			"balance":           a.Balance,
			"total_paid":        a.TotalPaid,
			"last_payment_date": a.LastPaymentDate,
			"next_payment_due":  a.NextPaymentDue,
			"is_fully_paid":     a.IsFullyPaid,
			"version":           a.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrVersionConflict
	}
	a.Version++
	return nil
}

func (r *LoanRepository) GetByApplicationID(ctx context.Context, applicationID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("due_date ASC") }).
		Where("application_id = ?", applicationID).
		First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*loanDomain.Application, error) {
	q := r.db.WithContext(ctx)
	// sqlite (tests) has no FOR UPDATE; its transactions already serialize writers.
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Application
	res := q.Where("application_id = ?", applicationID).First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND state = ?", borrowerID, loanDomain.StatePending).
		Order("created_at DESC, id DESC").
		First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Application, error) {
	var out []loanDomain.Application
	err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// List applies the filter, counts the full match set and returns one page,
// newest first. The owner-name filter joins the customers table.
func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Application, loanDomain.Page, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Application{})
	if f.State != "" {
		q = q.Where("loan_applications.state = ?", f.State)
	}
	if f.From != nil {
		q = q.Where("loan_applications.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("loan_applications.created_at <= ?", *f.To)
	}
	if f.OwnerName != "" {
		q = q.Joins("JOIN customers ON customers.customer_id = loan_applications.borrower_id").
			Where("customers.full_name LIKE ?", "%"+f.OwnerName+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, loanDomain.Page{}, err
	}

	var out []loanDomain.Application
	err := q.Order("loan_applications.created_at DESC, loan_applications.id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, loanDomain.Page{}, err
	}

	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	page := loanDomain.Page{
		CurrentPage: f.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       f.Limit,
	}
	return out, page, nil
}

func (r *LoanRepository) CreateScheduleEntries(ctx context.Context, entries []loanDomain.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func translateNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
