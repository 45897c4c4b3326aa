package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainLoan "microlend/internal/domain/loan"
	"microlend/pkg/id"
)

type Usecase struct{ repo domainLoan.Repository }

func NewUsecase(r domainLoan.Repository) *Usecase { return &Usecase{repo: r} }

type SubmitInput struct {
	BorrowerID     string   `json:"borrowerId"`
	Amount         float64  `json:"amount"`
	DurationMonths int      `json:"durationMonths"`
	Purpose        string   `json:"purpose"`
	Documents      []string `json:"documents"`
}

// Submit creates a new application in state pending. A borrower with an
// application still under review cannot file another one.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*domainLoan.Application, error) {
	if in.BorrowerID == "" {
		return nil, fmt.Errorf("%w: borrower id is required", domainLoan.ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", domainLoan.ErrValidation, in.Amount)
	}
	if in.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least one month", domainLoan.ErrValidation)
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", domainLoan.ErrValidation)
	}

	pending, err := u.repo.GetPendingByBorrowerID(ctx, in.BorrowerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: borrower already has pending application %s",
			domainLoan.ErrInvalidState, pending.ApplicationID)
	case !errors.Is(err, domainLoan.ErrNotFound):
		return nil, err
	}

	a := &domainLoan.Application{
		ApplicationID:  id.NewID32(),
		BorrowerID:     in.BorrowerID,
		Amount:         in.Amount,
		DurationMonths: in.DurationMonths,
		Purpose:        in.Purpose,
		Documents:      in.Documents,
		State:          domainLoan.StatePending,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*domainLoan.Application, error) {
	return u.repo.GetByApplicationID(ctx, applicationID)
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]domainLoan.Application, error) {
	return u.repo.ListByBorrowerID(ctx, borrowerID)
}

// List returns one page of applications plus pagination metadata.
func (u *Usecase) List(ctx context.Context, f domainLoan.Filter) ([]domainLoan.Application, domainLoan.Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.State != "" && !f.State.Valid() {
		return nil, domainLoan.Page{}, fmt.Errorf("%w: unknown state %q", domainLoan.ErrValidation, f.State)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domainLoan.Page{}, fmt.Errorf("%w: date range end %s precedes start %s",
			domainLoan.ErrValidation, f.To.Format(time.RFC3339), f.From.Format(time.RFC3339))
	}
	return u.repo.List(ctx, f)
}
