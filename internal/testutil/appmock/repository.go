// Package appmock provides a function-backed mock of the application
// repository. Only the methods a test sets are meaningful; unset getters
// fall back to the not-found sentinel.
package appmock

import (
	"context"

	domain "microlend/internal/domain/loan"
)

type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Application) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.Application, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.Application, error)
	GetPendingByBorrowerIDFn      func(ctx context.Context, borrowerID string) (*domain.Application, error)
	ListByBorrowerIDFn            func(ctx context.Context, borrowerID string) ([]domain.Application, error)
	ListFn                        func(ctx context.Context, f domain.Filter) ([]domain.Application, domain.Page, error)
	SaveFn                        func(ctx context.Context, a *domain.Application) error
	SaveIfVersionMatchesFn        func(ctx context.Context, a *domain.Application) error
	CreateScheduleEntriesFn       func(ctx context.Context, entries []domain.ScheduleEntry) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*domain.Application, error) {
	if m.GetPendingByBorrowerIDFn != nil {
		return m.GetPendingByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Application, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Application, domain.Page, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, domain.Page{}, nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) SaveIfVersionMatches(ctx context.Context, a *domain.Application) error {
	if m.SaveIfVersionMatchesFn != nil {
		return m.SaveIfVersionMatchesFn(ctx, a)
	}
	return nil
}

func (m *Repo) CreateScheduleEntries(ctx context.Context, entries []domain.ScheduleEntry) error {
	if m.CreateScheduleEntriesFn != nil {
		return m.CreateScheduleEntriesFn(ctx, entries)
	}
	return nil
}
