package uowmock

import (
	"context"

	"microlend/internal/domain/loan"
	"microlend/internal/domain/uow"
)

// UoW is a function-backed UnitOfWork; tests wire the closures to whatever
// repos they need.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *loan.Application) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(uow.Repos{})
}

func (m *UoW) WithinLoanTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *loan.Application) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, applicationID, fn)
	}
	return loan.ErrNotFound
}
