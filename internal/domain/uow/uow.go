package uow

import (
	"context"

	"microlend/internal/domain/customer"
	"microlend/internal/domain/loan"
	"microlend/internal/domain/transaction"
)

// Repos bundles the repositories bound to a single transaction.
type Repos struct {
	Applications loan.Repository
	Transactions transaction.Repository
	Customers    customer.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the application row first, then passes it in.
	// The decide and repay paths both go through here so every balance or
	// state mutation holds the same per-loan exclusion.
	WithinLoanTx(ctx context.Context, applicationID string, fn func(r Repos, a *loan.Application) error) error
}
