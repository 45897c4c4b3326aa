package txmock

import (
	"context"

	domain "microlend/internal/domain/transaction"
)

type Repo struct {
	CreateFn         func(ctx context.Context, t *domain.Transaction) error
	GetByReferenceFn func(ctx context.Context, reference string) (*domain.Transaction, error)
	ListByLoanIDFn   func(ctx context.Context, loanID string) ([]domain.Transaction, error)
	ListByOwnerIDFn  func(ctx context.Context, ownerID string) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if m.GetByReferenceFn != nil {
		return m.GetByReferenceFn(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Transaction, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	if m.ListByOwnerIDFn != nil {
		return m.ListByOwnerIDFn(ctx, ownerID)
	}
	return nil, nil
}
