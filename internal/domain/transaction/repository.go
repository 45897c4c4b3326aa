package transaction

import "context"

// Repository is append-only: records can be created and read, never changed.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	ListByLoanID(ctx context.Context, loanID string) ([]Transaction, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]Transaction, error)
}
