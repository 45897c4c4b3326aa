package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByCustomerID(ctx context.Context, customerID string) (*Customer, error)
	// GetByCustomerIDForUpdate locks the row for the surrounding transaction.
	GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
