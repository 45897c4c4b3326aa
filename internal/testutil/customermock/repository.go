package customermock

import (
	"context"

	domain "microlend/internal/domain/customer"
)

type Repo struct {
	CreateFn                   func(ctx context.Context, c *domain.Customer) error
	GetByCustomerIDFn          func(ctx context.Context, customerID string) (*domain.Customer, error)
	GetByCustomerIDForUpdateFn func(ctx context.Context, customerID string) (*domain.Customer, error)
	SaveFn                     func(ctx context.Context, c *domain.Customer) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDFn != nil {
		return m.GetByCustomerIDFn(ctx, customerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDForUpdateFn != nil {
		return m.GetByCustomerIDForUpdateFn(ctx, customerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, c *domain.Customer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}
