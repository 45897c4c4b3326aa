package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerDomain "microlend/internal/domain/customer"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, customerDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *CustomerRepository) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out customerDomain.Customer
	res := q.Where("customer_id = ?", customerID).First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, customerDomain.ErrNotFound)
	}
	return &out, nil
}
