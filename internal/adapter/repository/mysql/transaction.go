package mysql

import (
	"context"

	"gorm.io/gorm"

	txDomain "microlend/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*txDomain.Transaction, error) {
	var out txDomain.Transaction
	res := r.db.WithContext(ctx).Where("reference = ?", reference).First(&out)
	if res.Error != nil {
		return nil, translateNotFound(res.Error, txDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *TransactionRepository) ListByLoanID(ctx context.Context, loanID string) ([]txDomain.Transaction, error) {
	var out []txDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("occurred_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]txDomain.Transaction, error) {
	var out []txDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("occurred_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
