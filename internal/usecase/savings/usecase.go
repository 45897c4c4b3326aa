package savings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"microlend/internal/domain/credit"
	domainCustomer "microlend/internal/domain/customer"
	domainTx "microlend/internal/domain/transaction"
	"microlend/internal/domain/uow"
	"microlend/internal/emitter"
)

type Usecase struct {
	uow    uow.UnitOfWork
	emit   emitter.Emitter
	now    func() time.Time
	newRef func() string
}

func NewUsecase(tx uow.UnitOfWork, emit emitter.Emitter) *Usecase {
	return &Usecase{
		uow:    tx,
		emit:   emit,
		now:    func() time.Time { return time.Now().UTC() },
		newRef: uuid.NewString,
	}
}

type ApplyInput struct {
	CustomerID string
	Amount     float64
	Kind       domainTx.Kind // deposit or withdrawal
	Reference  string
}

type ScoreDTO struct {
	CustomerID     string        `json:"customerId"`
	SavingsBalance float64       `json:"savingsBalance"`
	CreditScore    int           `json:"creditScore"`
	Rating         credit.Rating `json:"rating"`
	ScoreUpdatedAt time.Time     `json:"scoreUpdatedAt"`
}

// Apply mutates the savings balance, appends the movement to the transaction
// ledger and recomputes the credit score, all in one transaction. The score
// is derived state: it is always recomputed here, never patched directly.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ScoreDTO, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", domainCustomer.ErrValidation, in.Amount)
	}
	if in.Kind != domainTx.KindDeposit && in.Kind != domainTx.KindWithdrawal {
		return nil, fmt.Errorf("%w: kind must be %q or %q, got %q",
			domainCustomer.ErrValidation, domainTx.KindDeposit, domainTx.KindWithdrawal, in.Kind)
	}

	now := u.now()
	var dto *ScoreDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Customers.GetByCustomerIDForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}

		switch in.Kind {
		case domainTx.KindDeposit:
			c.SavingsBalance += in.Amount
		case domainTx.KindWithdrawal:
			if in.Amount > c.SavingsBalance {
				return fmt.Errorf("%w: withdrawal %.2f exceeds savings balance %.2f",
					domainCustomer.ErrValidation, in.Amount, c.SavingsBalance)
			}
			c.SavingsBalance -= in.Amount
		}

		ref := in.Reference
		if ref == "" {
			ref = u.newRef()
		}
		if err := r.Transactions.Create(ctx, &domainTx.Transaction{
			Reference: ref,
			OwnerID:   c.CustomerID,
			Amount:    in.Amount,
			Kind:      in.Kind,
			Status:    domainTx.StatusCompleted,
			Timestamp: now,
		}); err != nil {
			return err
		}

		score, rating := credit.Score(c.MonthlyIncome, c.SavingsBalance)
		c.CreditScore = score
		c.ScoreUpdatedAt = &now
		if err := r.Customers.Save(ctx, c); err != nil {
			return err
		}

		dto = &ScoreDTO{
			CustomerID:     c.CustomerID,
			SavingsBalance: c.SavingsBalance,
			CreditScore:    score,
			Rating:         rating,
			ScoreUpdatedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.emit.Audit(in.CustomerID, "savings."+string(in.Kind),
		fmt.Sprintf("%s %.2f, balance %.2f, score %d", in.Kind, in.Amount, dto.SavingsBalance, dto.CreditScore))
	return dto, nil
}
