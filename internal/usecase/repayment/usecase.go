package repayment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainLoan "microlend/internal/domain/loan"
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
	LoanID    string
	PayerID   string
	Amount    float64
	Reference string // optional; generated when empty
}

type LoanSummaryDTO struct {
	ApplicationID   string     `json:"applicationId"`
	State           string     `json:"state"`
	Balance         float64    `json:"balance"`
	TotalPaid       float64    `json:"totalPaid"`
	LastPaymentDate *time.Time `json:"lastPaymentDate,omitempty"`
	NextPaymentDue  *time.Time `json:"nextPaymentDue,omitempty"`
	IsFullyPaid     bool       `json:"isFullyPaid"`
}

type ReceiptDTO struct {
	Transaction domainTx.Transaction `json:"transaction"`
	Loan        LoanSummaryDTO       `json:"loan"`
}

// Apply posts a repayment against an approved loan. The transaction append
// and the balance mutation commit together under the per-loan row lock and a
// version-checked write; a failed write surfaces to the caller rather than
// being retried, so a payment is never applied twice.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ReceiptDTO, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", domainLoan.ErrValidation, in.Amount)
	}
	if in.PayerID == "" {
		return nil, fmt.Errorf("%w: payer id is required", domainLoan.ErrValidation)
	}

	now := u.now()
	var receipt *ReceiptDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, a *domainLoan.Application) error {
		if a.State != domainLoan.StateApproved {
			return fmt.Errorf("%w: loan is %s, repayments require an approved loan", domainLoan.ErrInvalidState, a.State)
		}
		if a.BorrowerID != in.PayerID {
			return domainLoan.ErrNotOwner
		}
		if in.Amount > a.Balance {
			return fmt.Errorf("%w: amount %.2f exceeds outstanding balance %.2f",
				domainLoan.ErrValidation, in.Amount, a.Balance)
		}

		ref := in.Reference
		if ref == "" {
			ref = u.newRef()
		}
		tx := &domainTx.Transaction{
			Reference: ref,
			LoanID:    a.ApplicationID,
			OwnerID:   in.PayerID,
			Amount:    in.Amount,
			Kind:      domainTx.KindRepayment,
			Status:    domainTx.StatusCompleted,
			Timestamp: now,
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		a.ApplyPayment(in.Amount, now)
		if err := r.Applications.SaveIfVersionMatches(ctx, a); err != nil {
			return err
		}

		receipt = &ReceiptDTO{
			Transaction: *tx,
			Loan: LoanSummaryDTO{
				ApplicationID:   a.ApplicationID,
				State:           string(a.State),
				Balance:         a.Balance,
				TotalPaid:       a.TotalPaid,
				LastPaymentDate: a.LastPaymentDate,
				NextPaymentDue:  a.NextPaymentDue,
				IsFullyPaid:     a.IsFullyPaid,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Repayment of %.2f received. Outstanding balance: %.2f.", in.Amount, receipt.Loan.Balance)
	if receipt.Loan.IsFullyPaid {
		msg = fmt.Sprintf("Repayment of %.2f received. Your loan is fully settled.", in.Amount)
	}
	u.emit.Notify(in.PayerID, msg, "repayment", in.LoanID)
	u.emit.Audit(in.PayerID, "loan.repayment",
		fmt.Sprintf("loan %s repaid %.2f, balance %.2f", in.LoanID, in.Amount, receipt.Loan.Balance))
	return receipt, nil
}

// Transactions lists the append-only ledger for a loan, owner-scoped.
func (u *Usecase) Transactions(ctx context.Context, loanID, requesterID string) ([]domainTx.Transaction, error) {
	var out []domainTx.Transaction
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applications.GetByApplicationID(ctx, loanID)
		if err != nil {
			return err
		}
		if a.BorrowerID != requesterID {
			return domainLoan.ErrNotOwner
		}
		out, err = r.Transactions.ListByLoanID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
