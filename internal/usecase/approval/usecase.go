package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainLoan "microlend/internal/domain/loan"
	"microlend/internal/domain/uow"
	"microlend/internal/emitter"
)

type Usecase struct {
	uow  uow.UnitOfWork
	emit emitter.Emitter
	now  func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, emit emitter.Emitter) *Usecase {
	return &Usecase{uow: tx, emit: emit, now: func() time.Time { return time.Now().UTC() }}
}

// Decide moves a pending application to approved or rejected. Approval
// materializes the repayment ledger (balance, schedule, next due date) in the
// same row-locked transaction as the state write; notification and audit
// emission happen only after that commit and cannot fail the call.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	if in.Decision != DecisionApproved && in.Decision != DecisionRejected {
		return nil, fmt.Errorf("%w: decision must be %q or %q, got %q",
			domainLoan.ErrValidation, DecisionApproved, DecisionRejected, in.Decision)
	}
	if in.ReviewerID == "" {
		return nil, fmt.Errorf("%w: reviewer id is required", domainLoan.ErrValidation)
	}
	if in.Decision == DecisionRejected && strings.TrimSpace(in.Notes) == "" {
		return nil, fmt.Errorf("%w: rejection requires review notes", domainLoan.ErrValidation)
	}

	now := u.now()
	var (
		dto      *DecisionDTO
		borrower string
	)

	err := u.uow.WithinLoanTx(ctx, in.ApplicationID, func(r uow.Repos, a *domainLoan.Application) error {
		borrower = a.BorrowerID
		if a.State != domainLoan.StatePending {
			return fmt.Errorf("%w: application is %s", domainLoan.ErrAlreadyDecided, a.State)
		}

		var next domainLoan.State
		switch in.Decision {
		case DecisionApproved:
			next = domainLoan.StateApproved
		case DecisionRejected:
			next = domainLoan.StateRejected
		}
		if !a.State.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domainLoan.ErrInvalidState, a.State, next)
		}

		if in.Decision == DecisionApproved {
			if in.ApprovedAmount <= 0 {
				return fmt.Errorf("%w: approved amount must be positive, got %.2f",
					domainLoan.ErrValidation, in.ApprovedAmount)
			}
			entries := make([]domainLoan.ScheduleEntry, 0, len(in.Schedule))
			for _, s := range in.Schedule {
				entries = append(entries, domainLoan.ScheduleEntry{
					ApplicationID: a.ID,
					DueDate:       s.DueDate.UTC(),
					Amount:        s.Amount,
					Status:        domainLoan.SchedulePending,
				})
			}
			if err := domainLoan.ValidateSchedule(entries, in.ApprovedAmount, now); err != nil {
				return err
			}
			if err := r.Applications.CreateScheduleEntries(ctx, entries); err != nil {
				return err
			}
			firstDue := domainLoan.EarliestDue(entries)
			a.ApprovedAmount = in.ApprovedAmount
			a.Balance = in.ApprovedAmount
			a.TotalPaid = 0
			a.NextPaymentDue = &firstDue
			a.Schedule = entries
		}

		a.State = next
		a.ReviewerID = in.ReviewerID
		a.ReviewNotes = in.Notes
		a.ReviewedAt = &now

		if err := r.Applications.SaveIfVersionMatches(ctx, a); err != nil {
			return err
		}

		dto = &DecisionDTO{
			ApplicationID:  a.ApplicationID,
			State:          string(a.State),
			ReviewerID:     a.ReviewerID,
			ReviewedAt:     now,
			Notes:          a.ReviewNotes,
			ApprovedAmount: a.ApprovedAmount,
			Balance:        a.Balance,
			NextPaymentDue: a.NextPaymentDue,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Transition is committed; everything below is best-effort.
	u.emit.Notify(borrower, fmt.Sprintf("Your loan application was %s.", dto.State), "loan", dto.ApplicationID)
	u.emit.Audit(in.ReviewerID, "loan.decision",
		fmt.Sprintf("application %s %s, approved amount %.2f", dto.ApplicationID, dto.State, dto.ApprovedAmount))
	return dto, nil
}
