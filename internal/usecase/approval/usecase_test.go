package approval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"microlend/internal/domain/loan"
	"microlend/internal/domain/uow"
	"microlend/internal/testutil/appmock"
	"microlend/internal/testutil/emittermock"
	"microlend/internal/testutil/uowmock"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestUsecase(apps *appmock.Repo, pending *loan.Application, emit *emittermock.Emitter) *Usecase {
	tx := &uowmock.UoW{
		WithinLoanTxFn: func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *loan.Application) error) error {
			if pending == nil {
				return loan.ErrNotFound
			}
			return fn(uow.Repos{Applications: apps}, pending)
		},
	}
	u := NewUsecase(tx, emit)
	u.now = func() time.Time { return testNow }
	return u
}

func pendingApplication() *loan.Application {
	return &loan.Application{
		ID:            42,
		ApplicationID: strings.Repeat("a", 32),
		BorrowerID:    strings.Repeat("b", 32),
		Amount:        1000,
		State:         loan.StatePending,
	}
}

func approveInput() DecideInput {
	return DecideInput{
		ApplicationID:  strings.Repeat("a", 32),
		ReviewerID:     strings.Repeat("e", 32),
		Decision:       DecisionApproved,
		ApprovedAmount: 1000,
		Schedule: []ScheduleInput{
			{DueDate: testNow.AddDate(0, 1, 0), Amount: 600},
			{DueDate: testNow.AddDate(0, 2, 0), Amount: 400},
		},
	}
}

func TestDecide_ApproveHappyPath(t *testing.T) {
	app := pendingApplication()
	var savedEntries []loan.ScheduleEntry
	apps := &appmock.Repo{
		CreateScheduleEntriesFn: func(ctx context.Context, entries []loan.ScheduleEntry) error {
			savedEntries = entries
			return nil
		},
		SaveIfVersionMatchesFn: func(ctx context.Context, a *loan.Application) error {
			if a.State != loan.StateApproved {
				t.Fatalf("saved state = %s, want approved", a.State)
			}
			if a.Balance != 1000 || a.TotalPaid != 0 {
				t.Fatalf("ledger fields: balance=%v totalPaid=%v", a.Balance, a.TotalPaid)
			}
			return nil
		},
	}
	emit := &emittermock.Emitter{}
	u := newTestUsecase(apps, app, emit)

	dto, err := u.Decide(context.Background(), approveInput())
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if dto.State != "approved" {
		t.Fatalf("dto state = %s", dto.State)
	}
	if dto.Balance != 1000 {
		t.Fatalf("dto balance = %v", dto.Balance)
	}
	wantDue := testNow.AddDate(0, 1, 0)
	if dto.NextPaymentDue == nil || !dto.NextPaymentDue.Equal(wantDue) {
		t.Fatalf("nextPaymentDue = %v, want %v", dto.NextPaymentDue, wantDue)
	}
	if len(savedEntries) != 2 {
		t.Fatalf("schedule entries saved = %d", len(savedEntries))
	}
	for _, e := range savedEntries {
		if e.Status != loan.SchedulePending {
			t.Fatalf("entry status = %s, want pending", e.Status)
		}
		if e.ApplicationID != 42 {
			t.Fatalf("entry application fk = %d", e.ApplicationID)
		}
	}
	if emit.NotifyCount() != 1 || emit.AuditCount() != 1 {
		t.Fatalf("emitter calls: notify=%d audit=%d", emit.NotifyCount(), emit.AuditCount())
	}
	if emit.Notifys[0].UserID != app.BorrowerID {
		t.Fatalf("notified %s, want borrower", emit.Notifys[0].UserID)
	}
}

func TestDecide_ScheduleSumMismatch(t *testing.T) {
	app := pendingApplication()
	saved := false
	apps := &appmock.Repo{
		SaveIfVersionMatchesFn: func(ctx context.Context, a *loan.Application) error {
			saved = true
			return nil
		},
	}
	emit := &emittermock.Emitter{}
	u := newTestUsecase(apps, app, emit)

	in := approveInput()
	in.Schedule[1].Amount = 300 // sums to 900

	_, err := u.Decide(context.Background(), in)
	if !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "900.00") || !strings.Contains(err.Error(), "1000.00") {
		t.Fatalf("error lacks computed/target totals: %v", err)
	}
	if saved {
		t.Fatal("application must not be saved on validation failure")
	}
	if emit.NotifyCount() != 0 || emit.AuditCount() != 0 {
		t.Fatal("no side effects on a failed decision")
	}
}

func TestDecide_AlreadyDecided(t *testing.T) {
	app := pendingApplication()
	app.State = loan.StateApproved
	u := newTestUsecase(&appmock.Repo{}, app, &emittermock.Emitter{})

	_, err := u.Decide(context.Background(), approveInput())
	if !errors.Is(err, loan.ErrAlreadyDecided) {
		t.Fatalf("err = %v, want ErrAlreadyDecided", err)
	}
	if app.State != loan.StateApproved {
		t.Fatalf("state changed to %s", app.State)
	}
}

func TestDecide_NotFound(t *testing.T) {
	u := newTestUsecase(&appmock.Repo{}, nil, &emittermock.Emitter{})
	_, err := u.Decide(context.Background(), approveInput())
	if !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDecide_InvalidDecision(t *testing.T) {
	u := newTestUsecase(&appmock.Repo{}, pendingApplication(), &emittermock.Emitter{})
	in := approveInput()
	in.Decision = "maybe"
	_, err := u.Decide(context.Background(), in)
	if !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDecide_ApproveRequiresPositiveAmount(t *testing.T) {
	u := newTestUsecase(&appmock.Repo{}, pendingApplication(), &emittermock.Emitter{})
	in := approveInput()
	in.ApprovedAmount = 0
	_, err := u.Decide(context.Background(), in)
	if !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDecide_PastDueDateRejected(t *testing.T) {
	u := newTestUsecase(&appmock.Repo{}, pendingApplication(), &emittermock.Emitter{})
	in := approveInput()
	in.Schedule = []ScheduleInput{{DueDate: testNow.AddDate(0, 0, -7), Amount: 1000}}
	_, err := u.Decide(context.Background(), in)
	if !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDecide_RejectHappyPath(t *testing.T) {
	app := pendingApplication()
	apps := &appmock.Repo{
		SaveIfVersionMatchesFn: func(ctx context.Context, a *loan.Application) error {
			if a.State != loan.StateRejected {
				t.Fatalf("saved state = %s, want rejected", a.State)
			}
			if a.Balance != 0 {
				t.Fatalf("rejected loan must carry no balance, got %v", a.Balance)
			}
			return nil
		},
	}
	emit := &emittermock.Emitter{}
	u := newTestUsecase(apps, app, emit)

	dto, err := u.Decide(context.Background(), DecideInput{
		ApplicationID: app.ApplicationID,
		ReviewerID:    strings.Repeat("e", 32),
		Decision:      DecisionRejected,
		Notes:         "insufficient income history",
	})
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if dto.State != "rejected" {
		t.Fatalf("dto state = %s", dto.State)
	}
	if dto.Notes == "" {
		t.Fatal("rejection notes missing from summary")
	}
	if emit.NotifyCount() != 1 {
		t.Fatalf("notify calls = %d", emit.NotifyCount())
	}
}

func TestDecide_RejectRequiresNotes(t *testing.T) {
	u := newTestUsecase(&appmock.Repo{}, pendingApplication(), &emittermock.Emitter{})
	_, err := u.Decide(context.Background(), DecideInput{
		ApplicationID: strings.Repeat("a", 32),
		ReviewerID:    strings.Repeat("e", 32),
		Decision:      DecisionRejected,
		Notes:         "   ",
	})
	if !errors.Is(err, loan.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDecide_VersionConflictSurfaces(t *testing.T) {
	apps := &appmock.Repo{
		SaveIfVersionMatchesFn: func(ctx context.Context, a *loan.Application) error {
			return loan.ErrVersionConflict
		},
	}
	u := newTestUsecase(apps, pendingApplication(), &emittermock.Emitter{})
	_, err := u.Decide(context.Background(), approveInput())
	if !errors.Is(err, loan.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
}
