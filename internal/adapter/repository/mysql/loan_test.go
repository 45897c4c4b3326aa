package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customerDomain "microlend/internal/domain/customer"
	domain "microlend/internal/domain/loan"
	"microlend/pkg/id"
)

// openTestDB migrates the real models into an in-memory sqlite database.
// None of the column types here are mysql-specific.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Application{},
		&domain.ScheduleEntry{},
		&customerDomain.Customer{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeApplication(borrowerID string) *domain.Application {
	return &domain.Application{
		ApplicationID:  id.NewID32(),
		BorrowerID:     borrowerID,
		Amount:         1000,
		DurationMonths: 2,
		Purpose:        "inventory restock",
		State:          domain.StatePending,
	}
}

func TestLoanRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a := makeApplication(strings.Repeat("b", 32))
	a.Documents = []string{"ktp.pdf", "payslip.pdf"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatalf("GetByApplicationID: %v", err)
	}
	if got.BorrowerID != a.BorrowerID || got.State != domain.StatePending {
		t.Fatalf("got %+v", got)
	}
	if len(got.Documents) != 2 {
		t.Fatalf("documents = %v", got.Documents)
	}

	_, err = repo.GetByApplicationID(ctx, id.NewID32())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing row err = %v, want ErrNotFound", err)
	}
}

func TestLoanRepository_GetPendingByBorrower(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	borrower := strings.Repeat("b", 32)

	decided := makeApplication(borrower)
	decided.State = domain.StateRejected
	if err := repo.Create(ctx, decided); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetPendingByBorrowerID(ctx, borrower); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound when only decided rows exist", err)
	}

	pending := makeApplication(borrower)
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetPendingByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("GetPendingByBorrowerID: %v", err)
	}
	if got.ApplicationID != pending.ApplicationID {
		t.Fatalf("got %s, want %s", got.ApplicationID, pending.ApplicationID)
	}
}

func TestLoanRepository_SaveIfVersionMatches(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a := makeApplication(strings.Repeat("b", 32))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	a.State = domain.StateApproved
	a.ApprovedAmount = 1000
	a.Balance = 1000
	if err := repo.SaveIfVersionMatches(ctx, a); err != nil {
		t.Fatalf("SaveIfVersionMatches: %v", err)
	}
	if a.Version != 1 {
		t.Fatalf("version after save = %d, want 1", a.Version)
	}

	got, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != domain.StateApproved || got.Balance != 1000 || got.Version != 1 {
		t.Fatalf("persisted row: %+v", got)
	}

	// a writer holding the old version must lose
	stale := *got
	stale.Version = 0
	stale.Balance = 400
	if err := repo.SaveIfVersionMatches(ctx, &stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale write err = %v, want ErrVersionConflict", err)
	}

	got2, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Balance != 1000 {
		t.Fatalf("stale write leaked: balance = %v", got2.Balance)
	}
}

func TestLoanRepository_SchedulePreloadOrdered(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a := makeApplication(strings.Repeat("b", 32))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	later := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.ScheduleEntry{
		{ApplicationID: a.ID, DueDate: later, Amount: 400, Status: domain.SchedulePending},
		{ApplicationID: a.ID, DueDate: earlier, Amount: 600, Status: domain.SchedulePending},
	}
	if err := repo.CreateScheduleEntries(ctx, entries); err != nil {
		t.Fatalf("CreateScheduleEntries: %v", err)
	}

	got, err := repo.GetByApplicationID(ctx, a.ApplicationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Schedule) != 2 {
		t.Fatalf("schedule len = %d", len(got.Schedule))
	}
	if !got.Schedule[0].DueDate.Equal(earlier) {
		t.Fatalf("schedule not ordered by due date: first = %v", got.Schedule[0].DueDate)
	}
}

func TestLoanRepository_ListFiltersAndPaginates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	custRepo := NewCustomerRepository(db)
	ctx := context.Background()

	budi := &customerDomain.Customer{CustomerID: strings.Repeat("1", 32), FullName: "Budi Santoso"}
	sari := &customerDomain.Customer{CustomerID: strings.Repeat("2", 32), FullName: "Sari Dewi"}
	if err := custRepo.Create(ctx, budi); err != nil {
		t.Fatal(err)
	}
	if err := custRepo.Create(ctx, sari); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		a := makeApplication(budi.CustomerID)
		if i == 0 {
			a.State = domain.StateApproved
		}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(ctx, makeApplication(sari.CustomerID)); err != nil {
		t.Fatal(err)
	}

	// state filter
	apps, page, err := repo.List(ctx, domain.Filter{State: domain.StatePending, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(apps) != 3 || page.TotalCount != 3 {
		t.Fatalf("pending: len=%d total=%d", len(apps), page.TotalCount)
	}

	// owner-name substring
	apps, page, err = repo.List(ctx, domain.Filter{OwnerName: "Santoso", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List by owner: %v", err)
	}
	if len(apps) != 3 || page.TotalCount != 3 {
		t.Fatalf("owner filter: len=%d total=%d", len(apps), page.TotalCount)
	}
	for _, a := range apps {
		if a.BorrowerID != budi.CustomerID {
			t.Fatalf("unexpected borrower %s", a.BorrowerID)
		}
	}

	// pagination metadata
	apps, page, err = repo.List(ctx, domain.Filter{Page: 1, Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 3 {
		t.Fatalf("page 1 len = %d", len(apps))
	}
	if page.TotalCount != 4 || page.TotalPages != 2 || page.CurrentPage != 1 || page.Limit != 3 {
		t.Fatalf("page = %+v", page)
	}
	apps, page, err = repo.List(ctx, domain.Filter{Page: 2, Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 || page.CurrentPage != 2 {
		t.Fatalf("page 2: len=%d page=%+v", len(apps), page)
	}
}
