package loan

import (
	"context"
	"time"
)

// Filter narrows a paginated listing. Zero values mean "no constraint".
type Filter struct {
	State     State
	From      *time.Time
	To        *time.Time
	OwnerName string // substring match against the borrower's full name
	Page      int
	Limit     int
}

// Page is the pagination metadata returned alongside a listing.
type Page struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	// GetByApplicationIDForUpdate locks the row for the duration of the
	// surrounding transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*Application, error)
	GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*Application, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Application, error)
	List(ctx context.Context, f Filter) ([]Application, Page, error)
	Save(ctx context.Context, a *Application) error
	// SaveIfVersionMatches is the compare-and-write primitive: the update
	// applies only if the stored version still equals a.Version, and
	// increments it. Returns ErrVersionConflict otherwise.
	SaveIfVersionMatches(ctx context.Context, a *Application) error
	CreateScheduleEntries(ctx context.Context, entries []ScheduleEntry) error
}
