package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	domainLoan "microlend/internal/domain/loan"
	uc "microlend/internal/usecase/application"
)

type ApplicationHandler struct{ uc *uc.Usecase }

func NewApplicationHandler(u *uc.Usecase) *ApplicationHandler { return &ApplicationHandler{uc: u} }

type submitApplicationReq struct {
	BorrowerID     string   `json:"borrowerId"     validate:"required,hex32"`
	Amount         float64  `json:"amount"         validate:"required,gt=0,dec2"`
	DurationMonths int      `json:"durationMonths" validate:"required,gte=1"`
	Purpose        string   `json:"purpose"        validate:"required"`
	Documents      []string `json:"documents"`
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	a, err := h.uc.Submit(c.Request().Context(), uc.SubmitInput{
		BorrowerID:     req.BorrowerID,
		Amount:         req.Amount,
		DurationMonths: req.DurationMonths,
		Purpose:        req.Purpose,
		Documents:      req.Documents,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application id"})
	}
	a, err := h.uc.Get(c.Request().Context(), applicationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListByBorrower returns every application a borrower has filed, newest
// first, regardless of state.
func (h *ApplicationHandler) ListByBorrower(c echo.Context) error {
	borrowerID := c.Param("borrower_id")
	if !reHex32.MatchString(borrowerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower id"})
	}
	apps, err := h.uc.ListByBorrower(c.Request().Context(), borrowerID)
	if err != nil {
		return writeError(c, err)
	}
	if apps == nil {
		apps = []domainLoan.Application{}
	}
	return c.JSON(http.StatusOK, map[string]any{"borrowerId": borrowerID, "applications": apps})
}

type listResponse struct {
	Applications []domainLoan.Application `json:"applications"`
	Pagination   domainLoan.Page          `json:"pagination"`
}

// List serves the paginated reviewer dashboard query: optional state, date
// range and owner-name filters, newest first.
func (h *ApplicationHandler) List(c echo.Context) error {
	f := domainLoan.Filter{
		State:     domainLoan.State(c.QueryParam("state")),
		OwnerName: c.QueryParam("ownerName"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from must be RFC3339"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must be RFC3339"})
		}
		f.To = &t
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page must be a positive integer"})
		}
		f.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		f.Limit = n
	}

	apps, page, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	if apps == nil {
		apps = []domainLoan.Application{}
	}
	return c.JSON(http.StatusOK, listResponse{Applications: apps, Pagination: page})
}
