package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	uc "microlend/internal/usecase/approval"
)

type DecisionHandler struct{ uc *uc.Usecase }

func NewDecisionHandler(u *uc.Usecase) *DecisionHandler { return &DecisionHandler{uc: u} }

type scheduleEntryReq struct {
	// Canonical date `YYYY-MM-DD`, interpreted as UTC midnight.
	DueDate string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Amount  float64 `json:"amount"  validate:"required,gt=0,dec2"`
}

type decideReq struct {
	ReviewerID     string             `json:"reviewerId" validate:"required,hex32"`
	Decision       string             `json:"decision"   validate:"required,oneof=approved rejected"`
	Notes          string             `json:"notes"`
	ApprovedAmount float64            `json:"approvedAmount" validate:"omitempty,gt=0,dec2"`
	Schedule       []scheduleEntryReq `json:"schedule" validate:"omitempty,min=1,dive"`
}

func (h *DecisionHandler) Decide(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	in := uc.DecideInput{
		ApplicationID:  applicationID,
		ReviewerID:     req.ReviewerID,
		Decision:       uc.Decision(req.Decision),
		Notes:          req.Notes,
		ApprovedAmount: req.ApprovedAmount,
	}
	for _, s := range req.Schedule {
		due, err := time.ParseInLocation("2006-01-02", s.DueDate, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schedule due date"})
		}
		in.Schedule = append(in.Schedule, uc.ScheduleInput{DueDate: due, Amount: s.Amount})
	}

	dto, err := h.uc.Decide(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
