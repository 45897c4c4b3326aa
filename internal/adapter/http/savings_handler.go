package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainTx "microlend/internal/domain/transaction"
	uc "microlend/internal/usecase/savings"
)

type SavingsHandler struct{ uc *uc.Usecase }

func NewSavingsHandler(u *uc.Usecase) *SavingsHandler { return &SavingsHandler{uc: u} }

type savingsReq struct {
	Amount    float64 `json:"amount"    validate:"required,gt=0,dec2"`
	Kind      string  `json:"kind"      validate:"required,oneof=deposit withdrawal"`
	Reference string  `json:"reference" validate:"omitempty,max=64"`
}

// Apply posts a savings movement and returns the recomputed credit score.
func (h *SavingsHandler) Apply(c echo.Context) error {
	customerID := c.Param("customer_id")
	if !reHex32.MatchString(customerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid customer id"})
	}
	var req savingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	dto, err := h.uc.Apply(c.Request().Context(), uc.ApplyInput{
		CustomerID: customerID,
		Amount:     req.Amount,
		Kind:       domainTx.Kind(req.Kind),
		Reference:  req.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
