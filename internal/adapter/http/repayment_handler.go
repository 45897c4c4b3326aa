package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainTx "microlend/internal/domain/transaction"
	uc "microlend/internal/usecase/repayment"
)

type RepaymentHandler struct{ uc *uc.Usecase }

func NewRepaymentHandler(u *uc.Usecase) *RepaymentHandler { return &RepaymentHandler{uc: u} }

type repayReq struct {
	PayerID   string  `json:"payerId"   validate:"required,hex32"`
	Amount    float64 `json:"amount"    validate:"required,gt=0,dec2"`
	Reference string  `json:"reference" validate:"omitempty,max=64"`
}

func (h *RepaymentHandler) Apply(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	receipt, err := h.uc.Apply(c.Request().Context(), uc.ApplyInput{
		LoanID:    loanID,
		PayerID:   req.PayerID,
		Amount:    req.Amount,
		Reference: req.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

type transactionsResponse struct {
	LoanID       string                 `json:"loanId"`
	Transactions []domainTx.Transaction `json:"transactions"`
}

func (h *RepaymentHandler) Transactions(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	requester := c.QueryParam("requesterId")
	if !reHex32.MatchString(requester) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid requester id"})
	}
	txs, err := h.uc.Transactions(c.Request().Context(), loanID, requester)
	if err != nil {
		return writeError(c, err)
	}
	if txs == nil {
		txs = []domainTx.Transaction{}
	}
	return c.JSON(http.StatusOK, transactionsResponse{LoanID: loanID, Transactions: txs})
}
