package http

import (
	"net/http"
	"strconv"

	"lending-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

// Pay settles one installment. The body is ignored; the amount is always the
// scheduled one.
func (h *RepaymentHandler) Pay(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	seq, err := strconv.Atoi(c.Param("sequence"))
	if err != nil || seq < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sequence must be a positive integer"})
	}
	dto, err := h.uc.Pay(c.Request().Context(), repayment.PayInput{
		LoanID:   c.Param("loan_id"),
		Sequence: seq,
		PayerID:  id.UserID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
