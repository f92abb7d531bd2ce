package http

import (
	"net/http"

	domain "lending-backend/internal/domain/investment"
	"lending-backend/internal/usecase/investment"

	"github.com/labstack/echo/v4"
)

type InvestmentHandler struct{ uc *investment.Usecase }

func NewInvestmentHandler(uc *investment.Usecase) *InvestmentHandler {
	return &InvestmentHandler{uc: uc}
}

type investReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *InvestmentHandler) Invest(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req investReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Invest(c.Request().Context(), investment.InvestInput{
		InvestorID: id.UserID,
		LoanID:     c.Param("loan_id"),
		Amount:     req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InvestmentHandler) ListByInvestor(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListByInvestor(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InvestmentHandler) Returns(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	invID := c.Param("investment_id")
	owned, err := h.uc.ListByInvestor(ctx, id.UserID)
	if err != nil {
		return writeError(c, err)
	}
	mine := false
	for _, inv := range owned {
		mine = mine || inv.InvestmentID == invID
	}
	if !mine {
		// someone else's investment reads as missing
		return writeError(c, domain.ErrNotFound)
	}
	out, err := h.uc.Returns(ctx, invID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
