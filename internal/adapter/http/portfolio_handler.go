package http

import (
	"net/http"

	"lending-backend/internal/usecase/portfolio"

	"github.com/labstack/echo/v4"
)

type PortfolioHandler struct{ uc *portfolio.Usecase }

func NewPortfolioHandler(uc *portfolio.Usecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

func (h *PortfolioHandler) Borrower(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	m, err := h.uc.Borrower(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *PortfolioHandler) Investor(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	m, err := h.uc.Investor(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *PortfolioHandler) Market(c echo.Context) error {
	m, err := h.uc.Market(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
