package http

import (
	"net/http"
	"strconv"

	"lending-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Principal  float64 `json:"principal"   validate:"required,gt=0,dec2"`
	Rate       float64 `json:"rate"        validate:"gte=0,lte=100"`
	TermMonths int     `json:"term_months" validate:"required,gte=1"`
	Purpose    string  `json:"purpose"     validate:"max=500"`
}

// CreateLoan files a loan request for the authenticated borrower.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req createLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		BorrowerID: id.UserID,
		Principal:  req.Principal,
		Rate:       req.Rate,
		TermMonths: req.TermMonths,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	in := loan.ListInput{State: c.QueryParam("state")}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
		}
		in.Limit = n
	}
	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	dto, err := h.uc.Schedule(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Contract returns a short-lived download link; only the borrower and the
// loan's investors may fetch it.
func (h *LoanHandler) Contract(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	loanID := c.Param("loan_id")
	detail, err := h.uc.Get(ctx, loanID)
	if err != nil {
		return writeError(c, err)
	}
	allowed := detail.BorrowerID == id.UserID
	for _, inv := range detail.Investments {
		allowed = allowed || inv.InvestorID == id.UserID
	}
	if !allowed {
		return writeError(c, errForbidden)
	}
	dto, err := h.uc.ContractLink(ctx, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListBorrowerLoans(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListByBorrower(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
