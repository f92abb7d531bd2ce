package http

import (
	"net/http"
	"time"

	mw "lending-backend/internal/adapter/middleware"
	"lending-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc        *user.Usecase
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserHandler(uc *user.Usecase, jwtSecret []byte, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{uc: uc, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

type registerReq struct {
	Role          string  `json:"role"           validate:"required,oneof=borrower investor"`
	Name          string  `json:"name"           validate:"required,max=191"`
	Email         string  `json:"email"          validate:"required"`
	TaxID         string  `json:"tax_id"         validate:"required"`
	Phone         string  `json:"phone"          validate:"required"`
	Password      string  `json:"password"       validate:"required"`
	CreditScore   int     `json:"credit_score"   validate:"gte=0"`
	MonthlyIncome float64 `json:"monthly_income" validate:"gte=0,dec2"`
}

// Register leaves format checks (email, tax id, phone, password strength)
// to the usecase so every failing field is reported together.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), user.RegisterInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResp struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *user.UserDTO `json:"user"`
}

func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	now := h.now().UTC()
	tok, err := mw.IssueToken(h.jwtSecret, dto.UserID, dto.Role, h.tokenTTL, now)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResp{Token: tok, ExpiresAt: now.Add(h.tokenTTL), User: dto})
}

func (h *UserHandler) Get(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type riskProfileReq struct {
	Answers []string `json:"answers" validate:"required,min=1,dive,required"`
}

func (h *UserHandler) AssessRisk(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	var req riskProfileReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AssessRisk(c.Request().Context(), userID, req.Answers)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
