package http

import (
	"errors"
	"log/slog"
	"net/http"

	"lending-backend/internal/domain/contract"
	"lending-backend/internal/domain/investment"
	"lending-backend/internal/domain/loan"
	"lending-backend/internal/domain/notification"
	"lending-backend/internal/domain/user"
	"lending-backend/internal/infrastructure/storage"
	ucloan "lending-backend/internal/usecase/loan"
	ucrepayment "lending-backend/internal/usecase/repayment"
	ucuser "lending-backend/internal/usecase/user"
	"lending-backend/pkg/finance"
	"lending-backend/pkg/validate"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	errForbidden       = errors.New("not allowed for this user")
	errUnauthenticated = errors.New("authentication required")
)

var (
	notFound = []error{
		loan.ErrNotFound, loan.ErrInstallmentNotFound, user.ErrNotFound, investment.ErrNotFound,
		notification.ErrNotFound, contract.ErrNotFound, storage.ErrObjectNotFound, gorm.ErrRecordNotFound,
	}
	conflict = []error{
		loan.ErrInvalidTransition, loan.ErrOpenLoanExists, loan.ErrInstallmentPaid,
		ucloan.ErrContractNotReady, user.ErrEmailTaken,
	}
	forbidden = []error{user.ErrWrongRole, ucrepayment.ErrNotBorrower, errForbidden}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps usecase and domain errors to status codes. Anything
// unrecognized is logged and reported as a 500 without details.
func writeError(c echo.Context, err error) error {
	var (
		ve  *validate.Error
		ae  *finance.ArithmeticError
		ce  *loan.CapacityError
		hep *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		details := make([]FieldError, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			details = append(details, FieldError{Field: f.Field, Message: f.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	case errors.As(err, &ae), errors.Is(err, loan.ErrNonPositiveAmount):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case isAny(err, notFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case isAny(err, conflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case isAny(err, forbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ucuser.ErrBadCredentials), errors.Is(err, errUnauthenticated):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.As(err, &hep):
		return c.JSON(hep.Code, ErrorResponse{Error: http.StatusText(hep.Code)})
	}
	slog.ErrorContext(c.Request().Context(), "request failed",
		"layer", "http", "method", c.Request().Method, "route", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

// bindValid binds the JSON body into req and runs struct validation. It
// writes the 400/422 response itself and reports false when it did.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badBody(c)
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
