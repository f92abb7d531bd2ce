package http

import (
	mw "lending-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

func caller(c echo.Context) (mw.Identity, error) {
	id, ok := mw.IdentityFrom(c)
	if !ok {
		return mw.Identity{}, errUnauthenticated
	}
	return id, nil
}

// requireSelf only lets callers act on their own user_id.
func requireSelf(c echo.Context, userID string) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if id.UserID != userID {
		return errForbidden
	}
	return nil
}
