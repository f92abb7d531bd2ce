package http

import (
	"net/http"
	"strconv"

	"lending-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	userID := c.Param("user_id")
	if err := requireSelf(c, userID); err != nil {
		return writeError(c, err)
	}
	unread := false
	if raw := c.QueryParam("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unread must be a boolean"})
		}
		unread = v
	}
	out, err := h.uc.List(c.Request().Context(), userID, unread)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.MarkRead(c.Request().Context(), c.Param("notification_id"), id.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}
