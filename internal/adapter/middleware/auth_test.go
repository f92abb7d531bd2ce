package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var secret = []byte("test-secret")

func authEcho() *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"user_id": id.UserID, "role": id.Role})
	}, JWTAuth(secret))
	return e
}

func get(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := authEcho()
	now := time.Now()

	tok, err := IssueToken(secret, "user-1", "investor", time.Hour, now)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	rec := get(e, "Bearer "+tok)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"role\":\"investor\",\"user_id\":\"user-1\"}\n" {
		t.Fatalf("valid token => %d %s", rec.Code, rec.Body.String())
	}

	expired, _ := IssueToken(secret, "user-1", "investor", time.Minute, now.Add(-time.Hour))
	wrongKey, _ := IssueToken([]byte("other"), "user-1", "investor", time.Hour, now)
	noRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(secret)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "investor", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString(secret)

	tests := map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"garbage":    "Bearer not.a.token",
		"expired":    "Bearer " + expired,
		"wrong key":  "Bearer " + wrongKey,
		"no role":    "Bearer " + noRole,
		"no exp":     "Bearer " + noExp,
	}
	for name, authz := range tests {
		if rec := get(e, authz); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s => %d, want 401", name, rec.Code)
		}
	}
}
