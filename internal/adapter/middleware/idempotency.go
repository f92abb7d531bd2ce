package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// in-progress marker lifetime; a crashed handler frees the key after this
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	Key         string    `json:"key"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response of a mutating request retried with
// the same Idempotency-Key by the same user. It must run after JWTAuth.
// Server errors are not stored so the client can retry them.
func Idempotency(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("layer", "middleware", "module", "idempotency")
	store := entryStore{rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			idemKey := strings.ToLower(strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey)))
			if idemKey == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderIdempotencyKey})
			}
			if !validIdemKey(idemKey) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderIdempotencyKey + " format"})
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), id.UserID, idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			reserved, err := store.reserve(ctx, key, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				Key:         idemKey,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				logger.ErrorContext(ctx, "idempotency reserve failed", "key", key, "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !reserved {
				cur, err := store.load(ctx, key)
				if err != nil {
					logger.WarnContext(ctx, "idempotency entry unreadable", "key", key, "error", err)
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderIdempotencyKey + " reused with a different body"})
				}
				if !cur.InProgress && cur.Code != 0 {
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be cancelled
			bg, cancelBg := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelBg()
			if rec.code >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					logger.WarnContext(bg, "idempotency release failed", "key", key, "error", err)
				}
				return nil
			}
			if err := store.finish(bg, key, idempEntry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				Key:         idemKey,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl); err != nil {
				logger.WarnContext(bg, "idempotency save failed", "key", key, "error", err)
			}
			return nil
		}
	}
}
