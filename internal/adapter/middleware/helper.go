package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// buildKey scopes a stored response to the route pattern and the caller.
func buildKey(method, route, userID, idemKey string) string {
	return "idemp:" + strings.ToLower(method) + ":" + route + ":" + userID + ":" + idemKey
}

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-8][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

func validIdemKey(k string) bool {
	k = strings.ToLower(strings.TrimSpace(k))
	return reUUID.MatchString(k) || reHex32.MatchString(k)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with
// an explicit zone. Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// entryStore keeps idempotency entries in Redis as JSON.
type entryStore struct{ rdb *redis.Client }

func (s entryStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (s entryStore) load(ctx context.Context, key string) (idempEntry, error) {
	var e idempEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func (s entryStore) finish(ctx context.Context, key string, e idempEntry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

func (s entryStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
