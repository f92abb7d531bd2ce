package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("http://local")
	ctx := context.Background()

	if _, err := m.PresignGet(ctx, "contracts/a.json", time.Minute); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("want ErrObjectNotFound, got %v", err)
	}
	if err := m.Put(ctx, "contracts/a.json", []byte(`{"a":1}`), "application/json"); err != nil {
		t.Fatal(err)
	}
	u, err := m.PresignGet(ctx, "contracts/a.json", time.Minute)
	if err != nil || !strings.HasPrefix(u, "http://local/contracts%2Fa.json?expires=") {
		t.Fatalf("PresignGet = %q, %v", u, err)
	}
	if b, ok := m.Get("contracts/a.json"); !ok || string(b) != `{"a":1}` {
		t.Fatalf("Get = %q %v", b, ok)
	}
}

func TestS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestS3Store_PutAndPresign(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	s, err := NewS3Store(ctx, S3Config{
		Bucket:    "agreements",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	if err := s.Put(ctx, "contracts/LN-1/C-1.json", []byte(`{"loan":"LN-1"}`), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	mu.Lock()
	if method != http.MethodPut || path != "/agreements/contracts/LN-1/C-1.json" || !strings.Contains(body, `{"loan":"LN-1"}`) {
		t.Fatalf("unexpected request %s %s body=%q", method, path, body)
	}
	mu.Unlock()

	u, err := s.PresignGet(ctx, "contracts/LN-1/C-1.json", 10*time.Minute)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.HasPrefix(u, srv.URL+"/agreements/contracts/LN-1/C-1.json?") ||
		!strings.Contains(u, "X-Amz-Signature=") || !strings.Contains(u, "X-Amz-Expires=600") {
		t.Fatalf("unexpected presigned url %q", u)
	}
}
