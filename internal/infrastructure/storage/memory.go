package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// MemoryStore backs local runs without S3 and the usecase tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	BaseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}, BaseURL: baseURL}
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	exp := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", m.BaseURL, url.PathEscape(key), exp), nil
}
