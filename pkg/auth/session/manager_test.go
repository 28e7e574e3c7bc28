package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func TestManagerRegisterAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{
		store: store,
		keyer: store,
		ttl:   8 * time.Hour,
	}

	ctx := context.Background()
	sessionID := NewSessionID()

	has, err := manager.HasSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if has {
		t.Fatal("unregistered session should not exist")
	}

	if err := manager.Register(ctx, sessionID, "admin-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if ttl := store.ttls[store.AccessSessionKey(sessionID)]; ttl != 8*time.Hour {
		t.Fatalf("expected registry ttl 8h, got %s", ttl)
	}

	has, err = manager.HasSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !has {
		t.Fatal("registered session should exist")
	}

	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	has, err = manager.HasSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if has {
		t.Fatal("revoked session should be gone")
	}
}

func TestManagerValidatesInput(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	if err := manager.Register(ctx, " ", "admin-1"); err == nil {
		t.Fatal("expected error for blank session id")
	}
	if err := manager.Register(ctx, "sess-1", ""); err == nil {
		t.Fatal("expected error for blank admin id")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected error for blank session id")
	}
	if err := manager.Revoke(ctx, ""); err == nil {
		t.Fatal("expected error for blank session id")
	}
}
