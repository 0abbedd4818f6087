package account

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.MemoryStore) {
	t.Helper()
	st := storage.NewMemoryStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(st, opts...), st
}

func signup(t *testing.T, svc *Service, name, email, password string) *User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupRequest{
		FullName: name, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return u
}

func rawKey(t *testing.T, s storage.Store, key string) []byte {
	t.Helper()
	v, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func storedUsers(t *testing.T, s storage.Store) []User {
	t.Helper()
	raw := rawKey(t, s, KeyUsers)
	if raw == nil {
		return nil
	}
	var users []User
	require.NoError(t, json.Unmarshal(raw, &users))
	return users
}

func storedMap[T any](t *testing.T, s storage.Store, key string) map[string]T {
	t.Helper()
	m := map[string]T{}
	if raw := rawKey(t, s, key); raw != nil {
		require.NoError(t, json.Unmarshal(raw, &m))
	}
	return m
}

var errInjected = errors.New("injected write failure")

// failingStore wraps a Transactor and fails every write to failKey made
// inside Update.
type failingStore struct {
	storage.Transactor
	failKey string
}

type failingTx struct {
	storage.Store
	failKey string
}

func (f failingTx) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errInjected
	}
	return f.Store.Set(ctx, key, value)
}

func (f failingTx) Remove(ctx context.Context, key string) error {
	if key == f.failKey {
		return errInjected
	}
	return f.Store.Remove(ctx, key)
}

func (f *failingStore) Update(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	return f.Transactor.Update(ctx, func(ctx context.Context, tx storage.Store) error {
		return fn(ctx, failingTx{Store: tx, failKey: f.failKey})
	})
}
