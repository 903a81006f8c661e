package group

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	saddFn     func(ctx context.Context, key string, members ...string) (int64, error)
	sremFn     func(ctx context.Context, key string, members ...string) (int64, error)
	smembersFn func(ctx context.Context, key string) ([]string, error)
	getFn      func(ctx context.Context, key string) ([]byte, error)
	setFn      func(ctx context.Context, key string, value []byte) error
	delFn      func(ctx context.Context, key string) error
	scanFn     func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return 0, nil
}

func (m *mockStore) SRem(ctx context.Context, key string, members ...string) (int64, error) {
	if m.sremFn != nil {
		return m.sremFn(ctx, key, members...)
	}
	return 0, nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "sequoyah:"), ms
}
