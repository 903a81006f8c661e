package redis

import (
	"context"

	"github.com/redis/rueidis"
	"github.com/tsalagi-lab/sequoyah/internal/db"
)

// Get returns the value stored at key. A missing key is reported as
// db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	val, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, &db.Error{Op: db.OpGet, Err: db.ErrKeyNotFound}
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return val, nil
}

// Set stores a value at key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}
