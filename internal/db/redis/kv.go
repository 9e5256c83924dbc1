package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/animatch/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
