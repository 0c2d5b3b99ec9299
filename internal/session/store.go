// Package session persists refresh tokens in redis. The opaque token string is
// the key, the owning user id is the value, and the key TTL is the refresh
// lifetime, so expired tokens are reaped by the store itself; the application
// never runs a sweep loop. A per-user set indexes live tokens for revoke-all.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("refresh token not found")

const (
	tokenKeyPrefix = "refresh:"
	userKeyPrefix  = "refresh_user:"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create persists the token for its full lifetime. SETNX enforces uniqueness:
// a colliding token surfaces as a creation failure, never a silent overwrite.
func (s *Store) Create(ctx context.Context, token string, userID string) error {
	ok, err := s.rdb.SetNX(ctx, tokenKeyPrefix+token, userID, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if !ok {
		return fmt.Errorf("refresh token collision")
	}

	pipe := s.rdb.Pipeline()
	pipe.SAdd(ctx, userKeyPrefix+userID, token)
	// The index only needs to outlive the newest token.
	pipe.Expire(ctx, userKeyPrefix+userID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index refresh token: %w", err)
	}
	return nil
}

// Find resolves a token to its owning user id. Expired tokens are already gone
// from the store, so absence covers both never-issued and expired.
func (s *Store) Find(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find refresh token: %w", err)
	}
	return userID, nil
}

// Delete revokes a single token. Deleting an absent token is success.
func (s *Store) Delete(ctx context.Context, token string) error {
	userID, err := s.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find refresh token: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.SRem(ctx, userKeyPrefix+userID, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every live token owned by userID. Zero matches is
// success.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) error {
	tokens, err := s.rdb.SMembers(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("list refresh tokens: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, tokenKeyPrefix+token)
	}
	pipe.Del(ctx, userKeyPrefix+userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	return nil
}
