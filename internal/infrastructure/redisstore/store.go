package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukaan-app/otp-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:v1:"

// consumeScript deletes the key only while the stored record still carries
// the expected issuance ID. GET + DEL as separate commands would let a stale
// verify delete a record written by a newer issue.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
local rec = cjson.decode(raw)
if rec["issuance_id"] ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// Store keeps pending credentials in Redis with a per-key TTL, for deployments
// where the service runs as multiple instances behind a balancer.
type Store struct {
	client *redis.Client
}

// NewClient configures a Redis client from a URL and verifies connectivity.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Put(ctx context.Context, cred *domain.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	// Redis expires the key shortly after the record's own expiry; the extra
	// minute keeps lazy expiry detection (and its Expired error) observable.
	ttl := time.Until(time.Unix(cred.ExpiresAt, 0)) + time.Minute
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, keyPrefix+cred.Phone, raw, ttl).Err()
}

func (s *Store) Get(ctx context.Context, phone string) (*domain.Credential, error) {
	raw, err := s.client.Get(ctx, keyPrefix+phone).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var cred domain.Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &cred, nil
}

func (s *Store) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, keyPrefix+phone).Err()
}

// Consume removes the record atomically, but only if it still carries the
// given issuance ID.
func (s *Store) Consume(ctx context.Context, phone, issuanceID string) error {
	n, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + phone}, issuanceID).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
	}
	return nil
}

// Ping reports backend reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
