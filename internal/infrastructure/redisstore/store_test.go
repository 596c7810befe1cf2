package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dukaan-app/otp-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewStore(client), mr
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	_, err := s.Get(ctx, "+919999999999")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	cred := &domain.Credential{
		Phone:      "+919999999999",
		Code:       "123456",
		IssuanceID: "i1",
		IssuedAt:   time.Now().Unix(),
		ExpiresAt:  time.Now().Unix() + 300,
	}
	require.NoError(t, s.Put(ctx, cred))

	got, err := s.Get(ctx, "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, cred.ExpiresAt, got.ExpiresAt)

	require.NoError(t, s.Delete(ctx, "+919999999999"))
	_, err = s.Get(ctx, "+919999999999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPut_SetsKeyTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t)

	require.NoError(t, s.Put(ctx, &domain.Credential{
		Phone:      "+15550001111",
		Code:       "111111",
		IssuanceID: "i1",
		ExpiresAt:  time.Now().Unix() + 300,
	}))

	ttl := mr.TTL(keyPrefix + "+15550001111")
	assert.Greater(t, ttl, 300*time.Second)
	assert.LessOrEqual(t, ttl, 361*time.Second)
}

func TestConsume_OnlyCurrentIssuance(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	expires := time.Now().Unix() + 300
	require.NoError(t, s.Put(ctx, &domain.Credential{Phone: "+15550001111", Code: "111111", IssuanceID: "i1", ExpiresAt: expires}))
	require.NoError(t, s.Put(ctx, &domain.Credential{Phone: "+15550001111", Code: "222222", IssuanceID: "i2", ExpiresAt: expires}))

	err := s.Consume(ctx, "+15550001111", "i1")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	got, err := s.Get(ctx, "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)

	require.NoError(t, s.Consume(ctx, "+15550001111", "i2"))
	err = s.Consume(ctx, "+15550001111", "i2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
