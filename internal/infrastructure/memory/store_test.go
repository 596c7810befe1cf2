package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dukaan-app/otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cred(phone, code, issuanceID string, expiresAt int64) *domain.Credential {
	return &domain.Credential{
		Phone:      phone,
		Code:       code,
		IssuanceID: issuanceID,
		IssuedAt:   expiresAt - 300,
		ExpiresAt:  expiresAt,
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "+919999999999")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, s.Put(ctx, cred("+919999999999", "123456", "i1", time.Now().Unix()+300)))

	got, err := s.Get(ctx, "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "i1", got.IssuanceID)

	require.NoError(t, s.Delete(ctx, "+919999999999"))
	_, err = s.Get(ctx, "+919999999999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Delete is idempotent.
	assert.NoError(t, s.Delete(ctx, "+919999999999"))
}

func TestPut_OverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Put(ctx, cred("+15550001111", "111111", "i1", time.Now().Unix()+300)))
	require.NoError(t, s.Put(ctx, cred("+15550001111", "222222", "i2", time.Now().Unix()+300)))

	got, err := s.Get(ctx, "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, "i2", got.IssuanceID)
}

func TestConsume_OnlyCurrentIssuance(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Put(ctx, cred("+15550001111", "111111", "i1", time.Now().Unix()+300)))
	require.NoError(t, s.Put(ctx, cred("+15550001111", "222222", "i2", time.Now().Unix()+300)))

	// Stale issuance ID must not delete the newer record.
	err := s.Consume(ctx, "+15550001111", "i1")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	got, err := s.Get(ctx, "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "i2", got.IssuanceID)

	require.NoError(t, s.Consume(ctx, "+15550001111", "i2"))
	_, err = s.Get(ctx, "+15550001111")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConsume_ExactlyOnceUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Put(ctx, cred("+15550001111", "111111", "i1", time.Now().Unix()+300)))

	const goroutines = 32
	var wg sync.WaitGroup
	successes := make(chan struct{}, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Consume(ctx, "+15550001111", "i1") == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestIdentityIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	const identities = 100
	var wg sync.WaitGroup
	for i := 0; i < identities; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			phone := fmt.Sprintf("+1555000%04d", i)
			code := fmt.Sprintf("%06d", 100000+i)
			_ = s.Put(ctx, cred(phone, code, fmt.Sprintf("i%d", i), time.Now().Unix()+300))
		}(i)
	}
	wg.Wait()

	for i := 0; i < identities; i++ {
		phone := fmt.Sprintf("+1555000%04d", i)
		got, err := s.Get(ctx, phone)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%06d", 100000+i), got.Code)
	}
}

func TestReap_DropsOnlyExpired(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now().Unix()

	require.NoError(t, s.Put(ctx, cred("+15550001111", "111111", "i1", now-1)))
	require.NoError(t, s.Put(ctx, cred("+15550002222", "222222", "i2", now+300)))
	// A record at exactly the boundary is still live.
	require.NoError(t, s.Put(ctx, cred("+15550003333", "333333", "i3", now)))

	s.reap(now)

	_, err := s.Get(ctx, "+15550001111")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = s.Get(ctx, "+15550002222")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "+15550003333")
	assert.NoError(t, err)
}
