package memory

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dukaan-app/otp-api/internal/domain"
)

const shardCount = 16

// shard holds the credentials for one slice of the phone key space.
// Every operation on a given phone serializes on its shard lock, so a
// concurrent issue and verify for the same phone never observe a torn record.
type shard struct {
	mu    sync.Mutex
	creds map[string]domain.Credential
}

// Store is a sharded in-memory credential store. It is the default backend:
// the service assumes no cross-process shared state, and losing pending
// codes on restart only forces a re-issue.
type Store struct {
	shards [shardCount]*shard
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{creds: make(map[string]domain.Credential)}
	}
	return s
}

func (s *Store) shardFor(phone string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return s.shards[h.Sum32()%shardCount]
}

// Put inserts or replaces the credential for cred.Phone. Any previous record
// for the phone is discarded; the old code becomes unverifiable immediately.
func (s *Store) Put(_ context.Context, cred *domain.Credential) error {
	sh := s.shardFor(cred.Phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.creds[cred.Phone] = *cred
	return nil
}

// Get returns the pending credential for phone, or domain.ErrNotFound.
// Expiry is not evaluated here; callers decide policy.
func (s *Store) Get(_ context.Context, phone string) (*domain.Credential, error) {
	sh := s.shardFor(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cred, ok := sh.creds[phone]
	if !ok {
		return nil, fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
	}
	return &cred, nil
}

// Delete removes any credential for phone. Idempotent.
func (s *Store) Delete(_ context.Context, phone string) error {
	sh := s.shardFor(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.creds, phone)
	return nil
}

// Consume removes the credential for phone only if it still carries the given
// issuance ID. A verify that lost a race against a newer issue, or against
// another verify, gets domain.ErrNotFound and must not treat the code as
// consumed by itself.
func (s *Store) Consume(_ context.Context, phone, issuanceID string) error {
	sh := s.shardFor(phone)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cred, ok := sh.creds[phone]
	if !ok || cred.IssuanceID != issuanceID {
		return fmt.Errorf("credential for %s: %w", phone, domain.ErrNotFound)
	}
	delete(sh.creds, phone)
	return nil
}

// Ping reports backend health; the in-memory store is always reachable.
func (s *Store) Ping(context.Context) error { return nil }

// StartReaper launches a background sweep that drops records already past
// their TTL, bounding memory under high issue volume without verification.
// Expiry semantics do not depend on it: lookups evaluate TTL lazily.
// The goroutine exits when ctx is cancelled.
func (s *Store) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.reap(time.Now().Unix())
			}
		}
	}()
}

func (s *Store) reap(nowUnix int64) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		for phone, cred := range sh.creds {
			if cred.ExpiredAt(nowUnix) {
				delete(sh.creds, phone)
			}
		}
		sh.mu.Unlock()
	}
}
