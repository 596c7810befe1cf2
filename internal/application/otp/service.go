package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukaan-app/otp-api/internal/domain"
	"github.com/dukaan-app/otp-api/internal/infrastructure/sms"
	"github.com/dukaan-app/otp-api/internal/pkg/code"
	"github.com/dukaan-app/otp-api/internal/pkg/id"
)

// CredentialStore is the minimal store contract the lifecycle manager needs.
// Put, Get, Delete and Consume must each be atomic with respect to concurrent
// callers acting on the same phone.
type CredentialStore interface {
	// Put inserts or replaces the pending credential for cred.Phone.
	Put(ctx context.Context, cred *domain.Credential) error
	// Get is a read-only lookup; expiry is not evaluated by the store.
	Get(ctx context.Context, phone string) (*domain.Credential, error)
	// Delete removes any credential for phone. Idempotent.
	Delete(ctx context.Context, phone string) error
	// Consume removes the credential only if it still carries issuanceID,
	// returning domain.ErrNotFound otherwise.
	Consume(ctx context.Context, phone, issuanceID string) error
}

// AssertionIssuer mints a downstream identity token once verification
// succeeds. Issuance is best-effort: its failure never downgrades an
// otherwise-successful verification.
type AssertionIssuer interface {
	IssueToken(ctx context.Context, identity string) (string, error)
}

// IssueResult reports a completed issuance. Code is populated only by the
// diagnostic path.
type IssueResult struct {
	Phone     string
	ExpiresIn int
	Code      string
}

// VerifyResult reports a successful verification. AssertionToken is empty
// when the issuer is unconfigured or failed.
type VerifyResult struct {
	Phone          string
	AssertionToken string
}

type Service interface {
	// Issue generates, stores and delivers a fresh passcode for phone,
	// replacing any pending one.
	Issue(ctx context.Context, phone string) (*IssueResult, error)
	// IssueDiagnostic stores a fresh passcode without delivering it and echoes
	// the code back. Development only; never expose in production.
	IssueDiagnostic(ctx context.Context, phone string) (*IssueResult, error)
	// Verify checks the supplied code against the pending credential and
	// consumes it on any terminal outcome.
	Verify(ctx context.Context, phone, supplied string) (*VerifyResult, error)
}

type ServiceDeps struct {
	Store  CredentialStore
	Sender sms.Sender
	Issuer AssertionIssuer // may be nil
	TTL    time.Duration
	Now    func() time.Time // defaults to time.Now
}

type service struct {
	store  CredentialStore
	sender sms.Sender
	issuer AssertionIssuer
	ttl    time.Duration
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		store:  deps.Store,
		sender: deps.Sender,
		issuer: deps.Issuer,
		ttl:    ttl,
		now:    now,
	}
}

func (s *service) Issue(ctx context.Context, phone string) (*IssueResult, error) {
	cred, err := s.put(ctx, phone)
	if err != nil {
		return nil, err
	}

	// Delivery happens after the store mutation and outside any store lock.
	// A failed send surfaces to the caller, but the stored credential is kept:
	// a resend issues a fresh code and the old one simply ages out.
	msg := fmt.Sprintf(
		"Your DUKAAN verification code is %s. Valid for %d minutes. Do not share with anyone.",
		cred.Code, int(s.ttl.Minutes()),
	)
	if err := s.sender.SendSMS(ctx, phone, msg); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return nil, err
		}
		slog.Error("otp delivery failed", "phone", phone, "err", err)
		return nil, fmt.Errorf("send otp sms (%v): %w", err, domain.ErrDelivery)
	}

	return &IssueResult{Phone: phone, ExpiresIn: int(s.ttl.Seconds())}, nil
}

func (s *service) IssueDiagnostic(ctx context.Context, phone string) (*IssueResult, error) {
	cred, err := s.put(ctx, phone)
	if err != nil {
		return nil, err
	}
	slog.Info("otp stored without delivery (diagnostic issuance)", "phone", phone)
	return &IssueResult{Phone: phone, ExpiresIn: int(s.ttl.Seconds()), Code: cred.Code}, nil
}

// put runs the shared half of both issuance paths: generate a code and
// overwrite whatever credential was pending for the phone.
func (s *service) put(ctx context.Context, phone string) (*domain.Credential, error) {
	c, err := code.New()
	if err != nil {
		return nil, err
	}
	now := s.now().Unix()
	cred := &domain.Credential{
		Phone:      phone,
		Code:       c,
		IssuanceID: id.New(),
		IssuedAt:   now,
		ExpiresAt:  now + int64(s.ttl.Seconds()),
	}
	if err := s.store.Put(ctx, cred); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	return cred, nil
}

func (s *service) Verify(ctx context.Context, phone, supplied string) (*VerifyResult, error) {
	cred, err := s.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending credential, issue first: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	if cred.ExpiredAt(s.now().Unix()) {
		// Detection consumes the record. Consume is pinned to the inspected
		// issuance so a concurrent re-issue is never deleted by mistake.
		if err := s.store.Consume(ctx, phone, cred.IssuanceID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to delete expired credential", "phone", phone, "err", err)
		}
		return nil, fmt.Errorf("otp expired, issue a new one: %w", domain.ErrExpired)
	}

	if subtle.ConstantTimeCompare([]byte(supplied), []byte(cred.Code)) != 1 {
		// Non-terminal: the credential stays pending and a retry is allowed
		// until expiry.
		return nil, fmt.Errorf("invalid otp: %w", domain.ErrMismatch)
	}

	// Exactly-once consumption: whichever caller wins this delete owns the
	// success; everyone else observes no pending credential.
	if err := s.store.Consume(ctx, phone, cred.IssuanceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("credential already consumed: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	result := &VerifyResult{Phone: phone}
	if s.issuer != nil {
		token, err := s.issuer.IssueToken(ctx, phone)
		if err != nil {
			// The credential is provably valid and already consumed; the
			// assertion is a secondary enrichment.
			slog.Warn("assertion issuance failed", "phone", phone, "err", err)
		} else {
			result.AssertionToken = token
		}
	}
	return result, nil
}
