package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// ErrNotFound: no pending credential for the phone; caller must issue first.
	ErrNotFound = errors.New("not found")
	// ErrExpired: the credential existed but its TTL elapsed. Detection consumes
	// the record, so a follow-up verify reports ErrNotFound.
	ErrExpired = errors.New("expired")
	// ErrMismatch: wrong code. The pending credential stays intact and a retry
	// is permitted until expiry.
	ErrMismatch = errors.New("code mismatch")
	// ErrNotConfigured: a required downstream credential (SMS gateway key,
	// service-account key) is missing. Fatal to the operation, not the process.
	ErrNotConfigured = errors.New("not configured")
	// ErrDelivery: the SMS gateway was unreachable or rejected the message.
	// The stored credential is not rolled back.
	ErrDelivery = errors.New("delivery failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)
