package sms

import (
	"context"
	"log/slog"
)

// Sender delivers an SMS to a phone number. Delivery is fire-and-forget from
// the credential store's point of view: a failed send never rolls back an
// already-stored credential.
type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// LogSender writes messages to the structured logger instead of a gateway.
// Used in development when no SMS provider is configured; the diagnostic
// issuance path stays usable without real delivery.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendSMS(_ context.Context, to, message string) error {
	s.logger.Info("sms (log sender, not delivered)", "to", to, "message", message)
	return nil
}
