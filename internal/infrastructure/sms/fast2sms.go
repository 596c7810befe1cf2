package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukaan-app/otp-api/internal/domain"
)

const defaultGatewayURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMSSender delivers messages through the Fast2SMS bulk gateway.
type Fast2SMSSender struct {
	apiKey     string
	senderID   string
	gatewayURL string
	httpClient *http.Client
}

type fast2smsResponse struct {
	Return  bool   `json:"return"`
	Message any    `json:"message"`
	Request string `json:"request_id"`
}

// NewFast2SMSSender builds a gateway-backed sender. senderID is optional; when
// set, the message goes out on the DLT route under that header, otherwise on
// the quick route.
func NewFast2SMSSender(apiKey, senderID string) *Fast2SMSSender {
	return &Fast2SMSSender{
		apiKey:     apiKey,
		senderID:   senderID,
		gatewayURL: defaultGatewayURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Fast2SMSSender) SendSMS(ctx context.Context, to, message string) error {
	if s.apiKey == "" {
		return fmt.Errorf("fast2sms api key not configured: %w", domain.ErrNotConfigured)
	}

	// The gateway wants bare national numbers.
	number := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(to, "+91"), "+"))

	form := url.Values{}
	form.Set("route", "q")
	form.Set("message", message)
	form.Set("language", "english")
	form.Set("flash", "0")
	form.Set("numbers", number)
	if s.senderID != "" {
		form.Set("route", "dlt")
		form.Set("sender_id", s.senderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	var gw fast2smsResponse
	if err := json.Unmarshal(body, &gw); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if !gw.Return {
		return fmt.Errorf("sms send failed: %v", gw.Message)
	}
	return nil
}
