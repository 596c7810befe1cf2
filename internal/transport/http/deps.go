package http

import (
	"github.com/dukaan-app/otp-api/internal/application/otp"
	"github.com/dukaan-app/otp-api/internal/infrastructure/sms"
	"github.com/dukaan-app/otp-api/internal/transport/http/handler"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Store     otp.CredentialStore
	StoreOps  handler.StorePinger
	SMSSender sms.Sender
	SMSReady  bool
	Issuer    otp.AssertionIssuer // nil when no service-account key is configured
	Verifier  handler.IDTokenVerifier
	Geocoder  handler.ReverseGeocoder
}
