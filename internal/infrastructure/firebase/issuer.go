package firebase

import (
	"context"
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/dukaan-app/otp-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// tokenAudience is the fixed audience Identity Toolkit expects on custom tokens.
const tokenAudience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

// customClaims is the Identity Toolkit custom-token payload. UID carries the
// verified phone number; the client exchanges the token for a session with the
// identity provider.
type customClaims struct {
	UID    string         `json:"uid"`
	Claims map[string]any `json:"claims,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints identity-provider custom tokens after a successful
// verification. It signs RS256 with a service-account key.
type Issuer struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
}

func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if cfg.FirebaseClientEmail == "" {
		return nil, fmt.Errorf("service-account client email not set")
	}
	keyBytes, err := os.ReadFile(cfg.FirebasePrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read service-account key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse service-account key: %w", err)
	}
	return &Issuer{clientEmail: cfg.FirebaseClientEmail, privateKey: key}, nil
}

// IssueToken mints a custom token asserting the given identity. Identity
// Toolkit caps custom-token validity at one hour.
func (i *Issuer) IssueToken(_ context.Context, identity string) (string, error) {
	now := time.Now()
	claims := customClaims{
		UID: identity,
		Claims: map[string]any{
			"phone":    identity,
			"provider": "phone_otp",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.clientEmail,
			Subject:   i.clientEmail,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(i.privateKey)
}
