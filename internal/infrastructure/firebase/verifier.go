package firebase

import (
	"context"
	"fmt"

	"github.com/dukaan-app/otp-api/internal/domain"
	"google.golang.org/api/idtoken"
)

// Payload holds the verified claims extracted from a provider ID token.
type Payload struct {
	UID   string
	Phone string
}

// Verifier validates provider-issued ID tokens (hosted phone login) against
// the configured project audience.
type Verifier struct {
	projectID string
}

func NewVerifier(projectID string) *Verifier {
	return &Verifier{projectID: projectID}
}

// Verify validates the ID token and returns the extracted payload.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid.
func (v *Verifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := idtoken.Validate(ctx, token, v.projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid id token: %w", domain.ErrUnauthorized)
	}
	phone, _ := p.Claims["phone_number"].(string)
	return &Payload{
		UID:   p.Subject,
		Phone: phone,
	}, nil
}
