package domain

// Credential is a pending one-time passcode bound to a phone number.
// PK: phone. At most one live credential exists per phone; a new issuance
// silently replaces the previous one.
// ExpiresAt is a Unix timestamp used as the store TTL.
type Credential struct {
	Phone      string `json:"phone" dynamodbav:"phone"`
	Code       string `json:"code" dynamodbav:"code"` // 6-digit numeric string
	IssuanceID string `json:"issuance_id" dynamodbav:"issuance_id"`
	IssuedAt   int64  `json:"issued_at" dynamodbav:"issued_at"`   // Unix seconds
	ExpiresAt  int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// ExpiredAt reports whether the credential is past its validity window at the
// given instant. A verification at exactly ExpiresAt is still valid.
func (c *Credential) ExpiredAt(nowUnix int64) bool {
	return nowUnix > c.ExpiresAt
}
