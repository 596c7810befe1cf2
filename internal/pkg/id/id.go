package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. Issuance IDs are ULIDs: lexicographically
// sortable by creation time, so a log line ordering doubles as an issue order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
