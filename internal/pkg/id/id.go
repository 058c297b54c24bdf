package id

import (
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// MessageID builds an RFC 5322 Message-ID for mail sent on behalf of host.
func MessageID(host string) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", New(), host)
}
