package httpapi

import (
	"regexp"

	"github.com/google/uuid"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail checks the standard local@domain shape.
func validEmail(s string) bool {
	return emailRe.MatchString(s)
}

// validUUIDv4 accepts only the canonical 8-4-4-4-12 form with version
// nibble 4 and an RFC 4122 variant, case-insensitive. uuid.Parse is
// looser than that (it also takes braced, URN and bare-hex forms), so
// the shape is pinned before parsing.
func validUUIDv4(s string) bool {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4 && u.Variant() == uuid.RFC4122
}
