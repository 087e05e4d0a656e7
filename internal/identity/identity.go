// Package identity generates display names for relay connections.
package identity

import "math/rand/v2"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of characters in a generated identity.
const Length = 8

// New returns a fresh display identity: a fixed-length alphanumeric
// string from a non-cryptographic source. Identities attribute relayed
// messages to their sender; uniqueness within a room is best effort,
// there is no collision check.
func New() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}
