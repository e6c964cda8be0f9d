// Package util provides environment parsing and id helpers shared across components.
package util

import (
	"math/rand/v2"
	"strings"
)

// GenerateRandomID generates a random ID in the format "{prefix}{hex}".
// Uses math/rand/v2; not for cryptographic purposes.
func GenerateRandomID(prefix string, hexLength int) string {
	return prefix + GenerateRandomHex(hexLength)
}

// GenerateRandomHex generates a random hexadecimal string of the given length.
func GenerateRandomHex(length int) string {
	if length <= 0 {
		return ""
	}

	const hexChars = "0123456789abcdef"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(hexChars[rand.IntN(16)])
	}

	return builder.String()
}

// GenerateUserID generates an anonymous user ID with "u_" prefix, used when
// a session is created without a caller-supplied user id.
func GenerateUserID() string {
	return GenerateRandomID("u_", 32)
}
