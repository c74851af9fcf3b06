package helpers

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReference produces a human-readable payment link reference of the
// form PL-<base36 timestamp>-<6 random base36 chars>, upper-cased.
// Collision-resistant in practice, not guaranteed unique: the store's unique
// index on the reference column is what turns a collision into a visible
// create failure.
func GenerateReference() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	var random [6]byte
	for i := range random {
		random[i] = base36Chars[rand.Intn(len(base36Chars))]
	}

	return "PL-" + timestamp + "-" + string(random[:])
}

// GenerateLink derives the canonical shareable URL for a reference.
func GenerateLink(reference, baseOrigin string) string {
	return baseOrigin + "/pay/" + reference
}
