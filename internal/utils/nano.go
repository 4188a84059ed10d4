package utils

import (
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID is the internal identifier generator for everything that is not
// a donation (impacts, messages, research submissions).
func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

const (
	donationIDPrefix   = "AFG-"
	donationIDSize     = 10
	donationIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Matching is case-insensitive end to end, prefix included; lookups
// canonicalize through NormalizeDonationID.
var donationIDPattern = regexp.MustCompile(`(?i)^AFG-[A-Z0-9]{10}$`)

// DonationID mints the human-readable donation identifier: the AFG-
// prefix followed by 10 uppercase alphanumerics. Uniqueness is by
// generation, not enforced; lookups are case-insensitive.
func DonationID() string {
	return donationIDPrefix + gonanoid.MustGenerate(donationIDAlphabet, donationIDSize)
}

// ValidDonationID checks the exact shape before any lookup is attempted.
func ValidDonationID(id string) bool {
	return donationIDPattern.MatchString(strings.TrimSpace(id))
}

// NormalizeDonationID maps any casing of a valid identifier to its
// canonical uppercase form.
func NormalizeDonationID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
