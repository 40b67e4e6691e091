package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// slugAlphabet avoids lookalike characters so slugs survive being read
// aloud or copied by hand from a poster.
const slugAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

// slugLength gives ~10^18 combinations, enough that an active share
// slug is not guessable in practice.
const slugLength = 12

// NewPublicSlug generates a URL-friendly public slug for a gig's share
// page.
func NewPublicSlug() (string, error) {
	return gonanoid.Generate(slugAlphabet, slugLength)
}
