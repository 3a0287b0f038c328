// Package normalizer turns raw transaction descriptions into the canonical
// strings used as classification lookup keys. Each institution format has its
// own pre-scrub rules; all formats share the final lowercase/collapse pass.
package normalizer

import (
	"regexp"
	"strings"

	"reckon/internal/models"
)

// Placeholder tokens substituted for variable substrings. They are uppercase
// here and end up lowercase after the final pass.
const (
	tokenNumber = "NUM"
	tokenAmount = "AMT"
	tokenDate   = "DATE"
)

// Normalizer maps a raw description to its normalized form. Implementations
// must be pure and total: the same input always yields the same output and
// no input panics.
type Normalizer interface {
	Normalize(raw string) string
}

// registry is the static format to implementation table. Adding a format
// means adding one implementation and one entry here.
var registry = map[models.FormatIdentifier]Normalizer{
	models.FormatAllyBank:       AllyBank{},
	models.FormatCapitalOne:     CapitalOne{},
	models.FormatCostcoReceipts: CostcoReceipts{},
}

// For returns the normalizer for format.
func For(format models.FormatIdentifier) (Normalizer, bool) {
	n, ok := registry[format]
	return n, ok
}

// Shared pre-scrub patterns.
var (
	decimalAmountRe = regexp.MustCompile(`\$?\d[\d,]*\.\d{2}\b`)
	codeRe          = regexp.MustCompile(`[A-Za-z]?\d{3,}`)
)

// Final pass patterns. Edge stripping removes anything that is not
// whitespace, a word character, or a slash.
var (
	edgeRe       = regexp.MustCompile(`^[^\s\w/]+|[^\s\w/]+$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// lowerCollapse is the final stage shared by every format. Keeping it in one
// place keeps the formats in lockstep; changing it changes which normalized
// values exist and therefore which mappings apply.
func lowerCollapse(s string) string {
	s = strings.ToLower(s)
	s = edgeRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
