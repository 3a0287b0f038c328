package normalizer

import "regexp"

// CapitalOne normalizes Capital One card descriptions.
type CapitalOne struct{}

const amazonCanonical = "AMAZON MARKETPLACE"

var (
	// The many spellings of Amazon followed by an order code collapse to one
	// phrase so a single mapping covers all of them.
	capOneAmazonRe = regexp.MustCompile(`(?i)\b(?:amazon\.com|amzn\.com/bill|amzn mktp us|amazon mktpl(?:ace)?|amazon marketplace)(?:\s*\*\s*[a-z0-9]+|\s+[a-z0-9]*\d[a-z0-9]*)?`)

	// Point-of-sale processor prefixes such as "TST* " or "SQ *".
	capOnePOSPrefixRe = regexp.MustCompile(`(?i)^\s*(?:tst|sq|sp|pp)\s?\*\s*`)
)

// Normalize implements Normalizer.
func (CapitalOne) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := capOneAmazonRe.ReplaceAllString(raw, amazonCanonical)
	s = capOnePOSPrefixRe.ReplaceAllString(s, "")
	s = decimalAmountRe.ReplaceAllString(s, tokenAmount)
	s = codeRe.ReplaceAllString(s, tokenNumber)
	return lowerCollapse(s)
}
