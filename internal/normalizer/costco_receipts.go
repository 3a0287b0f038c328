package normalizer

// CostcoReceipts normalizes receipt line descriptions, where item numbers and
// per-unit prices vary between otherwise identical products.
type CostcoReceipts struct{}

// Normalize implements Normalizer.
func (CostcoReceipts) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := decimalAmountRe.ReplaceAllString(raw, tokenAmount)
	s = codeRe.ReplaceAllString(s, tokenNumber)
	return lowerCollapse(s)
}
