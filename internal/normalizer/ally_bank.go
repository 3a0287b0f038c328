package normalizer

import "regexp"

// AllyBank normalizes Ally Bank checking and savings descriptions, which
// carry embedded dates, amounts and long reference numbers.
type AllyBank struct{}

var allySlashDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)

// Normalize implements Normalizer.
func (AllyBank) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := allySlashDateRe.ReplaceAllString(raw, tokenDate)
	s = decimalAmountRe.ReplaceAllString(s, tokenAmount)
	s = codeRe.ReplaceAllString(s, tokenNumber)
	return lowerCollapse(s)
}
