package models

// FormatIdentifier names an institution export format.
type FormatIdentifier string

const (
	FormatAllyBank       FormatIdentifier = "ally_bank"
	FormatCapitalOne     FormatIdentifier = "capital_one"
	FormatCostcoReceipts FormatIdentifier = "costco_receipts"
)

// AllFormats is the fixed set of formats seeded at setup.
var AllFormats = []FormatIdentifier{
	FormatAllyBank,
	FormatCapitalOne,
	FormatCostcoReceipts,
}

// Valid reports whether f is one of the seeded formats.
func (f FormatIdentifier) Valid() bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat is the persisted row for a FormatIdentifier.
type ParseFormat struct {
	Base
	Identifier FormatIdentifier `gorm:"size:64;not null;uniqueIndex" json:"identifier"`
}
