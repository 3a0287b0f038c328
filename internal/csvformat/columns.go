// Package csvformat extracts date/description/amount rows from institution
// CSV exports using a fixed per-format column contract.
package csvformat

import "reckon/internal/models"

// Columns names the header cells holding each field for one format.
type Columns struct {
	Date        string
	Description string
	Amount      string
}

var columnTable = map[models.FormatIdentifier]Columns{
	models.FormatAllyBank:       {Date: "Date", Description: "Description", Amount: "Amount"},
	models.FormatCapitalOne:     {Date: "Transaction Date", Description: "Description", Amount: "Line Price"},
	models.FormatCostcoReceipts: {Date: "Date", Description: "Product Code", Amount: "Raw price"},
}

// ColumnsFor returns the column contract for format.
func ColumnsFor(format models.FormatIdentifier) (Columns, bool) {
	c, ok := columnTable[format]
	return c, ok
}
