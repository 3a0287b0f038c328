package csvformat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"reckon/internal/models"
)

// ErrMalformed is returned when the file as a whole cannot be used: no
// header, missing required columns, or an unreadable header record.
var ErrMalformed = errors.New("malformed import file")

// Row is one data row with a usable date and amount.
type Row struct {
	Line        int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Cents returns the row amount in integer cents.
func (r Row) Cents() int64 { return ToCents(r.Amount) }

// Result is the outcome of extracting one file.
type Result struct {
	Rows []Row

	// Descriptions holds the distinct non-empty descriptions of every data
	// row, including rows skipped for a bad date or amount, in first-seen
	// order.
	Descriptions []string

	RowsRead    int
	RowsSkipped int
}

// Parse reads a CSV export for format. Row-level problems are counted in
// RowsSkipped; only file-level problems return an error.
func Parse(r io.Reader, format models.FormatIdentifier) (*Result, error) {
	cols, ok := ColumnsFor(format)
	if !ok {
		return nil, fmt.Errorf("no column contract for format %q", format)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformed, err)
	}

	dateIdx, descIdx, amountIdx, err := locate(header, cols)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	seen := make(map[string]struct{})

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.RowsRead++
				res.RowsSkipped++
				continue
			}
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		res.RowsRead++
		line, _ := cr.FieldPos(0)

		desc := strings.TrimSpace(cell(rec, descIdx))
		if desc != "" {
			if _, dup := seen[desc]; !dup {
				seen[desc] = struct{}{}
				res.Descriptions = append(res.Descriptions, desc)
			}
		}

		date, err := ParseDate(cell(rec, dateIdx))
		if err != nil {
			res.RowsSkipped++
			continue
		}
		amount, err := ParseAmount(cell(rec, amountIdx))
		if err != nil {
			res.RowsSkipped++
			continue
		}

		res.Rows = append(res.Rows, Row{
			Line:        line,
			Date:        date,
			Description: desc,
			Amount:      amount,
		})
	}

	return res, nil
}

func locate(header []string, cols Columns) (dateIdx, descIdx, amountIdx int, err error) {
	dateIdx, descIdx, amountIdx = -1, -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case dateIdx < 0 && strings.EqualFold(name, cols.Date):
			dateIdx = i
		case descIdx < 0 && strings.EqualFold(name, cols.Description):
			descIdx = i
		case amountIdx < 0 && strings.EqualFold(name, cols.Amount):
			amountIdx = i
		}
	}

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, cols.Date)
	}
	if descIdx < 0 {
		missing = append(missing, cols.Description)
	}
	if amountIdx < 0 {
		missing = append(missing, cols.Amount)
	}
	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return dateIdx, descIdx, amountIdx, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
