// Package movements persists extracted movements as CSV and aggregates
// them for reconciliation.
package movements

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartola-dev/cartola/internal/model"
)

// Header is the CSV header for movements.csv.
const Header = "id,date,description,amount,kind,running_balance,category,document_ref,source"

const (
	numFields  = 9
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colDesc    = 2
	colAmount  = 3
	colKind    = 4
	colBalance = 5
	colCat     = 6
	colDocRef  = 7
	colSource  = 8
)

// Read reads all movements from a movements.csv reader.
func Read(r io.Reader) ([]model.Movement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading movements CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var result []model.Movement
	for i, rec := range records[1:] {
		m, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		result = append(result, m)
	}
	return result, nil
}

// Write writes movements to a movements.csv writer (including header).
func Write(w io.Writer, ms []model.Movement) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, m := range ms {
		if err := cw.Write(Marshal(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Marshal converts a Movement to a CSV row.
func Marshal(m model.Movement) []string {
	row := make([]string, numFields)
	row[colID] = m.ID
	row[colDate] = m.Date.Format(dateFormat)
	row[colDesc] = m.Description
	row[colAmount] = m.Amount.String()
	row[colKind] = string(m.Kind)

	if !m.RunningBalance.IsZero() {
		row[colBalance] = m.RunningBalance.String()
	}

	row[colCat] = string(m.Category)
	row[colDocRef] = m.DocumentRef
	row[colSource] = m.Source
	return row
}

// Unmarshal converts a CSV row to a Movement.
func Unmarshal(record []string) (model.Movement, error) {
	if len(record) != numFields {
		return model.Movement{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Movement{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Movement{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balance := decimal.Zero
	if record[colBalance] != "" {
		balance, err = decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Movement{}, fmt.Errorf("parsing running_balance %q: %w", record[colBalance], err)
		}
	}

	return model.Movement{
		ID:             record[colID],
		Date:           date,
		Description:    record[colDesc],
		Amount:         amount,
		Kind:           model.MovementKind(record[colKind]),
		RunningBalance: balance,
		Category:       model.Category(record[colCat]),
		DocumentRef:    record[colDocRef],
		Source:         record[colSource],
	}, nil
}

// Sum returns the signed total of all movement amounts: the period
// movement total for one account's statement.
func Sum(ms []model.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range ms {
		total = total.Add(m.Amount)
	}
	return total
}
