// Package structure locates the header row of a statement grid and maps
// semantic fields to column indexes. Detection runs as an ordered list of
// strategies; the first one that produces a result wins.
package structure

import (
	"errors"
	"strings"

	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/normalize"
)

// ErrNoRows means the grid had nothing to analyze. Fatal for the file.
var ErrNoRows = errors.New("grid has no rows to analyze")

const (
	// headerScanRows bounds the header keyword search.
	headerScanRows = 10
	// dateScanRows bounds the positional fallback's date search.
	dateScanRows = 15
	// wideLayoutMinCols switches positional inference to the 6-column layout.
	wideLayoutMinCols = 6
)

// headerGroups are keyword sets for header-row detection: a row whose folded
// text contains at least two keywords of any one group is the header row.
var headerGroups = [][]string{
	{"fecha", "descripcion", "saldo"},
	{"date", "description", "balance"},
	{"cargo", "abono", "movimiento"},
}

// fieldFamilies map header-cell text to fields, evaluated in this fixed
// priority order. A header cell could textually match several families
// ("movimiento" is both a header keyword and an amount keyword); the first
// family matched wins, which is the deliberate tie-break.
var fieldFamilies = []struct {
	field    model.Field
	keywords []string
}{
	{model.FieldDate, []string{"fecha", "date", "fch"}},
	{model.FieldDescription, []string{"descripcion", "detalle", "glosa", "description", "concepto"}},
	{model.FieldDebit, []string{"cargo", "debito", "debe", "debit", "giro"}},
	{model.FieldCredit, []string{"abono", "credito", "haber", "credit", "deposito"}},
	{model.FieldBalance, []string{"saldo", "balance"}},
	{model.FieldDocument, []string{"documento", "docto", "nro", "numero", "document"}},
	{model.FieldAmount, []string{"monto", "importe", "valor", "amount", "movimiento"}},
}

type strategy func(grid model.RawGrid) (model.StructureAnalysis, bool)

// Analyze inspects a raw grid and returns where its data rows start and
// which column holds which field.
func Analyze(grid model.RawGrid) (model.StructureAnalysis, error) {
	if len(grid) == 0 {
		return model.StructureAnalysis{}, ErrNoRows
	}

	strategies := []strategy{headerKeywordStrategy, positionalStrategy, widthStrategy}
	for _, s := range strategies {
		if analysis, ok := s(grid); ok {
			analysis.TotalRows = len(grid)
			return analysis, nil
		}
	}

	// widthStrategy always succeeds; unreachable.
	return model.StructureAnalysis{}, ErrNoRows
}

// headerKeywordStrategy finds a header row by keyword density and maps
// columns from the header cell text.
func headerKeywordStrategy(grid model.RawGrid) (model.StructureAnalysis, bool) {
	limit := min(headerScanRows, len(grid))
	for i := 0; i < limit; i++ {
		if !isHeaderRow(grid[i]) {
			continue
		}
		return model.StructureAnalysis{
			HeaderRow:    i,
			Mapping:      mapHeaderColumns(grid[i]),
			DataStartRow: i + 1,
		}, true
	}
	return model.StructureAnalysis{}, false
}

func isHeaderRow(row []string) bool {
	text := normalize.Fold(strings.Join(row, " "))
	for _, group := range headerGroups {
		hits := 0
		for _, kw := range group {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return true
		}
	}
	return false
}

func mapHeaderColumns(header []string) model.ColumnMapping {
	mapping := make(model.ColumnMapping)
	for idx, cell := range header {
		text := normalize.Fold(cell)
		if text == "" {
			continue
		}
		for _, family := range fieldFamilies {
			if !matchesAny(text, family.keywords) {
				continue
			}
			if _, taken := mapping[family.field]; !taken {
				mapping[family.field] = idx
			}
			break // first family matched wins for this cell
		}
	}

	// debit/credit and amount are alternative encodings; when a split pair
	// is present the single amount column is ignored.
	_, hasDebit := mapping[model.FieldDebit]
	_, hasCredit := mapping[model.FieldCredit]
	if hasDebit && hasCredit {
		delete(mapping, model.FieldAmount)
	}
	return mapping
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// positionalStrategy handles headerless exports: the first row whose first
// cell looks like a day-first date starts the data, and columns are assumed
// to follow one of two fixed bank layouts.
func positionalStrategy(grid model.RawGrid) (model.StructureAnalysis, bool) {
	limit := min(dateScanRows, len(grid))
	for i := 0; i < limit; i++ {
		row := grid[i]
		if len(row) == 0 || !normalize.IsDayFirstDate(row[0]) {
			continue
		}
		return model.StructureAnalysis{
			HeaderRow:    -1,
			Mapping:      positionalMapping(len(row)),
			DataStartRow: i,
		}, true
	}
	return model.StructureAnalysis{}, false
}

// widthStrategy is the last resort when neither keywords nor a leading date
// column identify the layout: assume data from the top and infer the layout
// from the widest row. Unparseable rows are dropped downstream anyway.
func widthStrategy(grid model.RawGrid) (model.StructureAnalysis, bool) {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	return model.StructureAnalysis{
		HeaderRow:    -1,
		Mapping:      positionalMapping(width),
		DataStartRow: 0,
	}, true
}

func positionalMapping(cols int) model.ColumnMapping {
	if cols >= wideLayoutMinCols {
		return model.ColumnMapping{
			model.FieldDate:        0,
			model.FieldDescription: 1,
			model.FieldDocument:    2,
			model.FieldDebit:       3,
			model.FieldCredit:      4,
			model.FieldBalance:     5,
		}
	}
	return model.ColumnMapping{
		model.FieldDate:        0,
		model.FieldDescription: 1,
		model.FieldAmount:      2,
		model.FieldBalance:     3,
	}
}
