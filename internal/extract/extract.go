// Package extract walks the data rows of an analyzed statement grid and
// builds one Movement per valid row. A malformed row is skipped with a
// diagnostic and never aborts the batch.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/normalize"
)

// DefaultSource tags movements whose origin is a statement spreadsheet.
const DefaultSource = "cartola-excel"

// minPopulatedCells is the threshold below which a row is noise.
const minPopulatedCells = 3

// Extractor converts grid rows into Movements.
type Extractor struct {
	source string
	rules  []Rule
	log    *zap.Logger
}

// NewExtractor creates an Extractor. Nil rules fall back to DefaultRules;
// a nil logger is replaced with a no-op one.
func NewExtractor(source string, rules []Rule, log *zap.Logger) *Extractor {
	if source == "" {
		source = DefaultSource
	}
	if rules == nil {
		rules = DefaultRules()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{source: source, rules: rules, log: log}
}

// Extract walks rows from the analysis' data start and returns movements
// sorted most recent date first (stable: same-date rows keep file order).
func (e *Extractor) Extract(grid model.RawGrid, analysis model.StructureAnalysis) []model.Movement {
	var movements []model.Movement

	for i := analysis.DataStartRow; i < len(grid); i++ {
		row := grid[i]
		if populatedCells(row) < minPopulatedCells {
			continue
		}

		m, ok := e.buildMovement(row, analysis.Mapping)
		if !ok {
			e.log.Warn("skipping unparseable statement row",
				zap.Int("row", i),
				zap.Strings("cells", row))
			continue
		}
		movements = append(movements, m)
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.After(movements[j].Date)
	})
	return movements
}

func (e *Extractor) buildMovement(row []string, mapping model.ColumnMapping) (model.Movement, bool) {
	date, dateOK := parseMapped(row, mapping, model.FieldDate)
	description := strings.TrimSpace(cellAt(row, mapping, model.FieldDescription))
	if !dateOK || description == "" {
		return model.Movement{}, false
	}

	amount, kind := resolveAmount(row, mapping)

	balance := decimal.Zero
	if _, ok := mapping.Column(model.FieldBalance); ok {
		balance = normalize.Amount(cellAt(row, mapping, model.FieldBalance))
	}

	return model.Movement{
		ID:             e.movementID(date),
		Date:           date,
		Description:    description,
		Amount:         amount,
		Kind:           kind,
		RunningBalance: balance,
		Category:       categorize(description, e.rules),
		DocumentRef:    strings.TrimSpace(cellAt(row, mapping, model.FieldDocument)),
		Source:         e.source,
	}, true
}

// resolveAmount applies the split debit/credit encoding when both columns
// are mapped, otherwise the single signed amount column.
func resolveAmount(row []string, mapping model.ColumnMapping) (decimal.Decimal, model.MovementKind) {
	_, hasDebit := mapping.Column(model.FieldDebit)
	_, hasCredit := mapping.Column(model.FieldCredit)

	if hasDebit && hasCredit {
		debit := normalize.Amount(cellAt(row, mapping, model.FieldDebit))
		credit := normalize.Amount(cellAt(row, mapping, model.FieldCredit))

		switch {
		case credit.IsPositive():
			return credit, model.KindInflow
		case debit.IsPositive():
			return debit.Neg(), model.KindOutflow
		default:
			return decimal.Zero, model.KindNeutral
		}
	}

	if _, ok := mapping.Column(model.FieldAmount); ok {
		amount := normalize.Amount(cellAt(row, mapping, model.FieldAmount))
		if amount.IsNegative() {
			return amount, model.KindOutflow
		}
		return amount, model.KindInflow
	}

	return decimal.Zero, model.KindNeutral
}

// movementID builds an ID like cartola-excel_20240315_9f3a2c1d.
func (e *Extractor) movementID(date time.Time) string {
	return fmt.Sprintf("%s_%s_%s", e.source, date.Format("20060102"), uuid.NewString()[:8])
}

func parseMapped(row []string, mapping model.ColumnMapping, f model.Field) (time.Time, bool) {
	raw := cellAt(row, mapping, f)
	if raw == "" {
		return time.Time{}, false
	}
	return normalize.Date(raw)
}

func cellAt(row []string, mapping model.ColumnMapping, f model.Field) string {
	idx, ok := mapping.Column(f)
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func populatedCells(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}
