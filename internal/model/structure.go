package model

// Field identifies a semantic statement column.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
	FieldAmount      Field = "amount"
	FieldBalance     Field = "balance"
	FieldDocument    Field = "documentId"
)

// RawGrid holds the cell values of one sheet as read from the workbook.
// Immutable after load; numeric cells appear as their string rendering.
type RawGrid [][]string

// ColumnMapping maps semantic fields to zero-based column indexes.
// debit/credit and amount are alternative encodings of the same value;
// a mapping carries one or the other, never both.
type ColumnMapping map[Field]int

// Column returns the index for a field and whether it is mapped.
func (m ColumnMapping) Column(f Field) (int, bool) {
	idx, ok := m[f]
	return idx, ok
}

// StructureAnalysis describes where statement data lives inside a RawGrid.
type StructureAnalysis struct {
	HeaderRow    int // -1 when no header row was found
	Mapping      ColumnMapping
	DataStartRow int
	TotalRows    int
}
