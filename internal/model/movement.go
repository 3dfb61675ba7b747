package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies the direction of a statement line.
type MovementKind string

const (
	KindInflow  MovementKind = "inflow"
	KindOutflow MovementKind = "outflow"
	KindNeutral MovementKind = "neutral"
)

// Category tags a movement by the kind of operation its description suggests.
type Category string

const (
	CategoryTransferencia Category = "transferencia"
	CategoryPago          Category = "pago"
	CategoryDeposito      Category = "deposito"
	CategoryComision      Category = "comision"
	CategoryInteres       Category = "interes"
	CategoryImpuesto      Category = "impuesto"
	CategoryRemuneracion  Category = "remuneracion"
	CategoryServicio      Category = "servicio"
	CategoryOtros         Category = "otros"
)

// Movement is one bank-statement line item. Created once per valid source
// row and never mutated afterwards.
type Movement struct {
	ID             string
	Date           time.Time       // calendar date, no time component
	Description    string
	Amount         decimal.Decimal // positive = inflow, negative = outflow
	Kind           MovementKind
	RunningBalance decimal.Decimal // zero if the statement has no balance column
	Category       Category
	DocumentRef    string
	Source         string // fixed tag identifying spreadsheet origin
}
