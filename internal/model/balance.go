package model

import "github.com/shopspring/decimal"

// InitialBalanceEntry is one account block parsed from the saldos ledger.
type InitialBalanceEntry struct {
	BankName       string
	AccountNumber  string
	InitialBalance decimal.Decimal // CLP, whole pesos
}

// ComputationMethod records how a final balance was derived.
type ComputationMethod string

const (
	MethodInitialPlusMovements ComputationMethod = "initial-plus-movements"
	MethodMovementsOnly        ComputationMethod = "movements-only"
)

// AccountBalance is the per-account reconciliation output.
type AccountBalance struct {
	AccountNumber        string
	BankName             string
	InitialBalance       decimal.Decimal
	PeriodMovementsTotal decimal.Decimal
	FinalBalance         decimal.Decimal // InitialBalance + PeriodMovementsTotal
	Method               ComputationMethod
}

// ReconciliationReport compares the computed aggregate against an external
// reference total. An out-of-tolerance report is data for the caller, not
// an error.
type ReconciliationReport struct {
	TotalComputed      decimal.Decimal
	ExpectedTotal      decimal.Decimal
	AbsoluteDifference decimal.Decimal
	PercentError       decimal.Decimal
	WithinTolerance    bool
}
