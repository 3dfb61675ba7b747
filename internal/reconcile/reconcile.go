// Package reconcile combines the initial-balance ledger with per-account
// period movement totals and verifies the aggregate against an external
// reference total.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartola-dev/cartola/internal/ledger"
	"github.com/cartola-dev/cartola/internal/model"
)

// DefaultTolerancePercent is the verification threshold: a percent error
// at or above it marks the report out of tolerance.
const DefaultTolerancePercent = 1.0

var hundred = decimal.NewFromInt(100)

// Balances produces one AccountBalance per account seen on either side.
// Ledger accounts come first in file order; accounts that only appear in
// the movement totals follow, sorted by account number, with a zero
// initial balance. A missing entry never fails the reconciliation.
func Balances(entries []model.InitialBalanceEntry, totals map[string]decimal.Decimal, log *zap.Logger) []model.AccountBalance {
	if log == nil {
		log = zap.NewNop()
	}

	totalAccounts := make([]string, 0, len(totals))
	for acct := range totals {
		totalAccounts = append(totalAccounts, acct)
	}
	sort.Strings(totalAccounts)

	matched := make(map[string]bool, len(totals))
	var balances []model.AccountBalance

	for _, e := range entries {
		movements := decimal.Zero
		for _, acct := range totalAccounts {
			if matched[acct] || !ledger.Match(e.AccountNumber, acct) {
				continue
			}
			movements = movements.Add(totals[acct])
			matched[acct] = true
		}

		balances = append(balances, model.AccountBalance{
			AccountNumber:        e.AccountNumber,
			BankName:             e.BankName,
			InitialBalance:       e.InitialBalance,
			PeriodMovementsTotal: movements,
			FinalBalance:         e.InitialBalance.Add(movements),
			Method:               model.MethodInitialPlusMovements,
		})
	}

	for _, acct := range totalAccounts {
		if matched[acct] {
			continue
		}
		log.Warn("no initial balance for account, assuming zero",
			zap.String("account", acct))
		balances = append(balances, model.AccountBalance{
			AccountNumber:        acct,
			PeriodMovementsTotal: totals[acct],
			FinalBalance:         totals[acct],
			Method:               model.MethodMovementsOnly,
		})
	}

	return balances
}

// Verify compares a computed total against the expected reference value.
// An out-of-tolerance result is reported, never raised as an error.
func Verify(computed, expected decimal.Decimal, tolerancePct float64) model.ReconciliationReport {
	diff := computed.Sub(expected).Abs()

	var pctError decimal.Decimal
	switch {
	case !expected.IsZero():
		pctError = diff.Div(expected.Abs()).Mul(hundred)
	case diff.IsZero():
		pctError = decimal.Zero
	default:
		// No reference to scale by; any difference is a full miss.
		pctError = hundred
	}

	return model.ReconciliationReport{
		TotalComputed:      computed,
		ExpectedTotal:      expected,
		AbsoluteDifference: diff,
		PercentError:       pctError,
		WithinTolerance:    pctError.LessThan(decimal.NewFromFloat(tolerancePct)),
	}
}

// Report sums the final balances and verifies them against expected.
func Report(balances []model.AccountBalance, expected decimal.Decimal, tolerancePct float64) model.ReconciliationReport {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.FinalBalance)
	}
	return Verify(total, expected, tolerancePct)
}
