package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartola-dev/cartola/internal/model"
)

func clp(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestBalances_InitialPlusMovements(t *testing.T) {
	entries := []model.InitialBalanceEntry{
		{BankName: "BCI", AccountNumber: "89107021", InitialBalance: clp(178098)},
	}
	totals := map[string]decimal.Decimal{"89107021": clp(1071902)}

	balances := Balances(entries, totals, nil)
	require.Len(t, balances, 1)

	b := balances[0]
	assert.Equal(t, "BCI", b.BankName)
	assert.Equal(t, "1250000", b.FinalBalance.String())
	assert.Equal(t, model.MethodInitialPlusMovements, b.Method)
}

func TestBalances_SubstringAccountMatch(t *testing.T) {
	entries := []model.InitialBalanceEntry{
		{BankName: "Banco de Chile", AccountNumber: "12-345-678", InitialBalance: clp(1000)},
	}
	totals := map[string]decimal.Decimal{"0012345678": clp(500)}

	balances := Balances(entries, totals, nil)
	require.Len(t, balances, 1)
	assert.Equal(t, "1500", balances[0].FinalBalance.String())
}

func TestBalances_MissingInitialBalanceIsZero(t *testing.T) {
	totals := map[string]decimal.Decimal{"555": clp(42000)}

	balances := Balances(nil, totals, nil)
	require.Len(t, balances, 1)

	b := balances[0]
	assert.True(t, b.InitialBalance.IsZero())
	assert.Equal(t, "42000", b.FinalBalance.String())
	assert.Equal(t, model.MethodMovementsOnly, b.Method)
}

func TestBalances_LedgerAccountWithoutMovements(t *testing.T) {
	entries := []model.InitialBalanceEntry{
		{BankName: "Santander", AccountNumber: "555000111", InitialBalance: clp(90)},
	}

	balances := Balances(entries, nil, nil)
	require.Len(t, balances, 1)
	assert.Equal(t, "90", balances[0].FinalBalance.String())
	assert.True(t, balances[0].PeriodMovementsTotal.IsZero())
}

func TestBalances_UnmatchedTotalsSortedByAccount(t *testing.T) {
	totals := map[string]decimal.Decimal{
		"zzz9": clp(1),
		"aaa1": clp(2),
	}

	balances := Balances(nil, totals, nil)
	require.Len(t, balances, 2)
	assert.Equal(t, "aaa1", balances[0].AccountNumber)
	assert.Equal(t, "zzz9", balances[1].AccountNumber)
}

func TestVerify_ExactMatch(t *testing.T) {
	report := Verify(clp(186648977), clp(186648977), DefaultTolerancePercent)

	assert.True(t, report.WithinTolerance)
	assert.True(t, report.PercentError.IsZero())
	assert.True(t, report.AbsoluteDifference.IsZero())
}

func TestVerify_WithinTolerance(t *testing.T) {
	// 0.5% off with a 1% threshold.
	report := Verify(clp(100500), clp(100000), DefaultTolerancePercent)

	assert.True(t, report.WithinTolerance)
	assert.Equal(t, "0.5", report.PercentError.String())
	assert.Equal(t, "500", report.AbsoluteDifference.String())
}

func TestVerify_OutsideTolerance(t *testing.T) {
	report := Verify(clp(105000), clp(100000), DefaultTolerancePercent)

	assert.False(t, report.WithinTolerance)
	assert.Equal(t, "5", report.PercentError.String())
}

func TestVerify_BoundaryIsOutside(t *testing.T) {
	// percentError must be strictly below the tolerance.
	report := Verify(clp(101000), clp(100000), DefaultTolerancePercent)
	assert.False(t, report.WithinTolerance)
}

func TestVerify_ZeroExpected(t *testing.T) {
	report := Verify(decimal.Zero, decimal.Zero, DefaultTolerancePercent)
	assert.True(t, report.WithinTolerance)

	report = Verify(clp(10), decimal.Zero, DefaultTolerancePercent)
	assert.False(t, report.WithinTolerance)
	assert.Equal(t, "100", report.PercentError.String())
}

func TestReport_SumsFinalBalances(t *testing.T) {
	balances := []model.AccountBalance{
		{FinalBalance: clp(1250000)},
		{FinalBalance: clp(185398977)},
	}

	report := Report(balances, clp(186648977), DefaultTolerancePercent)
	assert.Equal(t, "186648977", report.TotalComputed.String())
	assert.True(t, report.WithinTolerance)
	assert.True(t, report.PercentError.IsZero())
}
