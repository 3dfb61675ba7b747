package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cartola-dev/cartola/internal/movements"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeStatement(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Cartola Marzo"))
	rows := [][]interface{}{
		{"Fecha", "Descripción", "Cargo", "Abono", "Saldo"},
		{"15/03/2024", "Transferencia recibida", "", "50000", "150000"},
		{"16/03/2024", "Pago proveedor", "12000", "", "138000"},
		{"subtotal", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Cartola Marzo", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", dir, "--source", "banco-x")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized cartola workspace")

	for _, d := range []string{"statements", "movements"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(filepath.Join(dir, "cartola.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "banco-x")
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "marzo.xlsx")
	outCSV := filepath.Join(dir, "movements.csv")
	writeStatement(t, statement)

	out, err := run(t, "process", statement, "-o", outCSV)
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 2 movements")
	assert.Contains(t, out, "Cartola Marzo")

	f, err := os.Open(outCSV)
	require.NoError(t, err)
	defer f.Close()

	ms, err := movements.Read(f)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	// Most recent first.
	assert.Equal(t, "Pago proveedor", ms[0].Description)
	assert.Equal(t, "-12000", ms[0].Amount.String())
}

func TestProcessCommand_All(t *testing.T) {
	dir := t.TempDir()
	stmts := filepath.Join(dir, "statements")
	require.NoError(t, os.MkdirAll(stmts, 0o755))
	writeStatement(t, filepath.Join(stmts, "marzo.xlsx"))
	// A corrupt workbook must not stop the batch.
	require.NoError(t, os.WriteFile(filepath.Join(stmts, "roto.xlsx"), []byte("not a workbook"), 0o644))

	out, err := run(t, "process", "--all", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 1 of 2 statements")

	// Good file converted and archived.
	_, err = os.Stat(filepath.Join(dir, "movements", "marzo.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(stmts, "processed", "marzo.xlsx"))
	assert.NoError(t, err)

	// Bad file left in place.
	_, err = os.Stat(filepath.Join(stmts, "roto.xlsx"))
	assert.NoError(t, err)
}

func TestProcessCommand_AllEmptyWorkspace(t *testing.T) {
	out, err := run(t, "process", "--all", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No statements to process")
}

func TestProcessCommand_MissingFile(t *testing.T) {
	_, err := run(t, "process", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestReconcileCommand(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "marzo.xlsx")
	movementsCSV := filepath.Join(dir, "movements.csv")
	writeStatement(t, statement)

	_, err := run(t, "process", statement, "-o", movementsCSV)
	require.NoError(t, err)

	ledgerPath := filepath.Join(dir, "saldos.txt")
	require.NoError(t, os.WriteFile(ledgerPath,
		[]byte("BCI\ncte cte:89107021\n$178.098\nSaldo al 31 de diciembre 2024\n"), 0o644))

	// 178098 initial + (50000 - 12000) movements = 216098.
	out, err := run(t, "reconcile",
		"--ledger", ledgerPath,
		"--expected", "216098",
		"--movements", "89107021="+movementsCSV)
	require.NoError(t, err)

	assert.Contains(t, out, "final=216098")
	assert.Contains(t, out, "reconciliation OK")
}

func TestReconcileCommand_Mismatch(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "saldos.txt")
	require.NoError(t, os.WriteFile(ledgerPath,
		[]byte("BCI\ncte cte:89107021\n$178.098\n"), 0o644))

	// Way off, but still exit code zero: a mismatch is report data.
	out, err := run(t, "reconcile", "--ledger", ledgerPath, "--expected", "999999999")
	require.NoError(t, err)
	assert.Contains(t, out, "reconciliation MISMATCH")
}

func TestReconcileCommand_BadMovementsFlag(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "saldos.txt")
	require.NoError(t, os.WriteFile(ledgerPath, []byte("BCI\ncte cte:1\n$5\n"), 0o644))

	_, err := run(t, "reconcile", "--ledger", ledgerPath, "--expected", "5",
		"--movements", "not-a-pair")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account=path")
}

func TestReconcileCommand_BadExpected(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "saldos.txt")
	require.NoError(t, os.WriteFile(ledgerPath, []byte("BCI\ncte cte:1\n$5\n"), 0o644))

	_, err := run(t, "reconcile", "--ledger", ledgerPath, "--expected", "one million")
	assert.Error(t, err)
}
