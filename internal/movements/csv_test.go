package movements

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartola-dev/cartola/internal/model"
)

func sampleMovements() []model.Movement {
	return []model.Movement{
		{
			ID:             "cartola-excel_20240316_aa11bb22",
			Date:           time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			Description:    "Pago proveedor",
			Amount:         decimal.NewFromInt(-12000),
			Kind:           model.KindOutflow,
			RunningBalance: decimal.NewFromInt(138000),
			Category:       model.CategoryPago,
			DocumentRef:    "DOC-91",
			Source:         "cartola-excel",
		},
		{
			ID:          "cartola-excel_20240315_cc33dd44",
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Description: "Transferencia recibida",
			Amount:      decimal.NewFromInt(50000),
			Kind:        model.KindInflow,
			Category:    model.CategoryTransferencia,
			Source:      "cartola-excel",
		},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleMovements()))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Pago proveedor", got[0].Description)
	assert.Equal(t, "-12000", got[0].Amount.String())
	assert.Equal(t, model.KindOutflow, got[0].Kind)
	assert.Equal(t, "138000", got[0].RunningBalance.String())
	assert.Equal(t, "DOC-91", got[0].DocumentRef)

	assert.True(t, got[1].RunningBalance.IsZero())
	assert.Equal(t, model.CategoryTransferencia, got[1].Category)
}

func TestRead_EmptyInput(t *testing.T) {
	got, err := Read(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRead_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshal_BadDate(t *testing.T) {
	rec := []string{"id", "NOTADATE", "desc", "10", "inflow", "", "otros", "", "src"}
	_, err := Unmarshal(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestUnmarshal_BadAmount(t *testing.T) {
	rec := []string{"id", "2024-03-15", "desc", "NaNope", "inflow", "", "otros", "", "src"}
	_, err := Unmarshal(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestUnmarshal_WrongFieldCount(t *testing.T) {
	_, err := Unmarshal([]string{"too", "short"})
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	assert.Equal(t, "38000", Sum(sampleMovements()).String())
	assert.True(t, Sum(nil).IsZero())
}
