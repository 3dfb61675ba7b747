package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/normalize"
)

// ErrEmptyFile means the workbook has no sheets or the selected sheet has
// no populated cells. Fatal for the file; there is nothing to extract.
var ErrEmptyFile = errors.New("workbook has no populated sheets")

// sheetKeywords pick the main statement sheet by name, highest priority
// first. The first keyword with any matching sheet wins.
var sheetKeywords = []string{"cartola", "movimientos", "detalle", "cuenta"}

// Read loads a workbook and returns the raw cell grid of its main sheet
// plus the chosen sheet name. It tries the xlsx format first and falls back
// to legacy xls. Read-only and idempotent for the same bytes.
func Read(r io.Reader) (model.RawGrid, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading workbook: %w", err)
	}

	grid, name, err := readXLSX(data)
	if err == nil || errors.Is(err, ErrEmptyFile) {
		return grid, name, err
	}

	grid, name, xlsErr := readXLS(data)
	if xlsErr == nil || errors.Is(xlsErr, ErrEmptyFile) {
		return grid, name, xlsErr
	}

	return nil, "", fmt.Errorf("opening workbook: %w", err)
}

func readXLSX(data []byte) (model.RawGrid, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", ErrEmptyFile
	}

	name := pickSheet(sheets)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, "", fmt.Errorf("reading sheet %q: %w", name, err)
	}
	if !hasCells(rows) {
		return nil, name, fmt.Errorf("sheet %q: %w", name, ErrEmptyFile)
	}
	return rows, name, nil
}

func readXLS(data []byte) (model.RawGrid, string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("opening xls: %w", err)
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, "", ErrEmptyFile
	}

	names := make([]string, len(sheets))
	for i := range sheets {
		names[i] = sheets[i].GetName()
	}
	name := pickSheet(names)

	var grid model.RawGrid
	for i := range sheets {
		if sheets[i].GetName() != name {
			continue
		}
		for _, row := range sheets[i].GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			grid = append(grid, cells)
		}
		break
	}

	if !hasCells(grid) {
		return nil, name, fmt.Errorf("sheet %q: %w", name, ErrEmptyFile)
	}
	return grid, name, nil
}

// pickSheet applies the keyword priority over folded sheet names.
func pickSheet(names []string) string {
	for _, kw := range sheetKeywords {
		for _, name := range names {
			if strings.Contains(normalize.Fold(name), kw) {
				return name
			}
		}
	}
	return names[0]
}

func hasCells(grid model.RawGrid) bool {
	for _, row := range grid {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
