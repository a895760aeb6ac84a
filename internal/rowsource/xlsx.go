package rowsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX reads rows from one sheet of a workbook.
type XLSX struct {
	path  string
	sheet string
}

// NewXLSX returns an XLSX source. An empty sheet selects the first one.
func NewXLSX(path, sheet string) *XLSX {
	return &XLSX{path: path, sheet: sheet}
}

// Name returns the file path, with the sheet when one was named.
func (x *XLSX) Name() string {
	if x.sheet == "" {
		return x.path
	}
	return x.path + "#" + x.sheet
}

// Rows reads every row of the sheet as formatted cell text. The workbook
// does not keep trailing empty cells, so every row is padded with "" to the
// sheet's width: the widest row or the used range, whichever is wider. The
// column locator counts from the end of the row.
func (x *XLSX) Rows(ctx context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := x.sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", x.path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return padRows(rows, dimensionWidth(f, sheetName)), nil
}

// dimensionWidth returns the column count of the sheet's used range, or 0
// when the workbook does not record one.
func dimensionWidth(f *excelize.File, sheet string) int {
	ref, err := f.GetSheetDimension(sheet)
	if err != nil || ref == "" {
		return 0
	}
	last := ref
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		last = ref[i+1:]
	}
	col, _, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0
	}
	return col
}

// padRows extends every row to at least width cells, and to the widest row.
func padRows(rows [][]string, width int) [][]string {
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if missing := width - len(row); missing > 0 {
			rows[i] = append(row, make([]string, missing)...)
		}
	}
	return rows
}
