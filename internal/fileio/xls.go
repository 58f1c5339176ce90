package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// computeMaxCols fixes the table width by probing columns for non-empty
// cells; Row.LastCol() is unreliable on INSEE exports.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 256
	maxCols := 0

	checkRow := func(i int) {
		if i < 0 || i > int(sheet.MaxRow) {
			return
		}
		r := sheet.Row(i)
		if r == nil {
			return
		}
		for j := 0; j < probeMax; j++ {
			if v := normalizeCell(r.Col(j)); v != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		checkRow(i)
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader, headerRow int) (Sheet, error) {
	if headerRow <= 0 {
		return Sheet{}, errors.New("headerRow must be 1-based and >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, err
	}

	// INSEE .xls files are mostly cp1252, older ones latin-1
	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"windows-1252", "utf-8", "iso-8859-1"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return Sheet{}, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return Sheet{}, nil
	}

	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	if len(rows) == 0 {
		return Sheet{}, nil
	}

	return newSheet(rows, headerRow), nil
}

func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
	return strings.TrimSpace(s)
}
