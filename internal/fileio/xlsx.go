package fileio

import (
	"bytes"
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, headerRow int) (Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return Sheet{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Sheet{}, err
	}
	if len(rows) == 0 {
		return Sheet{}, nil
	}
	return newSheet(rows, headerRow), nil
}

// WriteXLSX writes header and rows to the first sheet of a new workbook.
func WriteXLSX(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	put := func(n int, vals []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := put(1, header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i, r := range rows {
		if err := put(i+2, r); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}
