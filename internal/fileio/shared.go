package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Sheet is a parsed table: its header in column order and the non-blank
// rows keyed by header.
type Sheet struct {
	Header []string
	Rows   []map[string]string
}

func newSheet(rows [][]string, headerRow int) Sheet {
	h := pickHeader(rows, headerRow)
	return Sheet{Header: h, Rows: rowsToMaps(rows, h, headerRow)}
}

// ReadAnySheet picks a parser from the file extension. headerRow is 1-based.
func ReadAnySheet(r io.Reader, filename string, headerRow int) (Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return Sheet{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// ReadAnyMaps is ReadAnySheet keeping only the rows.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	sh, err := ReadAnySheet(r, filename, headerRow)
	return sh.Rows, err
}

// ReadFileSheet opens path and calls ReadAnySheet.
func ReadFileSheet(path string, headerRow int) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, err
	}
	defer f.Close()
	return ReadAnySheet(f, path, headerRow)
}

// ReadFileMaps opens path and calls ReadAnyMaps.
func ReadFileMaps(path string, headerRow int) ([]map[string]string, error) {
	sh, err := ReadFileSheet(path, headerRow)
	return sh.Rows, err
}

// pickHeader takes the header row and fills blanks with "Column N".
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts rows to maps keyed by header, skipping blank rows.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow
	if start < 1 {
		start = 1
	}
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := map[string]string{}
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
		}
		empty := true
		for _, v := range m {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
