package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// readCSV reads CSV with headerRow (1-based), auto-detecting the encoding
// and the delimiter (',' or ';'), and converting to UTF-8.
func readCSV(r io.Reader, headerRow int) (Sheet, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if cs := detectCharset(peek); cs != "" {
		if enc, err := htmlindex.Get(cs); err == nil {
			dec = enc.NewDecoder().Reader(br)
		}
	}

	cr := csv.NewReader(dec)
	cr.Comma = sniffDelimiter(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return Sheet{}, nil
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return newSheet(rows, headerRow), nil
}

// detectCharset returns the charset to decode from, or "" for UTF-8.
// Invalid UTF-8 that chardet cannot name is read as windows-1252.
func detectCharset(peek []byte) string {
	if len(peek) == 0 || utf8.Valid(trimPartialRune(peek)) {
		return ""
	}
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		switch cs := strings.ToLower(det.Charset); cs {
		case "iso-8859-1", "iso-8859-15", "windows-1252", "windows-1251":
			return cs
		}
	}
	return "windows-1252"
}

// trimPartialRune drops a multi-byte sequence cut by the peek window.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

func sniffDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
