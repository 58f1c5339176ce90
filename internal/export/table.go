package export

import (
	"strings"

	"frelections/internal/fileio"
	"frelections/internal/reconcile/model"
	"frelections/internal/reconcile/service"
)

// Table is a header plus string rows, ready for fileio writers.
type Table struct {
	Header []string
	Rows   [][]string
}

// Write stores the table as CSV, XLSX or JSON depending on the extension.
func (t Table) Write(path string) error {
	return fileio.WriteTableFile(path, t.Header, t.Rows)
}

// Slug turns a candidate surname into a column prefix:
// "LE PEN" -> "lepen", "MÉLENCHON" -> "melenchon".
func Slug(surname string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(service.Normalize(surname)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TranslationHeader is the header of the code translation CSV.
var TranslationHeader = []string{"ministere interieur", "insee"}

// TranslationTable lists the mapping as ministry code / INSEE code rows,
// in input order.
func TranslationTable(res model.Result) Table {
	t := Table{Header: TranslationHeader, Rows: make([][]string, 0, len(res.Mapping))}
	for _, e := range res.Mapping {
		t.Rows = append(t.Rows, []string{e.GovernmentCode, e.InseeCode})
	}
	return t
}
