package export

import (
	"sort"
	"strings"
)

// IDDiff lists codes present on one side only.
type IDDiff struct {
	NotInSpreadsheet []string `json:"IDS_NOT_IN_SPREADSHEET"`
	NotInXML         []string `json:"IDS_NOT_IN_XML"`
}

// DiffIDs compares the flat index codes with the codes of a spreadsheet.
// Both lists come back sorted.
func DiffIDs(resultCodes, sheetCodes []string) IDDiff {
	inResults := set(resultCodes)
	inSheet := set(sheetCodes)

	out := IDDiff{NotInSpreadsheet: []string{}, NotInXML: []string{}}
	for code := range inResults {
		if _, ok := inSheet[code]; !ok {
			out.NotInSpreadsheet = append(out.NotInSpreadsheet, code)
		}
	}
	for code := range inSheet {
		if _, ok := inResults[code]; !ok {
			out.NotInXML = append(out.NotInXML, code)
		}
	}
	sort.Strings(out.NotInSpreadsheet)
	sort.Strings(out.NotInXML)
	return out
}

// SheetCodes extracts the non-blank values of column from rows.
func SheetCodes(rows []map[string]string, column string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if v := strings.TrimSpace(r[column]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func set(codes []string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}
