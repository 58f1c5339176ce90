package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

var spaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\u2009", "", "\t", "")

// ParseFloatFR parses French-formatted decimals: "24,01", "1 234,5" (also
// with NBSP/NNBSP as thousands separator).
func ParseFloatFR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(spaces.Replace(s), ",", ".")
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// ParseIntFR parses vote counts such as "12 345". Blank input is 0.
func ParseIntFR(s string) (int, bool) {
	s = spaces.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// FormatFloat renders f without trailing zeros ("24.01", "3").
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
