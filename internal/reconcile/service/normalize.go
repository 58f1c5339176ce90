package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures that carry no combining mark and survive NFD
var ligatures = strings.NewReplacer("œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE")

// Normalize strips diacritics and upper-cases a commune name for comparison.
// "Saint-Étienne" -> "SAINT-ETIENNE", "Bœurs-en-Othe" -> "BOEURS-EN-OTHE".
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, ligatures.Replace(name))
	if err != nil {
		out = name
	}
	return strings.ToUpper(out)
}
