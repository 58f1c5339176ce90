package service

import (
	"math"
	"unicode"

	"github.com/antzucaro/matchr"
)

// DefaultThreshold is the Dice score a name pair must exceed to be trusted.
const DefaultThreshold = 0.40

// Score is the Sørensen-Dice coefficient over character bigrams:
// 2*|shared| / (|bigrams(a)| + |bigrams(b)|). Whitespace is ignored and
// bigrams are counted as a multiset.
func Score(a, b string) float64 {
	ra, rb := compact(a), compact(b)
	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}
	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		g := [2]rune{rb[i], rb[i+1]}
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)-1+len(rb)-1)
}

func compact(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}

// Gate is the pass/fail check applied to a similarity score.
type Gate struct {
	Threshold float64
}

// Accepts reports whether score, rounded to two decimals, is strictly above
// the threshold.
func (g Gate) Accepts(score float64) bool {
	return round2(score) > g.Threshold
}

// Accepts applies the default gate.
func Accepts(score float64) bool {
	return Gate{Threshold: DefaultThreshold}.Accepts(score)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// jaroWinkler is reported next to the Dice score on dubious matches.
func jaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return matchr.JaroWinkler(a, b, false)
}
