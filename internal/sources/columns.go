package sources

import (
	"regexp"
	"strings"

	"frelections/internal/reconcile/service"
)

var rxNotAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey folds a column name: accents stripped, lower case,
// punctuation and repeated spaces collapsed.
func normHeaderKey(s string) string {
	s = strings.ToLower(service.Normalize(strings.TrimSpace(s)))
	s = rxNotAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real key of rec for a wanted column. want may list
// alternatives separated by "|" ("insee|COM|code"); exact names win over
// normalized ones, and earlier alternatives over later ones.
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	for _, a := range alts {
		n := normHeaderKey(a)
		for k := range rec {
			if normHeaderKey(k) == n {
				return k
			}
		}
	}
	return ""
}
