package results

import (
	"sort"
)

// Candidate is one line of a commune result.
type Candidate struct {
	Surname         string  `json:"nompsn"`
	FirstName       string  `json:"prenompsn,omitempty"`
	Civility        string  `json:"civilitepsn,omitempty"`
	Votes           int     `json:"nbvoix"`
	ShareExpressed  float64 `json:"rapportexprime"` // % of valid ballots
	ShareRegistered float64 `json:"rapportinscrit"` // % of registered voters
}

// Ballots are the aggregate statistics of one commune.
type Ballots struct {
	Registered  int `json:"inscrits"`
	Abstentions int `json:"abstentions"`
	Voters      int `json:"votants"`
	Blank       int `json:"blancs"`
	Spoiled     int `json:"nuls"`
	Valid       int `json:"exprimes"`
}

// CommuneResult is a raw per-commune record keyed by ministry codes.
type CommuneResult struct {
	Dpt        string      `json:"dpt"`
	Com        string      `json:"com"`
	Name       string      `json:"name"`
	Ballots    Ballots     `json:"ballots"`
	Candidates []Candidate `json:"candidates"`
}

// Code is the composite ministry code (department + commune).
func (c CommuneResult) Code() string { return c.Dpt + c.Com }

// Record is a flattened commune keyed by its resolved code.
type Record struct {
	Code       string      `json:"code"`
	SourceCode string      `json:"sourceCode"`
	Name       string      `json:"name"`
	Translated bool        `json:"translated"`
	Ballots    Ballots     `json:"ballots"`
	Candidates []Candidate `json:"candidates"` // descending votes
}

// Rank returns the 1-based position of surname, or 0 when absent.
func (r Record) Rank(surname string) int {
	for i, c := range r.Candidates {
		if c.Surname == surname {
			return i + 1
		}
	}
	return 0
}

// Candidate returns the named candidate.
func (r Record) Candidate(surname string) (Candidate, bool) {
	for _, c := range r.Candidates {
		if c.Surname == surname {
			return c, true
		}
	}
	return Candidate{}, false
}

// FlatIndex maps resolved INSEE codes to records.
type FlatIndex map[string]Record

// Codes returns the index keys in ascending order.
func (f FlatIndex) Codes() []string {
	out := make([]string, 0, len(f))
	for code := range f {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Flattened is the flattener output with its diagnostics.
type Flattened struct {
	Index FlatIndex `json:"index"`
	// Untranslated lists source codes missing from the translation, kept
	// under their ministry code.
	Untranslated []string `json:"untranslated"`
	// Collisions lists source codes whose resolved code was already taken.
	Collisions []string `json:"collisions"`
}

// Flatten keys per-commune results by INSEE code using translation and
// sorts candidates by descending votes (stable on ties).
func Flatten(in []CommuneResult, translation map[string]string) Flattened {
	out := Flattened{
		Index:        make(FlatIndex, len(in)),
		Untranslated: []string{},
		Collisions:   []string{},
	}
	for _, cr := range in {
		src := cr.Code()
		code, ok := translation[src]
		if !ok {
			code = src
			out.Untranslated = append(out.Untranslated, src)
		}
		if _, taken := out.Index[code]; taken {
			out.Collisions = append(out.Collisions, src)
			continue
		}

		cands := make([]Candidate, len(cr.Candidates))
		copy(cands, cr.Candidates)
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Votes > cands[j].Votes })

		out.Index[code] = Record{
			Code:       code,
			SourceCode: src,
			Name:       cr.Name,
			Translated: ok,
			Ballots:    cr.Ballots,
			Candidates: cands,
		}
	}
	return out
}
