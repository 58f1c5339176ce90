package export

import (
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"frelections/internal/fileio"
	"frelections/internal/results"
	"frelections/internal/utils"
)

// PartyColumns maps candidate slugs to the 2012 party prefix their change
// column is computed against.
var PartyColumns = map[string]string{
	"lepen":     "FN",
	"hamon":     "SOC",
	"melenchon": "LF",
	"fillon":    "REP",
}

// MergeReport counts what Merge did.
type MergeReport struct {
	Rows    int      `json:"rows"`
	Merged  int      `json:"merged"`
	Missing []string `json:"missing"`
}

// Merge enriches a template sheet keyed by "code" with 2017 ranking, vote
// share and change against the 2012 party share. Rows whose code has no
// result are logged and passed through with blank 2017 columns.
func Merge(tmpl fileio.Sheet, flat results.FlatIndex, candidates []string, log zerolog.Logger) (Table, MergeReport) {
	header := append([]string(nil), tmpl.Header...)
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	addCol := func(name string) {
		if !present[name] {
			present[name] = true
			header = append(header, name)
		}
	}
	for _, c := range candidates {
		s := Slug(c)
		addCol(s + "_ranking_2017")
		addCol(s + "_vote_pc_2017")
		if _, ok := PartyColumns[s]; ok {
			addCol(s + "_change_2017")
		}
	}

	rep := MergeReport{Missing: []string{}}
	out := Table{Header: header, Rows: make([][]string, 0, len(tmpl.Rows))}
	for _, src := range tmpl.Rows {
		row := make(map[string]string, len(header))
		for k, v := range src {
			row[k] = v
		}
		rep.Rows++

		code := row["code"]
		rec, ok := flat[code]
		if !ok {
			rep.Missing = append(rep.Missing, code)
			log.Warn().Str("code", code).Msg("no 2017 result for template row")
		} else {
			rep.Merged++
			mergeRow(row, rec, candidates)
		}

		line := make([]string, len(header))
		for i, h := range header {
			line[i] = row[h]
		}
		out.Rows = append(out.Rows, line)
	}
	return out, rep
}

func mergeRow(row map[string]string, rec results.Record, candidates []string) {
	for _, name := range candidates {
		s := Slug(name)
		row[s+"_ranking_2017"] = strconv.Itoa(rec.Rank(name))
		cand, ok := rec.Candidate(name)
		if !ok {
			continue
		}
		row[s+"_vote_pc_2017"] = utils.FormatFloat(cand.ShareExpressed)

		party, ok := PartyColumns[s]
		if !ok {
			continue
		}
		if prev, ok := utils.ParseFloatFR(row[party+"_vote_pc_2012"]); ok {
			row[s+"_change_2017"] = utils.FormatFloat(round2(cand.ShareExpressed - prev))
		}
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
