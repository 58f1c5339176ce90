package export

import (
	"strconv"

	"frelections/internal/results"
	"frelections/internal/utils"
)

var ballotColumns = []string{"registered", "abstentions", "voters", "blank", "spoiled", "valid"}

// Winners builds one row per commune: code, then ranking and vote share of
// each tracked candidate. Absent candidates get ranking 0 and a blank share.
func Winners(flat results.FlatIndex, candidates []string) Table {
	return winners(flat, candidates, false)
}

// Extended is Winners plus vote counts and the ballot statistics.
func Extended(flat results.FlatIndex, candidates []string) Table {
	return winners(flat, candidates, true)
}

func winners(flat results.FlatIndex, candidates []string, extended bool) Table {
	header := []string{"code"}
	for _, c := range candidates {
		s := Slug(c)
		header = append(header, s+"_ranking_2017", s+"_vote_pc_2017")
		if extended {
			header = append(header, s+"_votes_2017")
		}
	}
	if extended {
		header = append(header, ballotColumns...)
	}

	codes := flat.Codes()
	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rec := flat[code]
		row := make([]string, 0, len(header))
		row = append(row, code)
		for _, name := range candidates {
			cand, ok := rec.Candidate(name)
			row = append(row, strconv.Itoa(rec.Rank(name)))
			if !ok {
				row = append(row, "")
				if extended {
					row = append(row, "")
				}
				continue
			}
			row = append(row, utils.FormatFloat(cand.ShareExpressed))
			if extended {
				row = append(row, strconv.Itoa(cand.Votes))
			}
		}
		if extended {
			b := rec.Ballots
			for _, n := range []int{b.Registered, b.Abstentions, b.Voters, b.Blank, b.Spoiled, b.Valid} {
				row = append(row, strconv.Itoa(n))
			}
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}
