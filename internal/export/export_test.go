package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frelections/internal/fileio"
	"frelections/internal/reconcile/model"
	"frelections/internal/results"
)

func flatFixture() results.FlatIndex {
	return results.FlatIndex{
		"75101": {
			Code:    "75101",
			Ballots: results.Ballots{Registered: 100, Abstentions: 20, Voters: 80, Blank: 2, Spoiled: 1, Valid: 77},
			Candidates: []results.Candidate{
				{Surname: "MACRON", Votes: 40, ShareExpressed: 51.95},
				{Surname: "FILLON", Votes: 20, ShareExpressed: 25.97},
				{Surname: "LE PEN", Votes: 17, ShareExpressed: 22.08},
			},
		},
		"01001": {
			Code: "01001",
			Candidates: []results.Candidate{
				{Surname: "LE PEN", Votes: 130, ShareExpressed: 24.9},
				{Surname: "MÉLENCHON", Votes: 90, ShareExpressed: 17.24},
			},
		},
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"LE PEN":        "lepen",
		"MÉLENCHON":     "melenchon",
		"DUPONT-AIGNAN": "dupontaignan",
		"MACRON":        "macron",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestWinners(t *testing.T) {
	tbl := Winners(flatFixture(), []string{"LE PEN", "MACRON", "MÉLENCHON"})

	wantHeader := []string{
		"code",
		"lepen_ranking_2017", "lepen_vote_pc_2017",
		"macron_ranking_2017", "macron_vote_pc_2017",
		"melenchon_ranking_2017", "melenchon_vote_pc_2017",
	}
	wantRows := [][]string{
		{"01001", "1", "24.9", "0", "", "2", "17.24"},
		{"75101", "3", "22.08", "1", "51.95", "0", ""},
	}
	if diff := cmp.Diff(wantHeader, tbl.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRows, tbl.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtended(t *testing.T) {
	tbl := Extended(flatFixture(), []string{"MACRON"})
	assert.Equal(t, []string{
		"code", "macron_ranking_2017", "macron_vote_pc_2017", "macron_votes_2017",
		"registered", "abstentions", "voters", "blank", "spoiled", "valid",
	}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"75101", "1", "51.95", "40", "100", "20", "80", "2", "1", "77"}, tbl.Rows[1])
	assert.Equal(t, []string{"01001", "0", "", "", "0", "0", "0", "0", "0", "0"}, tbl.Rows[0])
}

func TestTranslationTable(t *testing.T) {
	res := model.Result{Mapping: []model.TranslationEntry{
		{GovernmentCode: "75056", InseeCode: "75101", Stage: model.StageMetropolitan},
		{GovernmentCode: "01001", InseeCode: "01001", Stage: model.StageDirect},
	}}
	tbl := TranslationTable(res)
	assert.Equal(t, []string{"ministere interieur", "insee"}, tbl.Header)
	assert.Equal(t, [][]string{{"75056", "75101"}, {"01001", "01001"}}, tbl.Rows)

	path := filepath.Join(t.TempDir(), "code-translation-table.csv")
	require.NoError(t, tbl.Write(path))
	rows, err := fileio.ReadFileMaps(path, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "75101", rows[0]["insee"])
}

func TestMerge(t *testing.T) {
	tmpl := fileio.Sheet{
		Header: []string{"code", "FN_vote_pc_2012", "SOC_vote_pc_2012"},
		Rows: []map[string]string{
			{"code": "01001", "FN_vote_pc_2012": "20,3", "SOC_vote_pc_2012": "25.1"},
			{"code": "99999", "FN_vote_pc_2012": "10", "SOC_vote_pc_2012": "30"},
		},
	}
	tbl, rep := Merge(tmpl, flatFixture(), []string{"LE PEN", "HAMON"}, zerolog.Nop())

	assert.Equal(t, []string{
		"code", "FN_vote_pc_2012", "SOC_vote_pc_2012",
		"lepen_ranking_2017", "lepen_vote_pc_2017", "lepen_change_2017",
		"hamon_ranking_2017", "hamon_vote_pc_2017", "hamon_change_2017",
	}, tbl.Header)
	assert.Equal(t, []string{"01001", "20,3", "25.1", "1", "24.9", "4.6", "0", "", ""}, tbl.Rows[0])
	// unknown code passes through untouched
	assert.Equal(t, []string{"99999", "10", "30", "", "", "", "", "", ""}, tbl.Rows[1])

	assert.Equal(t, 2, rep.Rows)
	assert.Equal(t, 1, rep.Merged)
	assert.Equal(t, []string{"99999"}, rep.Missing)
}

func TestDiffIDs(t *testing.T) {
	sheet := SheetCodes([]map[string]string{
		{"insee": "01001"}, {"insee": " 01004 "}, {"insee": ""}, {"insee": "75056"},
	}, "insee")
	diff := DiffIDs([]string{"75101", "01001", "ZA101"}, sheet)
	assert.Equal(t, []string{"75101", "ZA101"}, diff.NotInSpreadsheet)
	assert.Equal(t, []string{"01004", "75056"}, diff.NotInXML)
}
