package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(name string, votes int) Candidate {
	return Candidate{Surname: name, Votes: votes}
}

func TestFlattenTranslatesAndSorts(t *testing.T) {
	in := []CommuneResult{{
		Dpt:        "75",
		Com:        "056AR01",
		Name:       "Paris 1er arrondissement",
		Ballots:    Ballots{Registered: 100, Abstentions: 20, Voters: 80, Blank: 2, Spoiled: 1, Valid: 77},
		Candidates: []Candidate{cand("LE PEN", 10), cand("MACRON", 40), cand("FILLON", 27)},
	}}
	out := Flatten(in, map[string]string{"75056AR01": "75101"})

	require.Contains(t, out.Index, "75101")
	rec := out.Index["75101"]
	assert.Equal(t, "75056AR01", rec.SourceCode)
	assert.True(t, rec.Translated)
	assert.Equal(t, 77, rec.Ballots.Valid)
	assert.Equal(t, []Candidate{cand("MACRON", 40), cand("FILLON", 27), cand("LE PEN", 10)}, rec.Candidates)
	assert.Equal(t, 1, rec.Rank("MACRON"))
	assert.Equal(t, 3, rec.Rank("LE PEN"))
	assert.Equal(t, 0, rec.Rank("HAMON"))
	assert.Empty(t, out.Untranslated)

	// input slice is left in its original order
	assert.Equal(t, "LE PEN", in[0].Candidates[0].Surname)
}

func TestFlattenStableTies(t *testing.T) {
	in := []CommuneResult{{
		Dpt:        "01",
		Com:        "001",
		Candidates: []Candidate{cand("A", 5), cand("B", 7), cand("C", 5), cand("D", 5)},
	}}
	rec := Flatten(in, map[string]string{"01001": "01001"}).Index["01001"]
	var names []string
	for _, c := range rec.Candidates {
		names = append(names, c.Surname)
	}
	assert.Equal(t, []string{"B", "A", "C", "D"}, names)
}

func TestFlattenUntranslatedSurfaced(t *testing.T) {
	in := []CommuneResult{
		{Dpt: "ZA", Com: "101", Name: "Les Abymes"},
		{Dpt: "01", Com: "001"},
	}
	out := Flatten(in, map[string]string{"01001": "01001"})
	assert.Equal(t, []string{"ZA101"}, out.Untranslated)
	require.Contains(t, out.Index, "ZA101")
	assert.False(t, out.Index["ZA101"].Translated)
	assert.Equal(t, []string{"01001", "ZA101"}, out.Index.Codes())
}

func TestFlattenCollisionsKeepFirst(t *testing.T) {
	in := []CommuneResult{
		{Dpt: "75", Com: "056", Name: "Paris"},
		{Dpt: "75", Com: "056AR01", Name: "Paris 1er arrondissement"},
	}
	out := Flatten(in, map[string]string{"75056": "75101", "75056AR01": "75101"})
	assert.Len(t, out.Index, 1)
	assert.Equal(t, "Paris", out.Index["75101"].Name)
	assert.Equal(t, []string{"75056AR01"}, out.Collisions)
}
