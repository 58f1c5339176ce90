package scrape

import (
	"strconv"
	"strings"
	"time"

	"frelections/internal/results"
	"frelections/internal/utils"
)

// Index is the round index listing departments and regions with their
// last extraction time.
type Index struct {
	Type        string       `xml:"Scrutin>Type" json:"type"`
	Year        string       `xml:"Scrutin>Annee" json:"year"`
	Departments []Department `xml:"Departements>Departement" json:"departements"`
	Regions     []Region     `xml:"Regions>Region" json:"regions"`
}

type Department struct {
	CodDpt          string `xml:"CodDpt" json:"coddpt"`
	CodDpt3Car      string `xml:"CodDpt3Car" json:"coddpt3car"`
	CodMinDpt       string `xml:"CodMinDpt" json:"codmindpt"`
	LibDpt          string `xml:"LibDpt" json:"libdpt"`
	CodReg          string `xml:"CodReg" json:"codreg"`
	CodReg3Car      string `xml:"CodReg3Car" json:"codreg3car"`
	DateDerMaj      string `xml:"DateDerMaj" json:"datedermaj"`
	HeureDerMaj     string `xml:"HeureDerMaj" json:"heuredermaj"`
	DateDerExtract  string `xml:"DateDerExtract" json:"datederextract"`
	HeureDerExtract string `xml:"HeureDerExtract" json:"heurederextract"`
	Complet         string `xml:"Complet" json:"complet"`
}

// Key identifies a department across indices.
func (d Department) Key() string { return d.CodDpt + d.CodReg }

// MinistryCode is the department part of ministry commune codes.
func (d Department) MinistryCode() string {
	if d.CodMinDpt != "" {
		return d.CodMinDpt
	}
	return d.CodDpt
}

func (d Department) Extracted() time.Time { return extractTime(d.DateDerExtract, d.HeureDerExtract) }

type Region struct {
	CodReg          string `xml:"CodReg" json:"codreg"`
	CodReg3Car      string `xml:"CodReg3Car" json:"codreg3car"`
	LibReg          string `xml:"LibReg" json:"libreg"`
	DateDerMaj      string `xml:"DateDerMaj" json:"datedermaj"`
	HeureDerMaj     string `xml:"HeureDerMaj" json:"heuredermaj"`
	DateDerExtract  string `xml:"DateDerExtract" json:"datederextract"`
	HeureDerExtract string `xml:"HeureDerExtract" json:"heurederextract"`
	Complet         string `xml:"Complet" json:"complet"`
}

func (r Region) Extracted() time.Time { return extractTime(r.DateDerExtract, r.HeureDerExtract) }

var extractLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"02/01/2006T15:04:05",
	"02/01/2006T15:04",
}

// extractTime parses a date/hour pair; unparseable input yields the zero time.
func extractTime(date, hour string) time.Time {
	s := strings.TrimSpace(date) + "T" + strings.TrimSpace(hour)
	for _, layout := range extractLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CommuneRef is one entry of a department listing.
type CommuneRef struct {
	CodSubCom string `xml:"CodSubCom"`
	LibSubCom string `xml:"LibSubCom"`
}

type departmentDoc struct {
	Communes []CommuneRef `xml:"Departement>Communes>Commune"`
}

type mention struct {
	Nombre string `xml:"Nombre"`
}

type candidateXML struct {
	NomPsn         string `xml:"NomPsn"`
	PrenomPsn      string `xml:"PrenomPsn"`
	CivilitePsn    string `xml:"CivilitePsn"`
	NbVoix         string `xml:"NbVoix"`
	RapportExprime string `xml:"RapportExprime"`
	RapportInscrit string `xml:"RapportInscrit"`
}

// Tour holds the ballots and candidates of one round. Round-2 documents
// also carry the round-1 Tour, so rounds are never merged.
type Tour struct {
	NumTour     string         `xml:"NumTour"`
	Inscrits    mention        `xml:"Mentions>Inscrits"`
	Abstentions mention        `xml:"Mentions>Abstentions"`
	Votants     mention        `xml:"Mentions>Votants"`
	Blancs      mention        `xml:"Mentions>Blancs"`
	Nuls        mention        `xml:"Mentions>Nuls"`
	Exprimes    mention        `xml:"Mentions>Exprimes"`
	Candidats   []candidateXML `xml:"Resultats>Candidats>Candidat"`
}

// CommuneDoc is the decoded result document of one commune.
type CommuneDoc struct {
	CodSubCom string `xml:"CodSubCom"`
	LibSubCom string `xml:"LibSubCom"`
	Tours     []Tour `xml:"Tours>Tour"`
}

// Tour returns the round numbered n. A lone Tour without NumTour is taken
// as the requested round.
func (c CommuneDoc) Tour(n int) (Tour, bool) {
	for _, t := range c.Tours {
		if num, err := strconv.Atoi(strings.TrimSpace(t.NumTour)); err == nil && num == n {
			return t, true
		}
	}
	if len(c.Tours) == 1 && strings.TrimSpace(c.Tours[0].NumTour) == "" {
		return c.Tours[0], true
	}
	return Tour{}, false
}

type communeFile struct {
	Departement struct {
		CodDpt  string     `xml:"CodDpt"`
		Commune CommuneDoc `xml:"Commune"`
	} `xml:"Departement"`
}

// Result converts round n of the document into a flattener record, parsing
// French formatted numbers. Unparseable numbers become zero and a missing
// round yields empty ballots.
func (c CommuneDoc) Result(dpt string, n int) results.CommuneResult {
	tour, _ := c.Tour(n)
	num := func(s string) int {
		n, _ := utils.ParseIntFR(s)
		return n
	}
	pct := func(s string) float64 {
		f, _ := utils.ParseFloatFR(s)
		return f
	}
	out := results.CommuneResult{
		Dpt:  dpt,
		Com:  c.CodSubCom,
		Name: c.LibSubCom,
		Ballots: results.Ballots{
			Registered:  num(tour.Inscrits.Nombre),
			Abstentions: num(tour.Abstentions.Nombre),
			Voters:      num(tour.Votants.Nombre),
			Blank:       num(tour.Blancs.Nombre),
			Spoiled:     num(tour.Nuls.Nombre),
			Valid:       num(tour.Exprimes.Nombre),
		},
		Candidates: make([]results.Candidate, 0, len(tour.Candidats)),
	}
	for _, x := range tour.Candidats {
		out.Candidates = append(out.Candidates, results.Candidate{
			Surname:         strings.TrimSpace(x.NomPsn),
			FirstName:       strings.TrimSpace(x.PrenomPsn),
			Civility:        strings.TrimSpace(x.CivilitePsn),
			Votes:           num(x.NbVoix),
			ShareExpressed:  pct(x.RapportExprime),
			ShareRegistered: pct(x.RapportInscrit),
		})
	}
	return out
}
