package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const indexXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<Election>
  <Scrutin><Type>Présidentielle</Type><Annee>2017</Annee></Scrutin>
  <Departements>
    <Departement>
      <CodDpt>01</CodDpt><CodDpt3Car>001</CodDpt3Car><CodMinDpt>01</CodMinDpt>
      <LibDpt>Ain</LibDpt><CodReg>84</CodReg><CodReg3Car>084</CodReg3Car>
      <DateDerExtract>2017-04-23</DateDerExtract><HeureDerExtract>21:00:00</HeureDerExtract>
      <Complet>O</Complet>
    </Departement>
  </Departements>
  <Regions>
    <Region>
      <CodReg>84</CodReg><CodReg3Car>084</CodReg3Car><LibReg>Auvergne-Rhône-Alpes</LibReg>
      <DateDerExtract>2017-04-23</DateDerExtract><HeureDerExtract>21:00:00</HeureDerExtract>
    </Region>
  </Regions>
</Election>`

const idxXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<Election>
  <Departement>
    <CodDpt>01</CodDpt>
    <Communes>
      <Commune><CodSubCom>001</CodSubCom><LibSubCom>L'Abergement-Clémenciat</LibSubCom></Commune>
      <Commune><CodSubCom>002</CodSubCom><LibSubCom>L'Abergement-de-Varey</LibSubCom></Commune>
    </Communes>
  </Departement>
</Election>`

const communeXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<Election>
  <Departement>
    <CodDpt>01</CodDpt>
    <Commune>
      <CodSubCom>001</CodSubCom><LibSubCom>L'Abergement-Clémenciat</LibSubCom>
      <Tours><Tour><NumTour>1</NumTour>
        <Mentions>
          <Inscrits><Nombre>643</Nombre></Inscrits>
          <Abstentions><Nombre>110</Nombre></Abstentions>
          <Votants><Nombre>533</Nombre></Votants>
          <Blancs><Nombre>8</Nombre></Blancs>
          <Nuls><Nombre>3</Nombre></Nuls>
          <Exprimes><Nombre>522</Nombre></Exprimes>
        </Mentions>
        <Resultats><Candidats>
          <Candidat><NomPsn>LE PEN</NomPsn><PrenomPsn>Marine</PrenomPsn><CivilitePsn>Mme</CivilitePsn><NbVoix>130</NbVoix><RapportExprime>24,90</RapportExprime><RapportInscrit>20,22</RapportInscrit></Candidat>
          <Candidat><NomPsn>MACRON</NomPsn><PrenomPsn>Emmanuel</PrenomPsn><CivilitePsn>M.</CivilitePsn><NbVoix>1 150</NbVoix><RapportExprime>28,74</RapportExprime><RapportInscrit>23,33</RapportInscrit></Candidat>
        </Candidats></Resultats>
      </Tour></Tours>
    </Commune>
  </Departement>
</Election>`

const communeT2XML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<Election>
  <Departement>
    <CodDpt>01</CodDpt>
    <Commune>
      <CodSubCom>001</CodSubCom><LibSubCom>L'Abergement-Clémenciat</LibSubCom>
      <Tours>
        <Tour><NumTour>1</NumTour>
          <Mentions><Inscrits><Nombre>643</Nombre></Inscrits><Exprimes><Nombre>522</Nombre></Exprimes></Mentions>
          <Resultats><Candidats>
            <Candidat><NomPsn>LE PEN</NomPsn><NbVoix>130</NbVoix></Candidat>
            <Candidat><NomPsn>MACRON</NomPsn><NbVoix>150</NbVoix></Candidat>
            <Candidat><NomPsn>FILLON</NomPsn><NbVoix>120</NbVoix></Candidat>
          </Candidats></Resultats>
        </Tour>
        <Tour><NumTour>2</NumTour>
          <Mentions><Inscrits><Nombre>644</Nombre></Inscrits><Exprimes><Nombre>480</Nombre></Exprimes></Mentions>
          <Resultats><Candidats>
            <Candidat><NomPsn>LE PEN</NomPsn><NbVoix>190</NbVoix></Candidat>
            <Candidat><NomPsn>MACRON</NomPsn><NbVoix>290</NbVoix></Candidat>
          </Candidats></Resultats>
        </Tour>
      </Tours>
    </Commune>
  </Departement>
</Election>`

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(b)
}

func siteServer(t *testing.T, docs map[string]string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write(latin1(t, body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL+"/PR2017/", 1, 5*time.Second, zerolog.Nop())
}

func TestIndexDecodesLatin1(t *testing.T) {
	srv := siteServer(t, map[string]string{"/PR2017/resultatsT1/index.xml": indexXML}, nil)
	idx, err := newTestClient(srv).Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Présidentielle", idx.Type)
	require.Len(t, idx.Departments, 1)
	d := idx.Departments[0]
	assert.Equal(t, "001", d.CodDpt3Car)
	assert.Equal(t, "084", d.CodReg3Car)
	assert.True(t, d.Extracted().Equal(time.Date(2017, 4, 23, 21, 0, 0, 0, time.Local)))
	require.Len(t, idx.Regions, 1)
	assert.Equal(t, "Auvergne-Rhône-Alpes", idx.Regions[0].LibReg)
}

func TestAcquireErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/PR2017/boom.xml" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	c := newTestClient(srv)

	_, err := c.Acquire(context.Background(), "missing.xml")
	require.ErrorIs(t, err, ErrNotFound)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "missing.xml", fe.Path)

	_, err = c.Acquire(context.Background(), "boom.xml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestPaths(t *testing.T) {
	c := NewClient("http://example.test/PR2017", 2, 0, zerolog.Nop())
	d := Department{CodDpt3Car: "001", CodReg3Car: "084"}
	assert.Equal(t, "resultatsT2/index.xml", c.IndexPath())
	assert.Equal(t, "resultatsT2/084/001/001IDX.xml", c.DepartmentPath(d))
	assert.Equal(t, "resultatsT2/084/001/001002.xml", c.CommunePath(d, "002"))
}

func TestRunSkipsFailures(t *testing.T) {
	var hits int32
	srv := siteServer(t, map[string]string{
		"/PR2017/resultatsT1/084/001/001IDX.xml": idxXML,
		"/PR2017/resultatsT1/084/001/001001.xml": communeXML,
		// 001002 has not reported yet
	}, &hits)

	deps := []Department{
		{CodDpt: "01", CodDpt3Car: "001", CodMinDpt: "01", CodReg: "84", CodReg3Car: "084"},
		{CodDpt: "02", CodDpt3Car: "002", CodMinDpt: "02", CodReg: "32", CodReg3Car: "032"},
	}
	s := &Scraper{Client: newTestClient(srv), Workers: 4, Log: zerolog.Nop()}
	out, rep := s.Run(context.Background(), deps)

	require.Len(t, out, 1)
	r := out[0]
	assert.Equal(t, "01001", r.Code())
	assert.Equal(t, "L'Abergement-Clémenciat", r.Name)
	assert.Equal(t, 643, r.Ballots.Registered)
	assert.Equal(t, 522, r.Ballots.Valid)
	require.Len(t, r.Candidates, 2)
	assert.Equal(t, 1150, r.Candidates[1].Votes)
	assert.InDelta(t, 28.74, r.Candidates[1].ShareExpressed, 1e-9)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 1, rep.Departments)
	assert.Equal(t, 1, rep.Communes)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, "02", rep.Failures[0].Dep)
	assert.Equal(t, "resultatsT1/032/002/002IDX.xml", rep.Failures[0].Path)
	assert.Equal(t, "002", rep.Failures[1].Commune)
	assert.Equal(t, http.StatusNotFound, rep.Failures[1].Status)
	assert.EqualValues(t, 4, atomic.LoadInt32(&hits))
}

func TestCommuneKeepsRoundsApart(t *testing.T) {
	srv := siteServer(t, map[string]string{
		"/PR2017/resultatsT2/084/001/001001.xml": communeT2XML,
		"/PR2017/resultatsT2/084/001/001002.xml": communeXML,
	}, nil)
	c := NewClient(srv.URL+"/PR2017/", 2, 5*time.Second, zerolog.Nop())
	d := Department{CodDpt: "01", CodDpt3Car: "001", CodMinDpt: "01", CodReg: "84", CodReg3Car: "084"}

	doc, err := c.Commune(context.Background(), d, "001")
	require.NoError(t, err)
	require.Len(t, doc.Tours, 2)

	r2 := doc.Result("01", 2)
	assert.Equal(t, 644, r2.Ballots.Registered)
	assert.Equal(t, 480, r2.Ballots.Valid)
	require.Len(t, r2.Candidates, 2)
	assert.Equal(t, 290, r2.Candidates[1].Votes)

	r1 := doc.Result("01", 1)
	assert.Equal(t, 643, r1.Ballots.Registered)
	assert.Len(t, r1.Candidates, 3)

	_, err = c.Commune(context.Background(), d, "002")
	assert.ErrorIs(t, err, ErrRoundMissing)
}

func TestDiffIndices(t *testing.T) {
	dep := func(code, date, hour string) Department {
		return Department{CodDpt: code, CodReg: "84", DateDerExtract: date, HeureDerExtract: hour}
	}
	prev := Index{
		Departments: []Department{dep("01", "2017-04-23", "20:00:00"), dep("03", "2017-04-23", "20:00:00")},
		Regions:     []Region{{CodReg: "84", DateDerExtract: "2017-04-23", HeureDerExtract: "20:00:00"}},
	}
	cur := Index{
		Departments: []Department{
			dep("01", "2017-04-23", "21:30:00"), // moved forward
			dep("03", "2017-04-23", "20:00:00"), // unchanged
			dep("07", "2017-04-23", "19:00:00"), // new
		},
		Regions: []Region{{CodReg: "84", DateDerExtract: "2017-04-23", HeureDerExtract: "20:00:00"}},
	}

	diff := DiffIndices(prev, cur)
	var codes []string
	for _, d := range diff.Departments {
		codes = append(codes, d.CodDpt)
	}
	assert.Equal(t, []string{"01", "07"}, codes)
	assert.Empty(t, diff.Regions)
	assert.False(t, diff.Empty())

	assert.True(t, DiffIndices(cur, cur).Empty())

	kept := Filter(cur.Departments, diff)
	assert.Len(t, kept, 2)
}
