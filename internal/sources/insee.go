package sources

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"frelections/internal/fileio"
	"frelections/internal/reconcile/model"
)

// INSEE column aliases: the QGIS extract uses insee/nom, the COG uses
// COM/LIBELLE (plus TYPECOM), older COG files CODGEO/LIBGEO.
const (
	colInseeCode = "insee|COM|CODGEO|code"
	colInseeName = "nom|LIBELLE|NCCENR|LIBGEO|comName"
	colInseeType = "TYPECOM"
)

// kept COG commune types: communes and municipal arrondissements
var keptTypes = map[string]bool{"COM": true, "ARM": true}

// ReadInsee loads the INSEE dataset from the insee-codes JSON object or
// from a CSV/XLS/XLSX table. The first row wins on duplicate codes.
func ReadInsee(r io.Reader, filename string) (model.InseeIndex, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".json" {
		var idx model.InseeIndex
		if err := fileio.ReadJSON(r, &idx); err != nil {
			return nil, err
		}
		for code, c := range idx {
			if c.Code == "" {
				c.Code = code
				idx[code] = c
			}
		}
		return idx, nil
	}

	recs, err := fileio.ReadAnyMaps(r, filename, 1)
	if err != nil {
		return nil, err
	}
	idx := make(model.InseeIndex, len(recs))
	for _, rec := range recs {
		if t := field(rec, colInseeType); t != "" && !keptTypes[t] {
			continue
		}
		code := field(rec, colInseeCode)
		if code == "" {
			continue
		}
		if _, dup := idx[code]; dup {
			continue
		}
		idx[code] = model.InseeCommune{Code: code, ComName: field(rec, colInseeName)}
	}
	return idx, nil
}

// LoadInsee opens path and calls ReadInsee.
func LoadInsee(path string) (model.InseeIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadInsee(f, path)
}
