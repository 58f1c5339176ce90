package sources

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"frelections/internal/fileio"
	"frelections/internal/reconcile/model"
)

// listeRegDptCom mirrors the ministry's listeregdptcom.xml:
// region > departement > commune.
type listeRegDptCom struct {
	Regions []struct {
		CodReg       string `xml:"CodReg"`
		LibReg       string `xml:"LibReg"`
		Departements []struct {
			CodMinDpt string `xml:"CodMinDpt"`
			LibDpt    string `xml:"LibDpt"`
			Communes  []struct {
				CodSubCom string `xml:"CodSubCom"`
				LibSubCom string `xml:"LibSubCom"`
			} `xml:"Communes>Commune"`
		} `xml:"Departements>Departement"`
	} `xml:"Regions>Region"`
}

// ParseGovernmentXML reads the ministry commune list in document order.
func ParseGovernmentXML(r io.Reader) ([]model.GovernmentCommune, error) {
	var doc listeRegDptCom
	if err := fileio.DecodeXML(r, &doc); err != nil {
		return nil, fmt.Errorf("decode commune list: %w", err)
	}
	var out []model.GovernmentCommune
	for _, reg := range doc.Regions {
		for _, dpt := range reg.Departements {
			for _, com := range dpt.Communes {
				depCode := strings.TrimSpace(dpt.CodMinDpt)
				comCode := strings.TrimSpace(com.CodSubCom)
				out = append(out, model.GovernmentCommune{
					Code:    depCode + comCode,
					ComName: strings.TrimSpace(com.LibSubCom),
					ComCode: comCode,
					DepCode: depCode,
					DepName: strings.TrimSpace(dpt.LibDpt),
					RegCode: strings.TrimSpace(reg.CodReg),
					RegName: strings.TrimSpace(reg.LibReg),
				})
			}
		}
	}
	return out, nil
}

// Government column aliases for tabular sources.
const (
	colGovCode    = "code"
	colGovComName = "comName|libsubcom|nom"
	colGovComCode = "comCode|codsubcom"
	colGovDepCode = "depCode|codmindpt"
	colGovDepName = "depName|libdpt"
	colGovRegCode = "regCode|codreg"
	colGovRegName = "regName|libreg"
)

// ReadGovernment loads the ministry list from XML, from the gov-codes JSON
// object, or from a CSV/XLS/XLSX table.
func ReadGovernment(r io.Reader, filename string) ([]model.GovernmentCommune, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xml":
		return ParseGovernmentXML(r)
	case ".json":
		var byCode map[string]model.GovernmentCommune
		if err := fileio.ReadJSON(r, &byCode); err != nil {
			return nil, err
		}
		return sortedGovernment(byCode), nil
	}

	recs, err := fileio.ReadAnyMaps(r, filename, 1)
	if err != nil {
		return nil, err
	}
	out := make([]model.GovernmentCommune, 0, len(recs))
	for _, rec := range recs {
		c := model.GovernmentCommune{
			ComName: field(rec, colGovComName),
			ComCode: field(rec, colGovComCode),
			DepCode: field(rec, colGovDepCode),
			DepName: field(rec, colGovDepName),
			RegCode: field(rec, colGovRegCode),
			RegName: field(rec, colGovRegName),
		}
		c.Code = field(rec, colGovCode)
		if c.Code == "" {
			c.Code = c.DepCode + c.ComCode
		}
		if c.Code == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadGovernment opens path and calls ReadGovernment.
func LoadGovernment(path string) ([]model.GovernmentCommune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGovernment(f, path)
}

// GovernmentByCode indexes the list the way gov-codes.json stores it.
func GovernmentByCode(list []model.GovernmentCommune) map[string]model.GovernmentCommune {
	out := make(map[string]model.GovernmentCommune, len(list))
	for _, c := range list {
		out[c.Code] = c
	}
	return out
}

func sortedGovernment(byCode map[string]model.GovernmentCommune) []model.GovernmentCommune {
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]model.GovernmentCommune, 0, len(codes))
	for _, code := range codes {
		c := byCode[code]
		if c.Code == "" {
			c.Code = code
		}
		out = append(out, c)
	}
	return out
}

func field(rec map[string]string, want string) string {
	if k := resolveKey(rec, want); k != "" {
		return strings.TrimSpace(rec[k])
	}
	return ""
}
