package model

// Stage identifies a step of the reconciliation chain.
type Stage int

const (
	StageExclusion Stage = iota // "Non renseigné" regions
	StageDirect                 // government code used verbatim
	StageDepartmentFix          // department code + commune code minus its first digit
	StageMetropolitan           // Paris / Lyon / Marseille arrondissements
	StageCurated                // codes validated by hand against the INSEE registry
)

// StageCount is the number of stages, 0 through 4.
const StageCount = 5

func (s Stage) String() string {
	switch s {
	case StageExclusion:
		return "exclusion"
	case StageDirect:
		return "direct"
	case StageDepartmentFix:
		return "department-fix"
	case StageMetropolitan:
		return "metropolitan"
	case StageCurated:
		return "curated"
	default:
		return "unknown"
	}
}

// GovernmentCommune is one row of the Ministry of Interior coding scheme.
type GovernmentCommune struct {
	Code    string `json:"code"` // DepCode + ComCode
	ComName string `json:"comName"`
	ComCode string `json:"comCode"`
	DepCode string `json:"depCode"`
	DepName string `json:"depName"`
	RegCode string `json:"regCode"`
	RegName string `json:"regName"`
}

type InseeCommune struct {
	Code    string `json:"code"`
	ComName string `json:"comName"`
}

// InseeIndex is the INSEE dataset keyed by official code.
type InseeIndex map[string]InseeCommune

type TranslationEntry struct {
	GovernmentCode string `json:"governmentCode"`
	InseeCode      string `json:"inseeCode"`
	Stage          Stage  `json:"stage"`
}

// UnmatchedRecord is a government code no strategy could resolve.
type UnmatchedRecord struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Stage Stage  `json:"stage"` // stage at which the code was abandoned
}

// DubiousMatch is an emitted match whose names failed the similarity gate.
type DubiousMatch struct {
	GovernmentCode string  `json:"governmentCode"`
	InseeCode      string  `json:"inseeCode"`
	GovName        string  `json:"govName"`
	InseeName      string  `json:"inseeName"`
	Score          float64 `json:"score"`
	JaroWinkler    float64 `json:"jaroWinkler"`
	Stage          Stage   `json:"stage"`
}

// DroppedRecord is a code discarded on purpose (no INSEE equivalent exists).
type DroppedRecord struct {
	Code   string `json:"code"`
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}

// Stats counts distinct government codes: Total equals
// Excluded + MatchedTotal() + Dropped + Unmatched. Repeated rows for a code
// already decided are counted in Duplicates only.
type Stats struct {
	Total      int             `json:"total"`
	Excluded   int             `json:"excluded"`
	Matched    [StageCount]int `json:"matched"` // index 0 unused
	Dropped    int             `json:"dropped"`
	Dubious    int             `json:"dubious"`
	Unmatched  int             `json:"unmatched"`
	Duplicates int             `json:"duplicates"`
}

// MatchedTotal sums matches over stages 1..4.
func (s Stats) MatchedTotal() int {
	n := 0
	for _, m := range s.Matched {
		n += m
	}
	return n
}

type Result struct {
	Mapping   []TranslationEntry `json:"mapping"`
	Dubious   []DubiousMatch     `json:"dubious"`
	Unmatched []UnmatchedRecord  `json:"unmatched"`
	Dropped   []DroppedRecord    `json:"dropped"`
	Stats     Stats              `json:"stats"`
	Opts      Options            `json:"opts"`
}

// Table returns the mapping as government code -> INSEE code.
func (r Result) Table() map[string]string {
	out := make(map[string]string, len(r.Mapping))
	for _, e := range r.Mapping {
		out[e.GovernmentCode] = e.InseeCode
	}
	return out
}

// DubiousCodes lists the government codes of dubious matches, in input order.
func (r Result) DubiousCodes() []string {
	out := make([]string, 0, len(r.Dubious))
	for _, d := range r.Dubious {
		out = append(out, d.GovernmentCode)
	}
	return out
}

type Options struct {
	Threshold *float64 `json:"threshold,omitempty"` // Dice gate, accepts when score > Threshold; nil uses the default
	Curated   []string `json:"curated"`             // extra stage-4 codes mapped to themselves
	Workers   int      `json:"workers"`             // > 1 reconciles communes concurrently
}

// Gate returns the configured threshold, or def when none was set.
func (o Options) Gate(def float64) float64 {
	if o.Threshold == nil {
		return def
	}
	return *o.Threshold
}

// WithThreshold returns o with its Dice threshold set to v, zero included.
func (o Options) WithThreshold(v float64) Options {
	o.Threshold = &v
	return o
}
