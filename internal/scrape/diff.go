package scrape

// IndexDiff lists the departments and regions whose extraction moved
// forward between two indices.
type IndexDiff struct {
	Departments []Department `json:"departements"`
	Regions     []Region     `json:"regions"`
}

// Empty reports whether nothing changed.
func (d IndexDiff) Empty() bool { return len(d.Departments) == 0 && len(d.Regions) == 0 }

// DiffIndices compares the previous index with the current one. Entries
// unknown to the previous index count as updated.
func DiffIndices(prev, cur Index) IndexDiff {
	oldDeps := make(map[string]Department, len(prev.Departments))
	for _, d := range prev.Departments {
		oldDeps[d.Key()] = d
	}
	oldRegs := make(map[string]Region, len(prev.Regions))
	for _, r := range prev.Regions {
		oldRegs[r.CodReg] = r
	}

	out := IndexDiff{Departments: []Department{}, Regions: []Region{}}
	for _, d := range cur.Departments {
		old, ok := oldDeps[d.Key()]
		if !ok || d.Extracted().After(old.Extracted()) {
			out.Departments = append(out.Departments, d)
		}
	}
	for _, r := range cur.Regions {
		old, ok := oldRegs[r.CodReg]
		if !ok || r.Extracted().After(old.Extracted()) {
			out.Regions = append(out.Regions, r)
		}
	}
	return out
}
