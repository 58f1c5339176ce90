package service

import (
	"strings"

	"frelections/internal/reconcile/model"
)

// regionNotProvided marks ministry communes that have no INSEE counterpart.
const regionNotProvided = "Non renseigné"

type outcomeKind int

const (
	outcomeNone      outcomeKind = iota // fall through to the next strategy
	outcomeMatch                        // candidate INSEE code found
	outcomeExcluded                     // removed without trace (stage 0)
	outcomeDropped                      // removed on purpose, reported
	outcomeAbandoned                    // unresolved, no later stage applies
)

// Outcome is what a strategy decides for one commune.
type Outcome struct {
	kind      outcomeKind
	code      string // INSEE code on match
	inseeName string // INSEE name checked against the ministry name
	validate  bool
	reason    string
}

func noMatch() Outcome { return Outcome{kind: outcomeNone} }

// Strategy is one stage of the reconciliation chain.
type Strategy interface {
	Stage() model.Stage
	Resolve(c model.GovernmentCommune, idx model.InseeIndex) Outcome
}

func lookup(idx model.InseeIndex, code string) Outcome {
	ic, ok := idx[code]
	if !ok {
		return noMatch()
	}
	target := ic.Code
	if target == "" {
		target = code
	}
	return Outcome{kind: outcomeMatch, code: target, inseeName: ic.ComName, validate: true}
}

// ===== stage 0 =====

type exclusion struct{}

func (exclusion) Stage() model.Stage { return model.StageExclusion }

func (exclusion) Resolve(c model.GovernmentCommune, _ model.InseeIndex) Outcome {
	if c.RegName == regionNotProvided {
		return Outcome{kind: outcomeExcluded}
	}
	return noMatch()
}

// ===== stage 1 =====

type direct struct {
	pinned map[string]string
}

func (direct) Stage() model.Stage { return model.StageDirect }

func (s direct) Resolve(c model.GovernmentCommune, idx model.InseeIndex) Outcome {
	if _, ok := s.pinned[c.Code]; ok {
		return noMatch()
	}
	return lookup(idx, c.Code)
}

// ===== stage 2 =====

// departmentFix rebuilds the code as department + commune code without its
// first character: ministry commune codes carry one extra leading digit for
// some departments.
type departmentFix struct {
	pinned map[string]string
}

func (departmentFix) Stage() model.Stage { return model.StageDepartmentFix }

func (s departmentFix) Resolve(c model.GovernmentCommune, idx model.InseeIndex) Outcome {
	if _, ok := s.pinned[c.Code]; ok {
		return noMatch()
	}
	if c.ComCode == "" {
		return noMatch()
	}
	return lookup(idx, c.DepCode+c.ComCode[1:])
}

// ===== stage 3 =====

// metroRule rewrites arrondissement codes of one department.
type metroRule struct {
	pinned     string // ministry code of the whole city
	pinnedTo   string // INSEE code it resolves to
	from, to   string // substitution applied once to the commune code
	dropMarker string // commune codes containing it have no INSEE code
}

var metroRules = map[string]metroRule{
	"75": {pinned: "75056", pinnedTo: "75101", from: "056AR", to: "1"},                   // Paris, capitale d'état
	"69": {pinned: "69123", pinnedTo: "69381", from: "123AR0", to: "38"},                 // Lyon, préfecture de région
	"13": {pinned: "13055", pinnedTo: "13201", from: "055AR", to: "2", dropMarker: "SR"}, // Marseille, préfecture de région
}

func pinnedCodes() map[string]string {
	out := make(map[string]string, len(metroRules))
	for _, r := range metroRules {
		out[r.pinned] = r.pinnedTo
	}
	return out
}

type metropolitan struct{}

func (metropolitan) Stage() model.Stage { return model.StageMetropolitan }

func (metropolitan) Resolve(c model.GovernmentCommune, idx model.InseeIndex) Outcome {
	rule, ok := metroRules[c.DepCode]
	if !ok {
		return noMatch()
	}
	if c.Code == rule.pinned {
		return Outcome{kind: outcomeMatch, code: rule.pinnedTo}
	}
	replaced := c.DepCode + strings.Replace(c.ComCode, rule.from, rule.to, 1)
	if o := lookup(idx, replaced); o.kind == outcomeMatch {
		return o
	}
	if rule.dropMarker != "" && strings.Contains(c.ComCode, rule.dropMarker) {
		return Outcome{kind: outcomeDropped, reason: "sector"}
	}
	return Outcome{kind: outcomeAbandoned}
}

// ===== stage 4 =====

// defaultCurated are valid INSEE codes missing from the usual INSEE extract
// (checked on insee.fr).
var defaultCurated = []string{
	"55138", // Culey
	"76095", // Bihorel
	"76601", // Saint-Lucien
}

type curated struct {
	codes map[string]struct{}
}

func newCurated(extra []string) curated {
	codes := make(map[string]struct{}, len(defaultCurated)+len(extra))
	for _, c := range defaultCurated {
		codes[c] = struct{}{}
	}
	for _, c := range extra {
		if c = strings.TrimSpace(c); c != "" {
			codes[c] = struct{}{}
		}
	}
	return curated{codes: codes}
}

func (curated) Stage() model.Stage { return model.StageCurated }

func (s curated) Resolve(c model.GovernmentCommune, _ model.InseeIndex) Outcome {
	if _, ok := s.codes[c.Code]; ok {
		return Outcome{kind: outcomeMatch, code: c.Code}
	}
	return Outcome{kind: outcomeAbandoned}
}

// Chain returns the ordered strategies for the given options.
func Chain(opt model.Options) []Strategy {
	pinned := pinnedCodes()
	return []Strategy{
		exclusion{},
		direct{pinned: pinned},
		departmentFix{pinned: pinned},
		metropolitan{},
		newCurated(opt.Curated),
	}
}
