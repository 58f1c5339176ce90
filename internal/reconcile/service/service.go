package service

import (
	"errors"
	"runtime"
	"sync"

	"frelections/internal/reconcile/model"
)

// ErrEmptyInseeIndex is the one hard failure: nothing can be reconciled
// against an empty INSEE dataset.
var ErrEmptyInseeIndex = errors.New("reconcile: INSEE index is empty")

// workersPerCPU bounds the pool size whatever Options.Workers asks for.
const workersPerCPU = 4

// decision is the terminal state of one commune after the chain ran.
type decision struct {
	commune model.GovernmentCommune
	stage   model.Stage
	out     Outcome
	dubious *model.DubiousMatch
}

// Reconcile maps every government code to an INSEE code by running the
// strategy chain on each commune, in input order. It never fails on
// individual communes: each code ends excluded, mapped, dropped or unmatched,
// and only its first row decides.
func Reconcile(gov []model.GovernmentCommune, idx model.InseeIndex, opt model.Options) (model.Result, error) {
	opt = opt.WithThreshold(opt.Gate(DefaultThreshold))
	if len(idx) == 0 {
		return model.Result{Opts: opt}, ErrEmptyInseeIndex
	}
	chain := Chain(opt)
	gate := Gate{Threshold: *opt.Threshold}

	decisions := make([]decision, len(gov))
	if n := poolSize(opt.Workers, len(gov)); n > 1 {
		resolveParallel(gov, idx, chain, gate, n, decisions)
	} else {
		for i, c := range gov {
			decisions[i] = resolve(c, idx, chain, gate)
		}
	}
	return assemble(decisions, opt), nil
}

// poolSize clamps the requested worker count to the number of communes and
// to workersPerCPU goroutines per CPU.
func poolSize(requested, communes int) int {
	return max(0, min(requested, communes, runtime.NumCPU()*workersPerCPU))
}

func resolveParallel(gov []model.GovernmentCommune, idx model.InseeIndex, chain []Strategy, gate Gate, workers int, out []decision) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = resolve(gov[i], idx, chain, gate)
			}
		}()
	}
	for i := range gov {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// resolve runs the chain until a strategy yields a terminal outcome.
func resolve(c model.GovernmentCommune, idx model.InseeIndex, chain []Strategy, gate Gate) decision {
	last := model.StageExclusion
	for _, s := range chain {
		last = s.Stage()
		o := s.Resolve(c, idx)
		if o.kind == outcomeNone {
			continue
		}
		d := decision{commune: c, stage: s.Stage(), out: o}
		if o.kind == outcomeMatch && o.validate {
			d.dubious = validate(c, o, s.Stage(), gate)
		}
		return d
	}
	return decision{commune: c, stage: last, out: Outcome{kind: outcomeAbandoned}}
}

func validate(c model.GovernmentCommune, o Outcome, stage model.Stage, gate Gate) *model.DubiousMatch {
	govName, inseeName := Normalize(c.ComName), Normalize(o.inseeName)
	score := Score(inseeName, govName)
	if gate.Accepts(score) {
		return nil
	}
	return &model.DubiousMatch{
		GovernmentCode: c.Code,
		InseeCode:      o.code,
		GovName:        c.ComName,
		InseeName:      o.inseeName,
		Score:          round2(score),
		JaroWinkler:    round2(jaroWinkler(inseeName, govName)),
		Stage:          stage,
	}
}

func assemble(decisions []decision, opt model.Options) model.Result {
	res := model.Result{
		Mapping:   make([]model.TranslationEntry, 0, len(decisions)),
		Dubious:   []model.DubiousMatch{},
		Unmatched: []model.UnmatchedRecord{},
		Dropped:   []model.DroppedRecord{},
		Opts:      opt,
	}
	seen := make(map[string]struct{}, len(decisions))

	for _, d := range decisions {
		if _, dup := seen[d.commune.Code]; dup {
			res.Stats.Duplicates++
			continue
		}
		seen[d.commune.Code] = struct{}{}
		res.Stats.Total++
		switch d.out.kind {
		case outcomeExcluded:
			res.Stats.Excluded++
		case outcomeDropped:
			res.Stats.Dropped++
			res.Dropped = append(res.Dropped, model.DroppedRecord{Code: d.commune.Code, Stage: d.stage, Reason: d.out.reason})
		case outcomeMatch:
			res.Stats.Matched[d.stage]++
			res.Mapping = append(res.Mapping, model.TranslationEntry{
				GovernmentCode: d.commune.Code,
				InseeCode:      d.out.code,
				Stage:          d.stage,
			})
			if d.dubious != nil {
				res.Stats.Dubious++
				res.Dubious = append(res.Dubious, *d.dubious)
			}
		default:
			res.Stats.Unmatched++
			res.Unmatched = append(res.Unmatched, model.UnmatchedRecord{Code: d.commune.Code, Name: d.commune.ComName, Stage: d.stage})
		}
	}
	return res
}
