package scrape

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"frelections/internal/results"
)

// Failure is one skipped document.
type Failure struct {
	Dep     string `json:"dep"`
	Commune string `json:"commune,omitempty"`
	Path    string `json:"path"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error"`
}

// Report summarises a scrape run.
type Report struct {
	RunID       string        `json:"runId"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
	Departments int           `json:"departments"`
	Communes    int           `json:"communes"`
	Failures    []Failure     `json:"failures"`
	Took        time.Duration `json:"took"`
}

// Scraper fetches commune results with a bounded worker pool.
type Scraper struct {
	Client  *Client
	Workers int
	Log     zerolog.Logger
}

type communeJob struct {
	dep Department
	ref CommuneRef
}

type outcome[T any] struct {
	val T
	err error
}

// Run fetches every commune of the given departments. Failed documents are
// logged, skipped and listed in the report. Results are ordered by code.
func (s *Scraper) Run(ctx context.Context, deps []Department) ([]results.CommuneResult, Report) {
	rep := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Failures:  []Failure{},
	}
	log := s.Log.With().Str("run", rep.RunID).Logger()
	log.Info().Int("departments", len(deps)).Int("workers", s.workers()).Msg("scrape started")

	listings := pool(s.workers(), deps, func(d Department) outcome[[]CommuneRef] {
		refs, err := s.Client.Communes(ctx, d)
		return outcome[[]CommuneRef]{val: refs, err: err}
	})

	var jobs []communeJob
	for i, l := range listings {
		d := deps[i]
		if l.err != nil {
			rep.Failures = append(rep.Failures, failure(log, d, "", s.Client.DepartmentPath(d), l.err))
			continue
		}
		rep.Departments++
		for _, ref := range l.val {
			jobs = append(jobs, communeJob{dep: d, ref: ref})
		}
	}

	docs := pool(s.workers(), jobs, func(j communeJob) outcome[CommuneDoc] {
		doc, err := s.Client.Commune(ctx, j.dep, j.ref.CodSubCom)
		return outcome[CommuneDoc]{val: doc, err: err}
	})

	out := make([]results.CommuneResult, 0, len(jobs))
	for i, o := range docs {
		j := jobs[i]
		if o.err != nil {
			rep.Failures = append(rep.Failures, failure(log, j.dep, j.ref.CodSubCom, s.Client.CommunePath(j.dep, j.ref.CodSubCom), o.err))
			continue
		}
		if o.val.CodSubCom == "" {
			o.val.CodSubCom = j.ref.CodSubCom
		}
		if o.val.LibSubCom == "" {
			o.val.LibSubCom = j.ref.LibSubCom
		}
		out = append(out, o.val.Result(j.dep.MinistryCode(), s.Client.Round))
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Code() < out[b].Code() })

	rep.Communes = len(out)
	rep.FinishedAt = time.Now().UTC()
	rep.Took = rep.FinishedAt.Sub(rep.StartedAt)
	log.Info().
		Int("departments", rep.Departments).
		Int("communes", rep.Communes).
		Int("failures", len(rep.Failures)).
		Dur("took", rep.Took).
		Msg("scrape finished")
	return out, rep
}

func (s *Scraper) workers() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

func failure(log zerolog.Logger, d Department, commune, path string, err error) Failure {
	f := Failure{Dep: d.MinistryCode(), Commune: commune, Path: path, Error: err.Error()}
	var fe *FetchError
	if errors.As(err, &fe) {
		f.Status = fe.Status
	}
	log.Warn().Err(err).Str("dep", f.Dep).Str("commune", commune).Str("path", path).Msg("acquisition failed, skipped")
	return f
}

// pool applies fn to every job with n workers; results keep job order.
func pool[J, R any](n int, jobs []J, fn func(J) R) []R {
	out := make([]R, len(jobs))
	ch := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				out[i] = fn(jobs[i])
			}
		}()
	}
	for i := range jobs {
		ch <- i
	}
	close(ch)
	wg.Wait()
	return out
}

// Filter keeps the departments listed in diff.
func Filter(deps []Department, diff IndexDiff) []Department {
	keep := make(map[string]struct{}, len(diff.Departments))
	for _, d := range diff.Departments {
		keep[d.Key()] = struct{}{}
	}
	out := make([]Department, 0, len(keep))
	for _, d := range deps {
		if _, ok := keep[d.Key()]; ok {
			out = append(out, d)
		}
	}
	return out
}
