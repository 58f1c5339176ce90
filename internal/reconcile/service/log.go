package service

import (
	"github.com/rs/zerolog"

	"frelections/internal/reconcile/model"
)

// LogResult writes the run diagnostics: one warning per dubious match, the
// per-stage counts, and the unmatched codes at debug level.
func LogResult(log zerolog.Logger, res model.Result) {
	for _, d := range res.Dubious {
		log.Warn().
			Str("gov", d.GovernmentCode).
			Str("insee", d.InseeCode).
			Str("govName", d.GovName).
			Str("inseeName", d.InseeName).
			Float64("dice", d.Score).
			Float64("jw", d.JaroWinkler).
			Int("stage", int(d.Stage)).
			Msg("Low Dice coefficient")
	}

	s := res.Stats
	log.Info().Int("stage", int(model.StageExclusion)).Int("count", s.Excluded).Msg("excluded")
	for st := model.StageDirect; st <= model.StageCurated; st++ {
		log.Info().Int("stage", int(st)).Str("strategy", st.String()).Int("count", s.Matched[st]).Msg("matched")
	}
	log.Info().
		Int("total", s.Total).
		Int("mapped", s.MatchedTotal()).
		Int("dropped", s.Dropped).
		Int("dubious", s.Dubious).
		Int("unmatched", s.Unmatched).
		Int("duplicates", s.Duplicates).
		Msg("reconcile summary")

	if len(res.Unmatched) > 0 {
		codes := make([]string, 0, len(res.Unmatched))
		for _, u := range res.Unmatched {
			codes = append(codes, u.Code)
		}
		log.Debug().Strs("codes", codes).Msg("unmatched codes")
	}
}
