package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"frelections/internal/config"
	"frelections/internal/export"
	"frelections/internal/fileio"
	"frelections/internal/middleware"
	"frelections/internal/reconcile/model"
	recSvc "frelections/internal/reconcile/service"
	"frelections/internal/sources"
)

// Reconcile returns the upload handler, mounted as
// r.Post("/reconcile", recHnd.Reconcile(cfg, logger)).
//
// Form fields: fileGov (ministry XML/JSON/CSV/XLS/XLSX), fileInsee
// (CSV/XLS/XLSX/JSON), optional threshold, curated (comma list), workers
// (capped at GOMAXPROCS) and format=csv for the bare translation table.
func Reconcile(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := middleware.RequestLogger(r, logger)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		gov, err := readUpload(r, "fileGov", sources.ReadGovernment)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		idx, err := readUpload(r, "fileInsee", sources.ReadInsee)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		opt := model.Options{
			Curated: splitList(r.FormValue("curated")),
			Workers: workerCount(r.FormValue("workers")),
		}.WithThreshold(toFloat(r.FormValue("threshold"), cfg.Threshold))

		res, err := recSvc.Reconcile(gov, idx, opt)
		if errors.Is(err, recSvc.ErrEmptyInseeIndex) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("reconcile")
			http.Error(w, "reconcile failed", http.StatusInternalServerError)
			return
		}
		recSvc.LogResult(log, res)

		w.Header().Set("Cache-Control", "no-store")
		if r.FormValue("format") == "csv" {
			t := export.TranslationTable(res)
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			if err := fileio.WriteCSV(w, t.Header, t.Rows); err != nil {
				log.Error().Err(err).Msg("write csv")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("gov", len(gov)).
			Int("insee", len(idx)).
			Int("mapped", len(res.Mapping)).
			Dur("elapsed", time.Since(start)).
			Msg("reconcile done")
	}
}

func readUpload[T any](r *http.Request, field string, read func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return zero, fmt.Errorf("missing %s: %w", field, err)
	}
	defer f.Close()
	v, err := read(f, hdr.Filename)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
