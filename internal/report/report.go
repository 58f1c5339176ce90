package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"frelections/internal/export"
	"frelections/internal/reconcile/model"
	"frelections/internal/reconcile/service"
	"frelections/internal/scrape"
)

// NewTable returns a rounded table mirrored to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Stages prints how many codes each stage resolved and what was left over.
func Stages(w io.Writer, res model.Result) {
	s := res.Stats
	t := NewTable(w)
	t.SetTitle("Reconciliation (threshold %.2f)", res.Opts.Gate(service.DefaultThreshold))
	t.AppendHeader(table.Row{"Stage", "Outcome", "Codes"})
	t.AppendRow(table.Row{int(model.StageExclusion), "excluded", s.Excluded})
	for st := model.StageDirect; st <= model.StageCurated; st++ {
		t.AppendRow(table.Row{int(st), st.String(), s.Matched[st]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"", "dropped", s.Dropped})
	t.AppendRow(table.Row{"", "dubious", s.Dubious})
	t.AppendRow(table.Row{"", "unmatched", s.Unmatched})
	if s.Duplicates > 0 {
		t.AppendRow(table.Row{"", "duplicate rows", s.Duplicates})
	}
	t.AppendFooter(table.Row{"", "total", s.Total})
	t.Render()
}

// Dubious lists up to limit dubious matches; limit <= 0 lists all.
func Dubious(w io.Writer, res model.Result, limit int) {
	if len(res.Dubious) == 0 {
		return
	}
	t := NewTable(w)
	t.SetTitle("Dubious matches")
	t.AppendHeader(table.Row{"Ministry", "INSEE", "Ministry name", "INSEE name", "Dice", "Jaro-Winkler", "Stage"})
	for i, d := range res.Dubious {
		if limit > 0 && i == limit {
			t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("+%d more", len(res.Dubious)-limit)})
			break
		}
		t.AppendRow(table.Row{d.GovernmentCode, d.InseeCode, d.GovName, d.InseeName, d.Score, d.JaroWinkler, int(d.Stage)})
	}
	t.Render()
}

// IDDiff prints both sides of a code diff.
func IDDiff(w io.Writer, diff export.IDDiff) {
	t := NewTable(w)
	t.AppendHeader(table.Row{"Not in spreadsheet", "Not in results"})
	n := max(len(diff.NotInSpreadsheet), len(diff.NotInXML))
	for i := 0; i < n; i++ {
		t.AppendRow(table.Row{at(diff.NotInSpreadsheet, i), at(diff.NotInXML, i)})
	}
	t.AppendFooter(table.Row{len(diff.NotInSpreadsheet), len(diff.NotInXML)})
	t.Render()
}

// Scrape prints a run summary and its failures.
func Scrape(w io.Writer, rep scrape.Report) {
	t := NewTable(w)
	t.SetTitle("Scrape %s", rep.RunID)
	t.AppendHeader(table.Row{"Departments", "Communes", "Failures", "Took"})
	t.AppendRow(table.Row{rep.Departments, rep.Communes, len(rep.Failures), rep.Took.Round(time.Millisecond).String()})
	t.Render()

	if len(rep.Failures) == 0 {
		return
	}
	f := NewTable(w)
	f.AppendHeader(table.Row{"Dep", "Commune", "Status", "Path"})
	for _, x := range rep.Failures {
		f.AppendRow(table.Row{x.Dep, x.Commune, x.Status, x.Path})
	}
	f.Render()
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
