package main

import (
	"github.com/spf13/cobra"

	"frelections/internal/export"
	"frelections/internal/fileio"
	"frelections/internal/report"
)

func newExportCmd(a *app) *cobra.Command {
	var flatPath, out string
	var extended bool
	var candidates []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the winners table (ranking and vote share per candidate)",
		Long: `Writes one row per commune with <candidate>_ranking_2017 and
<candidate>_vote_pc_2017 columns. --extended adds vote counts and ballot
statistics. The format follows the output extension: .csv, .xlsx or .json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := a.loadFlat(flatPath)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				candidates = a.cfg.Candidates
			}

			tbl := export.Winners(flat, candidates)
			name := "winners.csv"
			if extended {
				tbl = export.Extended(flat, candidates)
				name = "winners--extended-data.csv"
			}
			path := a.dataPath(out, name)
			if err := tbl.Write(path); err != nil {
				return err
			}
			a.logger.Info().Str("path", path).Int("rows", len(tbl.Rows)).Msg("written")
			return nil
		},
	}
	cmd.Flags().StringVar(&flatPath, "flat", "", "flat index (default <data>/flatmap.json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data>/winners.csv)")
	cmd.Flags().BoolVar(&extended, "extended", false, "add vote counts and ballot statistics")
	cmd.Flags().StringSliceVar(&candidates, "candidates", nil, "tracked surnames (default from config)")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var flatPath, tmplPath, out string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Add 2017 columns to a results spreadsheet template",
		Long: `Reads a template keyed by "code" with 2012 party columns (FN, SOC, LF,
REP _vote_pc_2012) and adds ranking, vote share and change columns for the
tracked candidates. Rows without a 2017 result pass through unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := a.loadFlat(flatPath)
			if err != nil {
				return err
			}
			tmpl, err := fileio.ReadFileSheet(a.dataPath(tmplPath, "results-spreadsheet-template.csv"), 1)
			if err != nil {
				return err
			}
			log := a.logger.With().Str("cmd", "merge").Logger()
			tbl, rep := export.Merge(tmpl, flat, a.cfg.Candidates, log)

			path := a.dataPath(out, "complete.csv")
			if err := tbl.Write(path); err != nil {
				return err
			}
			log.Info().Str("path", path).Int("rows", rep.Rows).Int("merged", rep.Merged).Int("missing", len(rep.Missing)).Msg("done")
			return nil
		},
	}
	cmd.Flags().StringVar(&flatPath, "flat", "", "flat index (default <data>/flatmap.json)")
	cmd.Flags().StringVar(&tmplPath, "template", "", "template (default <data>/results-spreadsheet-template.csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data>/complete.csv)")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	var flatPath, sheetPath, column, out string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare result codes with the codes of a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := a.loadFlat(flatPath)
			if err != nil {
				return err
			}
			rows, err := fileio.ReadFileMaps(a.dataPath(sheetPath, "communes.csv"), 1)
			if err != nil {
				return err
			}
			diff := export.DiffIDs(flat.Codes(), export.SheetCodes(rows, column))
			if err := a.writeJSON(a.dataPath(out, "IDS_DIFF.json"), diff); err != nil {
				return err
			}
			report.IDDiff(cmd.OutOrStdout(), diff)
			return nil
		},
	}
	cmd.Flags().StringVar(&flatPath, "flat", "", "flat index (default <data>/flatmap.json)")
	cmd.Flags().StringVar(&sheetPath, "sheet", "", "spreadsheet (default <data>/communes.csv)")
	cmd.Flags().StringVar(&column, "column", "insee", "code column of the spreadsheet")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data>/IDS_DIFF.json)")
	return cmd
}
