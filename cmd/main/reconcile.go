package main

import (
	"github.com/spf13/cobra"

	"frelections/internal/export"
	"frelections/internal/reconcile/model"
	"frelections/internal/reconcile/service"
	"frelections/internal/report"
	"frelections/internal/sources"
)

func newReconcileCmd(a *app) *cobra.Command {
	var govPath, inseePath string
	var threshold float64
	var workers, show int
	var curated []string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Build the ministry code -> INSEE code translation table",
		Long: `Runs every ministry commune through the strategy chain (exclusion, direct,
department fix, Paris/Lyon/Marseille rules, curated codes) and writes:

  government-to-insee.json     mapping ministry code -> INSEE code
  code-translation-table.csv   same mapping as CSV
  dubious-codes.json           codes whose names failed the Dice gate
  dubious-report.json          the dubious matches with both scores
  unmatched-codes.json         codes no strategy resolved
  reconcile-report.json        the full result with per-stage counts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.logger.With().Str("cmd", "reconcile").Logger()

			gov, err := sources.LoadGovernment(a.dataPath(govPath, "gov-codes.json"))
			if err != nil {
				return err
			}
			idx, err := sources.LoadInsee(a.dataPath(inseePath, "insee-codes.json"))
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Threshold
			}
			opt := model.Options{Curated: curated, Workers: workers}.WithThreshold(threshold)
			res, err := service.Reconcile(gov, idx, opt)
			if err != nil {
				return err
			}
			service.LogResult(log, res)

			outputs := []struct {
				name string
				v    any
			}{
				{"government-to-insee.json", res.Table()},
				{"dubious-codes.json", res.DubiousCodes()},
				{"dubious-report.json", res.Dubious},
				{"unmatched-codes.json", res.Unmatched},
				{"reconcile-report.json", res},
			}
			for _, o := range outputs {
				if err := a.writeJSON(a.dataPath("", o.name), o.v); err != nil {
					return err
				}
			}
			tablePath := a.dataPath("", "code-translation-table.csv")
			if err := export.TranslationTable(res).Write(tablePath); err != nil {
				return err
			}

			report.Stages(cmd.OutOrStdout(), res)
			report.Dubious(cmd.OutOrStdout(), res, show)
			return nil
		},
	}
	cmd.Flags().StringVar(&govPath, "gov", "", "ministry list (default <data>/gov-codes.json; xml, csv, xlsx accepted)")
	cmd.Flags().StringVar(&inseePath, "insee", "", "INSEE list (default <data>/insee-codes.json; csv, xls, xlsx accepted)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Dice acceptance threshold, 0 accepts any overlap (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "reconcile communes concurrently when > 1")
	cmd.Flags().StringSliceVar(&curated, "curated", nil, "extra INSEE codes mapped to themselves")
	cmd.Flags().IntVar(&show, "show", 20, "dubious matches to print (0 prints all)")
	return cmd
}
