package main

import (
	"github.com/spf13/cobra"

	"frelections/internal/sources"
)

func newSourcesCmd(a *app) *cobra.Command {
	var listePath, inseePath, govOut, inseeOut string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Convert the ministry commune list and the INSEE list to JSON",
		Long: `Reads the ministry listeregdptcom.xml (region > departement > commune)
and an INSEE commune file (CSV/XLS/XLSX, columns insee/nom or COG names),
and writes gov-codes.json and insee-codes.json keyed by code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.logger.With().Str("cmd", "sources").Logger()

			if listePath != "" {
				gov, err := sources.LoadGovernment(listePath)
				if err != nil {
					return err
				}
				log.Info().Int("communes", len(gov)).Str("from", listePath).Msg("ministry list loaded")
				if err := a.writeJSON(a.dataPath(govOut, "gov-codes.json"), sources.GovernmentByCode(gov)); err != nil {
					return err
				}
			}
			if inseePath != "" {
				idx, err := sources.LoadInsee(inseePath)
				if err != nil {
					return err
				}
				log.Info().Int("communes", len(idx)).Str("from", inseePath).Msg("INSEE list loaded")
				if err := a.writeJSON(a.dataPath(inseeOut, "insee-codes.json"), idx); err != nil {
					return err
				}
			}
			if listePath == "" && inseePath == "" {
				return cmd.Help()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listePath, "liste", "", "ministry listeregdptcom.xml")
	cmd.Flags().StringVar(&inseePath, "insee", "", "INSEE commune file (csv, xls, xlsx)")
	cmd.Flags().StringVar(&govOut, "gov-out", "", "output path (default <data>/gov-codes.json)")
	cmd.Flags().StringVar(&inseeOut, "insee-out", "", "output path (default <data>/insee-codes.json)")
	return cmd
}
