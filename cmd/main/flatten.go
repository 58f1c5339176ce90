package main

import (
	"github.com/spf13/cobra"

	"frelections/internal/fileio"
	"frelections/internal/results"
)

func newFlattenCmd(a *app) *cobra.Command {
	var resultsPath, translationPath, out string

	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Key scraped commune results by INSEE code",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.logger.With().Str("cmd", "flatten").Logger()

			var in []results.CommuneResult
			if err := fileio.ReadJSONFile(a.dataPath(resultsPath, "results.json"), &in); err != nil {
				return err
			}
			var translation map[string]string
			if err := fileio.ReadJSONFile(a.dataPath(translationPath, "government-to-insee.json"), &translation); err != nil {
				return err
			}

			flat := results.Flatten(in, translation)
			if len(flat.Untranslated) > 0 {
				log.Warn().Int("count", len(flat.Untranslated)).Strs("codes", flat.Untranslated).Msg("codes missing from the translation, kept as-is")
			}
			if len(flat.Collisions) > 0 {
				log.Warn().Int("count", len(flat.Collisions)).Strs("codes", flat.Collisions).Msg("codes resolving to an INSEE code already taken, skipped")
			}
			log.Info().Int("communes", len(flat.Index)).Msg("flattened")

			if err := a.writeJSON(a.dataPath(out, "flatmap.json"), flat.Index); err != nil {
				return err
			}
			return a.writeJSON(a.dataPath("", "flatten-report.json"), struct {
				Untranslated []string `json:"untranslated"`
				Collisions   []string `json:"collisions"`
			}{flat.Untranslated, flat.Collisions})
		},
	}
	cmd.Flags().StringVar(&resultsPath, "results", "", "scraped results (default <data>/results.json)")
	cmd.Flags().StringVar(&translationPath, "translation", "", "translation mapping (default <data>/government-to-insee.json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data>/flatmap.json)")
	return cmd
}

func (a *app) loadFlat(path string) (results.FlatIndex, error) {
	var flat results.FlatIndex
	if err := fileio.ReadJSONFile(a.dataPath(path, "flatmap.json"), &flat); err != nil {
		return nil, err
	}
	return flat, nil
}
