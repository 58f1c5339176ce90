package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"frelections/internal/config"
	"frelections/internal/fileio"
)

// app is the state shared by every command once the root pre-run has loaded
// the configuration.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
}

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var cfgFile string

	root := &cobra.Command{
		Use:          "frelections",
		Short:        "French 2017 presidential results: scrape, reconcile ministry codes with INSEE, export",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				cfgFile = os.Getenv("CONFIG_FILE")
			}
			cfg, err := config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.SetupLogger(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $CONFIG_FILE)")

	root.AddCommand(
		newSourcesCmd(a),
		newScrapeCmd(a),
		newReconcileCmd(a),
		newFlattenCmd(a),
		newExportCmd(a),
		newMergeCmd(a),
		newDiffCmd(a),
		newServeCmd(a),
	)
	return root
}

// dataPath resolves name inside the data directory unless override is set.
func (a *app) dataPath(override, name string) string {
	if override != "" {
		return override
	}
	return filepath.Join(a.cfg.DataDir, name)
}

func (a *app) writeJSON(path string, v any) error {
	if err := fileio.WriteJSONFile(path, v); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info().Str("path", path).Msg("written")
	return nil
}
