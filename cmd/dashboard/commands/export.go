package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"energy-dashboard-go/internal/config"
	"energy-dashboard-go/internal/dataset"
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/viewmodel"
)

// NewExportCommand creates the export subcommand.
func NewExportCommand() *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "export <file-or-glob>...",
		Short: "Aggregate raw generation tables into a dashboard document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), cfg, args, encoding)
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", dataset.EncodingCP949, "text encoding of CSV inputs (cp949 or utf-8)")
	return cmd
}

func runExport(w io.Writer, cfg *config.Config, patterns []string, encoding string) error {
	log := logger.New().WithField("command", "export")

	ds, err := dataset.ImportFiles(patterns, dataset.ImportOptions{Province: cfg.Province, Encoding: encoding})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if dir := filepath.Dir(cfg.DatasetPath); dir != "." {
		if err := os.MkdirAll(dir, outputDirPerm); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := dataset.SaveFile(cfg.DatasetPath, ds); err != nil {
		return fmt.Errorf("save %s: %w", cfg.DatasetPath, err)
	}

	summary, err := dataset.Summarize(ds)
	if err != nil {
		return err
	}
	log.WithField("path", cfg.DatasetPath).WithField("years", len(summary.Years)).Info("dashboard document written")

	color.New(color.FgGreen).Fprintf(w, "saved %s\n", cfg.DatasetPath)
	fmt.Fprintf(w, "years %s..%s, %d sources, %s total in %s\n",
		summary.Years[0], summary.LatestYear, len(summary.Sources),
		viewmodel.EnergyFormat().Format(summary.LatestTotal), summary.LatestYear)
	return nil
}
