package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"energy-dashboard-go/internal/config"
	"energy-dashboard-go/internal/dashboard"
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/render"
	"energy-dashboard-go/internal/viewmodel"
)

const pageFile = "dashboard.html"

type renderOptions struct {
	selection selectionFlags
	hideMix   []int
	hideShare []int
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard as a standalone HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	opts.selection.register(cmd)
	cmd.Flags().IntSliceVar(&opts.hideMix, "hide-mix", nil, "source mix legend entries to hide")
	cmd.Flags().IntSliceVar(&opts.hideShare, "hide-share", nil, "regional share legend entries to hide")
	return cmd
}

func runRender(ctx context.Context, w io.Writer, cfg *config.Config, opts renderOptions) error {
	log := logger.New().WithField("command", "render")

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	board := render.NewBoard(cfg.Theme)
	session, err := startSession(cfg, board, ds)
	if err != nil {
		return err
	}
	if err := opts.selection.apply(session); err != nil {
		return err
	}
	if err := hideLegend(session, viewmodel.SlotMix, opts.hideMix); err != nil {
		return err
	}
	if err := hideLegend(session, viewmodel.SlotShare, opts.hideShare); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, outputDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, pageFile)
	if err := writePage(path, board); err != nil {
		return err
	}

	snap, _ := session.Current()
	log.WithField("path", path).WithField("year", snap.Year).Info("dashboard rendered")
	color.New(color.FgGreen).Fprintf(w, "wrote %s ", path)
	fmt.Fprintf(w, "(%s, %s)\n", snap.Year, viewmodel.SourceLabel(snap.Source))
	return nil
}

func hideLegend(d *dashboard.Dashboard, slot viewmodel.Slot, indexes []int) error {
	for _, i := range indexes {
		if err := d.Handle(dashboard.LegendEvent(slot, i)); err != nil {
			return err
		}
	}
	return nil
}

func writePage(path string, board *render.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	if err := board.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render page: %w", err)
	}
	return f.Close()
}
