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
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/render"
	"energy-dashboard-go/internal/viewmodel"
)

// plotSlots are the charts exported as images. Pie charts have no PNG form.
var plotSlots = []viewmodel.Slot{
	viewmodel.SlotTrend,
	viewmodel.SlotSourceTrend,
	viewmodel.SlotGrowth,
	viewmodel.SlotRegional,
	viewmodel.SlotDetail,
}

// collector is a headless renderer keeping the last view of each slot.
type collector struct {
	views map[viewmodel.Slot]viewmodel.View
}

func newCollector() *collector {
	return &collector{views: map[viewmodel.Slot]viewmodel.View{}}
}

func (c *collector) Draw(slot viewmodel.Slot, view viewmodel.View) error {
	if view == nil {
		return render.ErrNilView
	}
	c.views[slot] = view
	return nil
}

func (c *collector) Destroy(slot viewmodel.Slot) error {
	delete(c.views, slot)
	return nil
}

// NewPlotCommand creates the plot subcommand.
func NewPlotCommand() *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Export the dashboard charts as PNG images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runPlot(cmd.Context(), cmd.OutOrStdout(), cfg, sel)
		},
	}

	sel.register(cmd)
	return cmd
}

func runPlot(ctx context.Context, w io.Writer, cfg *config.Config, sel selectionFlags) error {
	log := logger.New().WithField("command", "plot")

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	views := newCollector()
	session, err := startSession(cfg, views, ds)
	if err != nil {
		return err
	}
	if err := sel.apply(session); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, outputDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ok := color.New(color.FgGreen)
	for _, slot := range plotSlots {
		spec, isChart := views.views[slot].(*viewmodel.ChartSpec)
		if !isChart {
			log.WithField("slot", slot).Debug("slot has no chart, skipped")
			continue
		}
		path := filepath.Join(cfg.OutputDir, string(slot)+".png")
		if err := render.SavePNG(spec, path); err != nil {
			return fmt.Errorf("plot %s: %w", slot, err)
		}
		ok.Fprintf(w, "wrote %s\n", path)
	}
	log.WithField("dir", cfg.OutputDir).Info("charts exported")
	return nil
}
