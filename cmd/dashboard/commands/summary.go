package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/config"
	"energy-dashboard-go/internal/dataset"
	"energy-dashboard-go/internal/highlights"
	"energy-dashboard-go/internal/render"
	"energy-dashboard-go/internal/types"
	"energy-dashboard-go/internal/viewmodel"
)

type summaryOptions struct {
	year    string
	asJSON  bool
	heatmap bool
}

// NewSummaryCommand creates the summary subcommand.
func NewSummaryCommand() *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dataset profile and the tables of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSummary(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.year, yearFlag, "", "year to tabulate (default latest)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the profile as JSON")
	cmd.Flags().BoolVar(&opts.heatmap, "heatmap", false, "also print the region/source heatmap")
	return cmd
}

func runSummary(ctx context.Context, w io.Writer, cfg *config.Config, opts summaryOptions) error {
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	summary, err := dataset.Summarize(ds)
	if err != nil {
		return err
	}
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	year := ds.LatestYear
	if opts.year != "" {
		year = types.Year(opts.year)
		if !ds.HasYear(year) {
			return fmt.Errorf("%w: %q", types.ErrInvalidYear, year)
		}
	}

	heading := color.New(color.FgCyan, color.Bold)
	energy := viewmodel.EnergyFormat()

	heading.Fprintln(w, "Dataset")
	fmt.Fprintf(w, "  years         %s\n", joinYears(summary.Years))
	fmt.Fprintf(w, "  sources       %d\n", len(summary.Sources))
	fmt.Fprintf(w, "  latest total  %s (%s)\n", energy.Format(summary.LatestTotal), summary.LatestYear)
	fmt.Fprintf(w, "  growth points %s\n", humanize.Comma(int64(summary.GrowthPoints)))
	for _, src := range summary.Sources {
		fmt.Fprintf(w, "  top %-10s %s\n", src, strings.Join(summary.TopBySource[src], ", "))
	}

	h, err := highlights.Generate(ds, year)
	if err != nil {
		return err
	}
	derived, err := aggregator.Derive(ds, year)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	heading.Fprintf(w, "%s\n", year)
	if h.Insight != "" {
		fmt.Fprintf(w, "  %s\n", h.Insight)
	}
	fmt.Fprintln(w, render.TextTable(viewmodel.RegionTable(ds.Regions(year), ds.Sources, derived)))

	if err := printMix(w, ds, year, types.Source(cfg.DefaultSource)); err != nil {
		return err
	}

	if opts.heatmap {
		grid, err := aggregator.HeatmapGrid(ds, year)
		if err != nil {
			return err
		}
		heading.Fprintln(w, "Heatmap")
		fmt.Fprintln(w, render.TextHeatmap(viewmodel.HeatmapView(grid)))
	}
	return nil
}

// printMix lists the source mix of year with small sources folded into one
// slice, then source against everything else when source exists.
func printMix(w io.Writer, ds *types.Dataset, year types.Year, source types.Source) error {
	mix, err := aggregator.SourceMixTotals(ds, year)
	if err != nil {
		return err
	}
	energy := viewmodel.EnergyFormat()
	share := viewmodel.ShareFormat()

	total := 0.0
	for _, m := range mix {
		total += m.Total
	}
	fmt.Fprintln(w, "  source mix")
	for _, slice := range aggregator.GroupSmallShares(mix, aggregator.DefaultOthersThreshold) {
		fmt.Fprintf(w, "    %-14s %s (%s)\n", slice.Label, energy.Format(slice.Total), share.Format(slice.Total/total*100))
	}

	if !ds.HasSource(source) {
		return nil
	}
	own, rest, err := aggregator.SourceVersusRest(ds, year, source)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s vs rest  %s / %s\n\n", source, energy.Format(own), energy.Format(rest))
	return nil
}

func joinYears(years []types.Year) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = string(y)
	}
	return strings.Join(parts, ", ")
}
