// Package commands implements the energy-dashboard CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"energy-dashboard-go/internal/config"
	"energy-dashboard-go/internal/dashboard"
	"energy-dashboard-go/internal/dataset"
	"energy-dashboard-go/internal/types"
	"energy-dashboard-go/internal/viewmodel"
)

const (
	configFlag   = "config"
	datasetFlag  = "dataset"
	urlFlag      = "url"
	outputFlag   = "output"
	themeFlag    = "theme"
	topFlag      = "top"
	sourceFlag   = "source"
	provinceFlag = "province"

	yearFlag = "year"
	modeFlag = "mode"

	allSources = "all"

	outputDirPerm = 0o750
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	datasetFlag:  "dataset_path",
	urlFlag:      "dataset_url",
	outputFlag:   "output_dir",
	themeFlag:    "theme",
	topFlag:      "top_n",
	sourceFlag:   "default_source",
	provinceFlag: "province",
}

// NewRootCommand assembles the CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "energy-dashboard",
		Short: "Regional renewable generation dashboard",
		Long: `energy-dashboard aggregates regional generation tables and renders them
as an interactive dashboard.

Commands:
  export    Aggregate raw CSV/XLSX tables into a dashboard document
  render    Render the dashboard as a standalone HTML page
  summary   Print the dataset profile and the tables of a year
  plot      Export the dashboard charts as PNG images
  serve     Preview one live session over local HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String(configFlag, "", "config file (default .energy-dashboard.yaml in . or $HOME)")
	pf.String(datasetFlag, "", "dashboard document path")
	pf.String(urlFlag, "", "fetch the dashboard document from this URL instead of --dataset")
	pf.StringP(outputFlag, "o", "", "output directory")
	pf.String(themeFlag, "", "page theme: light or dark")
	pf.Int(topFlag, 0, "regions shown in the regional chart")
	pf.String(sourceFlag, "", `initially selected source, or "all"`)
	pf.String(provinceFlag, "", "province kept when importing")

	root.AddCommand(
		NewExportCommand(),
		NewRenderCommand(),
		NewSummaryCommand(),
		NewPlotCommand(),
		NewServeCommand(),
	)
	return root
}

// loadConfig binds the persistent flags and loads the settings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, err
	}
	return config.Load(v, path)
}

// loadDataset reads the document from the configured URL or file.
func loadDataset(ctx context.Context, cfg *config.Config) (*types.Dataset, error) {
	if cfg.DatasetURL != "" {
		return dataset.Fetch(ctx, cfg.DatasetURL, dataset.FetchOptions{RequestTimeout: cfg.FetchTimeout})
	}
	return dataset.LoadFile(cfg.DatasetPath)
}

// startSession loads ds into a new session drawing into r. A default
// source of "all" selects every source.
func startSession(cfg *config.Config, r dashboard.Renderer, ds *types.Dataset) (*dashboard.Dashboard, error) {
	d := dashboard.New(r, dashboard.Options{
		DefaultSource: types.Source(cfg.DefaultSource),
		TopN:          cfg.TopN,
	})
	if err := d.Load(ds); err != nil {
		return nil, err
	}
	if cfg.DefaultSource == allSources {
		if err := d.Handle(dashboard.SourceEvent(types.AllSources)); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// selectionFlags are the --year/--mode flags shared by the view commands.
type selectionFlags struct {
	year string
	mode string
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.year, yearFlag, "", "selected year (default latest)")
	cmd.Flags().StringVar(&s.mode, modeFlag, "", "detail view: ranking or heatmap")
}

// apply replays the flags as dashboard events.
func (s *selectionFlags) apply(d *dashboard.Dashboard) error {
	if s.year != "" {
		if err := d.Handle(dashboard.YearEvent(types.Year(s.year))); err != nil {
			return err
		}
	}
	if s.mode != "" {
		if err := d.Handle(dashboard.ModeEvent(viewmodel.DetailMode(s.mode))); err != nil {
			return err
		}
	}
	return nil
}
