// Package dashboard drives one dashboard session: it owns the selection and
// detail mode, and on every event rebuilds the affected view-models from the
// dataset and hands them to a renderer.
package dashboard

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"energy-dashboard-go/internal/aggregator"
	"energy-dashboard-go/internal/dataset"
	"energy-dashboard-go/internal/highlights"
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/selection"
	"energy-dashboard-go/internal/types"
	"energy-dashboard-go/internal/viewmodel"
)

// Renderer is the display side of a session.
type Renderer interface {
	Draw(slot viewmodel.Slot, view viewmodel.View) error
	Destroy(slot viewmodel.Slot) error
}

// BatchRenderer is implemented by renderers that can replace several slots
// atomically.
type BatchRenderer interface {
	DrawAll(views []viewmodel.View) error
}

// LegendToggler is implemented by renderers with interactive pie legends.
type LegendToggler interface {
	ToggleLegend(slot viewmodel.Slot, index int) error
}

// EventKind names a user interaction.
type EventKind string

// Event kinds.
const (
	YearSelected   EventKind = "year_selected"
	SourceSelected EventKind = "source_selected"
	ModeSwitched   EventKind = "mode_switched"
	LegendToggled  EventKind = "legend_toggled"
)

// Event is one user interaction. Value carries the year, source or mode;
// legend events use Slot and Index.
type Event struct {
	Kind  EventKind
	Value string
	Slot  viewmodel.Slot
	Index int
}

// Options configures a session.
type Options struct {
	DefaultSource types.Source
	TopN          int
	SessionID     string
}

const defaultTopN = 10

// Dashboard is one session. Events are serialized: each recomputation
// completes before the next event is applied.
type Dashboard struct {
	mu       sync.Mutex
	renderer Renderer
	opts     Options
	ds       *types.Dataset
	sel      *selection.Selection
	detail   *viewmodel.DetailView
	log      *logrus.Entry
}

// New returns a session drawing into r. It holds no dataset until Load.
func New(r Renderer, opts Options) *Dashboard {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	return &Dashboard{
		renderer: r,
		opts:     opts,
		log:      logger.New().WithSession(opts.SessionID).WithField("component", "dashboard"),
	}
}

// Load validates ds, resets the selection to its defaults and the detail
// view to ranking, and draws every slot. On error the session keeps its
// previous dataset and slots.
func (d *Dashboard) Load(ds *types.Dataset) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := dataset.Validate(ds); err != nil {
		d.log.WithError(err).Warn("dataset rejected")
		return err
	}
	sel, err := selection.New(ds, d.opts.DefaultSource)
	if err != nil {
		return err
	}
	detail := viewmodel.NewDetailView()

	views, err := overviewViews(ds)
	if err != nil {
		return err
	}
	selected, err := d.selectionViews(ds, sel.Current(), detail)
	if err != nil {
		return err
	}
	views = append(views, selected...)

	if err := d.drawAll(views); err != nil {
		return err
	}
	d.ds, d.sel, d.detail = ds, sel, detail
	d.log.WithFields(logrus.Fields{
		"year":    sel.Year(),
		"source":  sel.Source(),
		"sources": len(ds.Sources),
		"years":   len(ds.Regional),
	}).Info("dataset loaded")
	return nil
}

// Handle applies ev. Invalid events return an error and change nothing.
func (d *Dashboard) Handle(ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ds == nil {
		return types.ErrDatasetNotLoaded
	}
	log := d.log.WithField("event", ev.Kind)

	next := *d.sel
	detail := *d.detail
	var views []viewmodel.View
	var err error

	switch ev.Kind {
	case YearSelected:
		if err = next.SetYear(types.Year(ev.Value)); err != nil {
			break
		}
		views, err = d.selectionViews(d.ds, next.Current(), &detail)
	case SourceSelected:
		if err = next.SetSource(types.Source(ev.Value)); err != nil {
			break
		}
		views, err = d.selectionViews(d.ds, next.Current(), &detail)
	case ModeSwitched:
		if err = detail.Switch(viewmodel.DetailMode(ev.Value)); err != nil {
			break
		}
		var v viewmodel.View
		if v, err = detail.Build(d.ds, next.Current()); err == nil {
			views = []viewmodel.View{v}
		}
	case LegendToggled:
		toggler, ok := d.renderer.(LegendToggler)
		if !ok {
			return fmt.Errorf("%w: renderer has no legends", types.ErrInvalidSelection)
		}
		if err := toggler.ToggleLegend(ev.Slot, ev.Index); err != nil {
			log.WithError(err).Warn("legend toggle rejected")
			return fmt.Errorf("%w: %w", types.ErrInvalidSelection, err)
		}
		return nil
	default:
		err = fmt.Errorf("%w: unknown event %q", types.ErrInvalidSelection, ev.Kind)
	}
	if err != nil {
		log.WithError(err).WithField("value", ev.Value).Warn("event rejected")
		return err
	}

	if err := d.drawAll(views); err != nil {
		return err
	}
	*d.sel = next
	*d.detail = detail
	log.WithField("year", next.Year()).WithField("source", next.Source()).WithField("mode", detail.Mode()).Debug("event applied")
	return nil
}

// Current returns the session's selection.
func (d *Dashboard) Current() (selection.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sel == nil {
		return selection.Snapshot{}, types.ErrDatasetNotLoaded
	}
	return d.sel.Current(), nil
}

// Mode returns the detail slot's mode.
func (d *Dashboard) Mode() (viewmodel.DetailMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.detail == nil {
		return "", types.ErrDatasetNotLoaded
	}
	return d.detail.Mode(), nil
}

// drawAll hands views to the renderer, all at once when it supports that.
func (d *Dashboard) drawAll(views []viewmodel.View) error {
	if batch, ok := d.renderer.(BatchRenderer); ok {
		if err := batch.DrawAll(views); err != nil {
			d.log.WithError(err).Error("draw failed")
			return err
		}
		return nil
	}
	for _, v := range views {
		if err := d.renderer.Draw(v.ViewSlot(), v); err != nil {
			d.log.WithError(err).WithField("slot", v.ViewSlot()).Error("draw failed")
			return err
		}
	}
	return nil
}

// overviewViews builds the slots that do not depend on the selection.
func overviewViews(ds *types.Dataset) ([]viewmodel.View, error) {
	totals, err := aggregator.YearlyTotals(ds)
	if err != nil {
		return nil, err
	}
	years := make([]types.Year, len(ds.Yearly))
	for i, y := range ds.Yearly {
		years[i] = y.Year
	}
	series := make([][]float64, len(ds.Sources))
	for i, s := range ds.Sources {
		if series[i], err = aggregator.SourceSeries(ds, s); err != nil {
			return nil, err
		}
	}
	growth, err := aggregator.GrowthRates(ds)
	if err != nil {
		return nil, err
	}
	return []viewmodel.View{
		viewmodel.TrendChart(totals),
		viewmodel.SourceTrendChart(years, ds.Sources, series),
		viewmodel.GrowthChart(growth),
	}, nil
}

// selectionViews rebuilds every slot that follows the selection.
func (d *Dashboard) selectionViews(ds *types.Dataset, snap selection.Snapshot, detail *viewmodel.DetailView) ([]viewmodel.View, error) {
	top, err := aggregator.TopRegions(ds, snap.Year, ds.Sources, d.opts.TopN)
	if err != nil {
		return nil, err
	}
	mix, err := aggregator.SourceMixTotals(ds, snap.Year)
	if err != nil {
		return nil, err
	}
	shares, err := aggregator.RegionShareTotals(ds, snap.Year)
	if err != nil {
		return nil, err
	}
	derived, err := aggregator.Derive(ds, snap.Year)
	if err != nil {
		return nil, err
	}
	h, err := highlights.Generate(ds, snap.Year)
	if err != nil {
		return nil, err
	}
	detailView, err := detail.Build(ds, snap)
	if err != nil {
		return nil, err
	}

	return []viewmodel.View{
		viewmodel.StatsView(h),
		viewmodel.RegionalChart(snap.Year, top, ds.Sources),
		viewmodel.MixChart(snap.Year, mix, nil),
		viewmodel.ShareChart(snap.Year, shares, nil),
		detailView,
		viewmodel.RegionTable(ds.Regions(snap.Year), ds.Sources, derived),
	}, nil
}

// YearEvent selects year.
func YearEvent(year types.Year) Event { return Event{Kind: YearSelected, Value: string(year)} }

// SourceEvent selects source.
func SourceEvent(source types.Source) Event { return Event{Kind: SourceSelected, Value: string(source)} }

// ModeEvent switches the detail slot.
func ModeEvent(mode viewmodel.DetailMode) Event { return Event{Kind: ModeSwitched, Value: string(mode)} }

// LegendEvent toggles legend entry index of slot.
func LegendEvent(slot viewmodel.Slot, index int) Event {
	return Event{Kind: LegendToggled, Slot: slot, Index: index, Value: strconv.Itoa(index)}
}
