// Package render draws view-models into display slots: go-echarts charts and
// go-pretty tables composed into one HTML page, plus gonum PNG export.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/viewmodel"
)

// Renderer owns the display slots. Drawing into an occupied slot replaces
// its instance; a slot never holds more than one.
type Renderer interface {
	Draw(slot viewmodel.Slot, view viewmodel.View) error
	Destroy(slot viewmodel.Slot) error
}

var (
	// ErrNilView is returned when Draw is called without a view.
	ErrNilView = errors.New("render: nil view")
	// ErrUnknownSlot is returned for operations on an empty slot.
	ErrUnknownSlot = errors.New("render: slot has no instance")
	// ErrNoLegend is returned when toggling a legend on a chart without one.
	ErrNoLegend = errors.New("render: slot has no toggleable legend")
	// ErrUnsupportedView is returned for view types the board cannot draw.
	ErrUnsupportedView = errors.New("render: unsupported view")
)

// Themes accepted by NewBoard.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// slotOrder is the page layout.
var slotOrder = []viewmodel.Slot{
	viewmodel.SlotStats,
	viewmodel.SlotTrend,
	viewmodel.SlotSourceTrend,
	viewmodel.SlotGrowth,
	viewmodel.SlotRegional,
	viewmodel.SlotMix,
	viewmodel.SlotShare,
	viewmodel.SlotDetail,
	viewmodel.SlotTable,
}

type instance struct {
	view viewmodel.View
	html template.HTML
}

// Board is an in-memory Renderer producing one HTML dashboard page.
type Board struct {
	mu       sync.Mutex
	theme    string
	slots    map[viewmodel.Slot]*instance
	created  int
	destroys int
	log      *logrus.Entry
}

// NewBoard returns an empty board. Unknown themes fall back to light.
func NewBoard(theme string) *Board {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return &Board{
		theme: theme,
		slots: map[viewmodel.Slot]*instance{},
		log:   logger.New().WithField("component", "render.board"),
	}
}

// Draw renders view into slot, destroying whatever the slot held. If the
// view cannot be rendered the slot keeps its previous instance.
func (b *Board) Draw(slot viewmodel.Slot, view viewmodel.View) error {
	if view == nil {
		return ErrNilView
	}
	fragment, err := b.fragment(view)
	if err != nil {
		return fmt.Errorf("draw %s: %w", slot, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceLocked(slot, view, fragment)
	return nil
}

// DrawAll draws every view into its own slot, or none of them: all
// fragments are built before any slot is replaced.
func (b *Board) DrawAll(views []viewmodel.View) error {
	fragments := make([]template.HTML, len(views))
	for i, view := range views {
		if view == nil {
			return ErrNilView
		}
		fragment, err := b.fragment(view)
		if err != nil {
			return fmt.Errorf("draw %s: %w", view.ViewSlot(), err)
		}
		fragments[i] = fragment
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, view := range views {
		b.replaceLocked(view.ViewSlot(), view, fragments[i])
	}
	return nil
}

func (b *Board) replaceLocked(slot viewmodel.Slot, view viewmodel.View, fragment template.HTML) {
	if _, ok := b.slots[slot]; ok {
		b.destroyLocked(slot)
	}
	b.slots[slot] = &instance{view: view, html: fragment}
	b.created++
	b.log.WithField("slot", slot).Debug("slot drawn")
}

// Destroy releases the instance in slot. Destroying an empty slot is a no-op.
func (b *Board) Destroy(slot viewmodel.Slot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.slots[slot]; ok {
		b.destroyLocked(slot)
	}
	return nil
}

func (b *Board) destroyLocked(slot viewmodel.Slot) {
	delete(b.slots, slot)
	b.destroys++
}

// Live returns the occupied slots in page order.
func (b *Board) Live() []viewmodel.Slot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liveLocked()
}

func (b *Board) liveLocked() []viewmodel.Slot {
	out := make([]viewmodel.Slot, 0, len(b.slots))
	for _, s := range slotOrder {
		if _, ok := b.slots[s]; ok {
			out = append(out, s)
		}
	}
	var extra []viewmodel.Slot
	for s := range b.slots {
		if !slices.Contains(slotOrder, s) {
			extra = append(extra, s)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Stats reports how many instances were created and destroyed so far.
func (b *Board) Stats() (created, destroyed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created, b.destroys
}

// View returns the view drawn in slot.
func (b *Board) View(slot viewmodel.Slot) (viewmodel.View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	inst, ok := b.slots[slot]
	if !ok {
		return nil, false
	}
	return inst.view, true
}

// ToggleLegend flips the visibility of legend entry index on the pie chart
// in slot and redraws it with share labels recomputed over the visible
// slices. The read and the redraw happen under one lock.
func (b *Board) ToggleLegend(slot viewmodel.Slot, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst, ok := b.slots[slot]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	spec, ok := inst.view.(*viewmodel.ChartSpec)
	if !ok || (spec.Kind != viewmodel.KindPie && spec.Kind != viewmodel.KindDoughnut) {
		return fmt.Errorf("%w: %s", ErrNoLegend, slot)
	}
	if index < 0 || index >= len(spec.Labels) {
		return fmt.Errorf("%w: %s legend index %d", ErrNoLegend, slot, index)
	}

	mask := make([]bool, len(spec.Labels))
	for i := range mask {
		mask[i] = i >= len(spec.Visible) || spec.Visible[i]
	}
	mask[index] = !mask[index]

	relabeled := viewmodel.Relabel(spec, mask)
	fragment, err := b.fragment(relabeled)
	if err != nil {
		return fmt.Errorf("draw %s: %w", slot, err)
	}
	b.replaceLocked(slot, relabeled, fragment)
	return nil
}

func (b *Board) fragment(view viewmodel.View) (template.HTML, error) {
	switch v := view.(type) {
	case *viewmodel.ChartSpec:
		return chartFragment(v, b.theme)
	case *viewmodel.HeatmapSpec:
		return template.HTML(HTMLHeatmap(v)), nil
	case *viewmodel.TableSpec:
		return template.HTML(HTMLTable(v)), nil
	case *viewmodel.StatsSpec:
		return statsFragment(v)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedView, view)
	}
}

// Render writes the whole board as one HTML page.
func (b *Board) Render(w io.Writer) error {
	b.mu.Lock()
	live := b.liveLocked()
	sections := make([]pageSection, 0, len(live))
	for _, s := range live {
		sections = append(sections, pageSection{Slot: string(s), HTML: b.slots[s].html})
	}
	b.mu.Unlock()

	return renderPage(w, pageData{Theme: b.theme, Sections: sections})
}
