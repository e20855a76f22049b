package viewmodel

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"energy-dashboard-go/internal/aggregator"
)

// FormatKind selects how a Formatter renders a number.
type FormatKind string

// Formatter kinds.
const (
	FormatEnergy FormatKind = "energy"
	FormatShare  FormatKind = "share"
	FormatGrowth FormatKind = "growth"
	FormatPlain  FormatKind = "plain"
)

// EnergyUnit is the unit appended to generation values.
const EnergyUnit = "MWh"

// Formatter describes how a renderer should print values or labels. It is
// data, so renderers can forward it, and Format applies it without any
// rendering context.
type Formatter struct {
	Kind      FormatKind `json:"kind"`
	Unit      string     `json:"unit,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`
}

// EnergyFormat prints "1,234 MWh".
func EnergyFormat() Formatter {
	return Formatter{Kind: FormatEnergy, Unit: EnergyUnit}
}

// ShareFormat prints "12.3%" for shares above the label threshold and ""
// otherwise.
func ShareFormat() Formatter {
	return Formatter{Kind: FormatShare, Unit: "%", Threshold: aggregator.LabelThreshold}
}

// GrowthFormat prints signed percentages such as "+4.2%".
func GrowthFormat() Formatter {
	return Formatter{Kind: FormatGrowth, Unit: "%"}
}

// Format renders v.
func (f Formatter) Format(v float64) string {
	switch f.Kind {
	case FormatEnergy:
		s := humanize.Commaf(math.Round(v))
		if f.Unit == "" {
			return s
		}
		return s + " " + f.Unit
	case FormatShare:
		if v <= f.Threshold {
			return ""
		}
		return fmt.Sprintf("%.1f%%", v)
	case FormatGrowth:
		return fmt.Sprintf("%+.1f%%", v)
	default:
		return humanize.Commaf(v)
	}
}
