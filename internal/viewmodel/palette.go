package viewmodel

import (
	"fmt"
	"image/color"
	"math"
)

// Fixed saturation and lightness shared by every series color.
const (
	paletteSaturation = 65
	paletteLightness  = 55
	goldenAngle       = 137

	heatHue       = 152
	heatLightness = 38
	heatTextFlip  = 0.6
)

// Color is a hue on the shared saturation/lightness scheme.
type Color struct {
	Hue int `json:"hue"`
}

// SourceColor returns the color for the series at index. Hues are spaced by
// 137° so neighbours stay apart however many series there are.
func SourceColor(index int) Color {
	h := (index * goldenAngle) % 360
	if h < 0 {
		h += 360
	}
	return Color{Hue: h}
}

// CSS returns the color as an hsl() string.
func (c Color) CSS() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.Hue, paletteSaturation, paletteLightness)
}

// Alpha returns the color as an hsla() string with opacity a.
func (c Color) Alpha(a float64) string {
	return fmt.Sprintf("hsla(%d, %d%%, %d%%, %.2f)", c.Hue, paletteSaturation, paletteLightness, a)
}

// HeatBackground is the cell background for a heatmap intensity.
func HeatBackground(intensity float64) string {
	if intensity <= 0 {
		return "transparent"
	}
	return fmt.Sprintf("hsla(%d, %d%%, %d%%, %.2f)", heatHue, paletteSaturation, heatLightness, intensity)
}

// HeatText is the readable text color on top of HeatBackground(intensity).
func HeatText(intensity float64) string {
	if intensity > heatTextFlip {
		return "#ffffff"
	}
	return "#1f2933"
}

// RGBA converts c to an sRGB color for raster output.
func (c Color) RGBA() color.RGBA {
	return hslToRGBA(float64(c.Hue), paletteSaturation/100.0, paletteLightness/100.0, 1)
}

// ParseCSS reads an hsl() or hsla() string produced by this package.
func ParseCSS(css string) (color.RGBA, bool) {
	var h, s, l int
	var a float64
	if n, _ := fmt.Sscanf(css, "hsla(%d, %d%%, %d%%, %g)", &h, &s, &l, &a); n == 4 {
		return hslToRGBA(float64(h), float64(s)/100, float64(l)/100, a), true
	}
	if n, _ := fmt.Sscanf(css, "hsl(%d, %d%%, %d%%)", &h, &s, &l); n == 3 {
		return hslToRGBA(float64(h), float64(s)/100, float64(l)/100, 1), true
	}
	return color.RGBA{}, false
}

func hslToRGBA(h, s, l, a float64) color.RGBA {
	chroma := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g = chroma, x
	case hp < 2:
		r, g = x, chroma
	case hp < 3:
		g, b = chroma, x
	case hp < 4:
		g, b = x, chroma
	case hp < 5:
		r, b = x, chroma
	default:
		r, b = chroma, x
	}
	m := l - chroma/2
	// color.RGBA is alpha-premultiplied.
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * a * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: uint8(math.Round(a * 255))}
}
