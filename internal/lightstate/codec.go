// Package lightstate converts human colour units into bridge device units and builds
// validated light state payloads.
package lightstate

import (
	"math"
)

const (
	MinBrightness = 1
	MaxBrightness = 254
	MaxHue        = 65535
	MaxSaturation = 254
	MinMireds     = 154
	MaxMireds     = 500

	hueStepsPerDegree = 182.5487
)

// BrightnessFromPercent maps 0..100% onto the device brightness range 1..254.
func BrightnessFromPercent(pct float64) int {
	bri := math.Floor(clamp(pct, 0, 100) * 255 / 100)
	return int(clamp(bri, MinBrightness, MaxBrightness))
}

// HueFromDegrees maps 0..359 degrees onto the device hue range 0..65535.
func HueFromDegrees(deg float64) int {
	hue := math.Floor(clamp(deg, 0, 359) * hueStepsPerDegree)
	return int(clamp(hue, 0, MaxHue))
}

// SaturationFromPercent maps 0..100% onto the device saturation range 0..254.
func SaturationFromPercent(pct float64) int {
	sat := math.Floor(clamp(pct, 0, 100) * 255 / 100)
	return int(clamp(sat, 0, MaxSaturation))
}

// ColorTempFromMireds clamps a colour temperature to 154..500 mireds.
func ColorTempFromMireds(mireds float64) int {
	return int(math.Floor(clamp(mireds, MinMireds, MaxMireds)))
}

// ColorTempFromKelvin converts Kelvin to mireds and clamps like ColorTempFromMireds.
func ColorTempFromKelvin(kelvin float64) int {
	if kelvin <= 0 || math.IsNaN(kelvin) {
		return MaxMireds
	}
	return ColorTempFromMireds(1e6 / kelvin)
}

// ClampXY clamps both chromaticity channels to 0..1. NaN becomes 0.
func ClampXY(x, y float64) (float64, float64) {
	return clamp(x, 0, 1), clamp(y, 0, 1)
}

// RGBToHSL converts 8-bit RGB to hue in degrees and saturation and lightness in percent.
func RGBToHSL(r, g, b int) (h, s, l float64) {
	rf := clamp(float64(r), 0, 255) / 255
	gf := clamp(float64(g), 0, 255) / 255
	bf := clamp(float64(b), 0, 255) / 255

	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))
	delta := hi - lo

	switch {
	case delta == 0:
		h = 0
	case hi == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case hi == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	l = 0.5 * (hi + lo)
	switch {
	case l == 0:
		s = 0
	case l == 1:
		s = 1
	case l > 0.5:
		s = delta / (2 - hi - lo)
	default:
		s = delta / (hi + lo)
	}
	return h, s * 100, l * 100
}

// RGBToHueSatBri converts 8-bit RGB to device hue, saturation and brightness.
func RGBToHueSatBri(r, g, b int) (hue, sat, bri int) {
	h, s, l := RGBToHSL(r, g, b)
	return HueFromDegrees(h), SaturationFromPercent(s), BrightnessFromPercent(l)
}

// RGBToXY converts 8-bit sRGB to CIE xy and moves the result into the lamp gamut.
func RGBToXY(r, g, b int, gamut Gamut) (x, y float64) {
	rl := linearize(r)
	gl := linearize(g)
	bl := linearize(b)

	// sRGB to XYZ, D50 reference white
	X := 0.4360747*rl + 0.3850649*gl + 0.0930804*bl
	Y := 0.2225045*rl + 0.7168786*gl + 0.0406169*bl
	Z := 0.0139322*rl + 0.0971045*gl + 0.7141733*bl

	sum := X + Y + Z
	if sum == 0 {
		return gamut.Closest(Point{X: 0, Y: 0}).xy()
	}
	return gamut.Closest(Point{X: X / sum, Y: Y / sum}).xy()
}

func linearize(channel int) float64 {
	v := clamp(float64(channel), 0, 255) / 255
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
