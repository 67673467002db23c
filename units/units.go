// Package units converts between the length units used by PresentationML
// packages (English Metric Units, EMU) and the units used by the
// presentation model (device pixels at 96 DPI and typographic points).
//
// 914400 EMU make one inch, 12700 EMU make one point and, at 96 DPI,
// 9525 EMU make one pixel. Pixel results are always rounded to the
// nearest integer, so PixelsToEMU followed by EMUToPixels is exact.
package units

import (
	"math"
	"strconv"
	"strings"
)

const (
	// EMUPerInch is the number of English Metric Units in one inch.
	EMUPerInch = 914400

	// DPI is the device resolution used for pixel conversions.
	DPI = 96

	// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
	EMUPerPixel = EMUPerInch / DPI

	// EMUPerPoint is the number of EMUs per typographic point (1/72 inch).
	EMUPerPoint = EMUPerInch / 72

	// RotationUnit is the number of wire rotation units per degree.
	RotationUnit = 60000

	// PercentUnit is the wire value of 100% for spcPct, alpha, lumMod, etc.
	PercentUnit = 100000
)

// EMUToPixels converts EMUs to pixels, rounding to the nearest pixel.
func EMUToPixels(emu int64) int {
	return int(math.Round(float64(emu) / EMUPerPixel))
}

// PixelsToEMU converts pixels to EMUs.
func PixelsToEMU(px int) int64 {
	return int64(px) * EMUPerPixel
}

// EMUToPoints converts EMUs to points.
func EMUToPoints(emu int64) float64 {
	return float64(emu) / EMUPerPoint
}

// PointsToEMU converts points to EMUs, rounding to the nearest EMU.
func PointsToEMU(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

// PointsToPixels converts points to pixels, rounding to the nearest pixel.
func PointsToPixels(pt float64) int {
	return int(math.Round(pt * DPI / 72))
}

// PixelsToPoints converts pixels to points.
func PixelsToPoints(px int) float64 {
	return float64(px) * 72 / DPI
}

// PixelsToInches converts pixels to inches.
func PixelsToInches(px int) float64 {
	return float64(px) / DPI
}

// InchesToEMU converts inches to EMUs, rounding to the nearest EMU.
func InchesToEMU(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// HundredthsToPoints converts a font size stored in hundredths of a point.
func HundredthsToPoints(v int) float64 {
	return float64(v) / 100
}

// PointsToHundredths is the inverse of HundredthsToPoints.
func PointsToHundredths(pt float64) int {
	return int(math.Round(pt * 100))
}

// RotationToDegrees converts a rot attribute value (60,000ths of a degree)
// to degrees. An empty or unparsable value converts to exactly 0.
func RotationToDegrees(attr string) float64 {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return 0
	}
	v, err := strconv.ParseInt(attr, 10, 64)
	if err != nil {
		return 0
	}
	return float64(v) / RotationUnit
}

// DegreesToRotation converts degrees to the wire rotation unit.
func DegreesToRotation(deg float64) int64 {
	return int64(math.Round(deg * RotationUnit))
}

// PercentToFraction converts a wire percentage (100000 = 100%) to a
// fraction in the range the value implies (1.0 = 100%).
func PercentToFraction(v int) float64 {
	return float64(v) / PercentUnit
}

// FractionToPercent is the inverse of PercentToFraction.
func FractionToPercent(f float64) int {
	return int(math.Round(f * PercentUnit))
}
