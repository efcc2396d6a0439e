package render

import (
	"image"
	"math"
)

// DrawCircleOutline draws a 1-pixel-wide circle, matching the original
// firmware's Sector::new(..., 360°) stroke (original_source/client
// update_timer): a full circle is just a sector with no fill, swept the
// whole way round.
func DrawCircleOutline(img *image.Gray, cx, cy, radius int) {
	walkArc(radius, -90, 360, func(x, y int) {
		setPixel(img, cx+x, cy+y, true)
	})
}

// DrawPieSector fills the wedge from startDeg sweeping sweepDeg degrees
// clockwise, centred at (cx, cy) with the given radius — the timer's
// progress indicator (spec §4.7: "a pie-fill sector whose sweep is
// 360·r/t degrees starting at −90°").
func DrawPieSector(img *image.Gray, cx, cy, radius int, startDeg, sweepDeg float64) {
	if sweepDeg <= 0 {
		return
	}
	steps := radius * 4
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		deg := startDeg + frac*sweepDeg
		rad := deg * math.Pi / 180
		for r := 0; r <= radius; r++ {
			x := int(math.Round(float64(r) * math.Cos(rad)))
			y := int(math.Round(float64(r) * math.Sin(rad)))
			setPixel(img, cx+x, cy+y, true)
		}
	}
}

func walkArc(radius int, startDeg, sweepDeg float64, fn func(x, y int)) {
	steps := radius * 4
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		deg := startDeg + frac*sweepDeg
		rad := deg * math.Pi / 180
		x := int(math.Round(float64(radius) * math.Cos(rad)))
		y := int(math.Round(float64(radius) * math.Sin(rad)))
		fn(x, y)
	}
}
