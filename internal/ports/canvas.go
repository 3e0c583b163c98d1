package ports

import "image/color"

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// GradientStop is one color stop of a gradient, Offset in [0, 1].
type GradientStop struct {
	Offset float64
	Color  color.NRGBA
}

// Canvas is the immediate-mode 2D drawing context the engine renders into.
// It mirrors the subset of an HTML canvas context the visual modes need.
//
// The frame loop owns the canvas for the duration of one tick; subsystems must
// not keep a reference across frames. Implementations never need to read pixels back.
type Canvas interface {
	// Size returns the drawable size in pixels. A zero dimension means the
	// canvas is not ready and the frame is skipped.
	Size() (width, height float64)

	// Clear resets every pixel to transparent.
	Clear()

	// Save pushes the drawing state (alpha, shadow) and Restore pops it.
	Save()
	Restore()

	// SetGlobalAlpha multiplies the alpha of every following draw call.
	SetGlobalAlpha(alpha float64)

	// SetShadow enables a blurred glow behind following shapes and text.
	// A blur of 0 disables it.
	SetShadow(blur float64, c color.NRGBA)

	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(x, y, radius float64, c color.NRGBA)
	StrokeLine(x1, y1, x2, y2, width float64, c color.NRGBA)

	// StrokePath draws connected segments through points.
	StrokePath(points []Point, width float64, c color.NRGBA)

	// FillLinearGradient fills the whole canvas with a gradient running from (x0, y0) to (x1, y1).
	FillLinearGradient(x0, y0, x1, y1 float64, stops []GradientStop)

	// FillRadialGradient fills the whole canvas with a gradient centered at (cx, cy)
	// growing from radius r0 to r1.
	FillRadialGradient(cx, cy, r0, r1 float64, stops []GradientStop)

	// FillText draws text with its baseline-left corner at (x, y).
	FillText(text string, x, y, size float64, c color.NRGBA)
}
