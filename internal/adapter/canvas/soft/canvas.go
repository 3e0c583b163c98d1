// Package soft implements ports.Canvas on the tfriedel6/canvas software backend.
// It rasterizes into an in-memory RGBA image, so it works headless and inside
// a Fyne raster widget alike.
package soft

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/tejashwikalptaru/aurora/internal/ports"
)

// Canvas is a software-rendered drawing surface.
//
// It is not safe for concurrent use. The frame loop owns it; frame observers
// running on the loop goroutine may copy pixels out with Snapshot.
type Canvas struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	font    *canvas.Font

	fontSize float64
	width    int
	height   int
}

// New creates a canvas of the given size. A zero size is allowed; the engine
// skips frames until Resize gives it a drawable area.
func New(width, height int) (*Canvas, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	backend := softwarebackend.New(max(width, 1), max(height, 1))
	cv := canvas.New(backend)

	font, err := cv.LoadFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load glyph font: %w", err)
	}

	return &Canvas{
		backend: backend,
		cv:      cv,
		font:    font,
		width:   width,
		height:  height,
	}, nil
}

// Size implements ports.Canvas.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height)
}

// Resize changes the backing image. Previous pixels are discarded.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.backend.SetSize(max(width, 1), max(height, 1))
}

// Clear implements ports.Canvas.
func (c *Canvas) Clear() {
	c.cv.ClearRect(0, 0, float64(c.width), float64(c.height))
}

// Save implements ports.Canvas.
func (c *Canvas) Save() { c.cv.Save() }

// Restore implements ports.Canvas.
func (c *Canvas) Restore() { c.cv.Restore() }

// SetGlobalAlpha implements ports.Canvas.
func (c *Canvas) SetGlobalAlpha(alpha float64) {
	c.cv.SetGlobalAlpha(math.Max(0, math.Min(1, alpha)))
}

// SetShadow implements ports.Canvas.
func (c *Canvas) SetShadow(blur float64, col color.NRGBA) {
	if blur <= 0 {
		c.cv.SetShadowBlur(0)
		c.cv.SetShadowColor(color.NRGBA{})
		return
	}
	c.cv.SetShadowBlur(blur)
	c.cv.SetShadowColor(col)
}

// FillRect implements ports.Canvas.
func (c *Canvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	c.cv.SetFillStyle(col)
	c.cv.FillRect(x, y, w, h)
}

// FillCircle implements ports.Canvas.
func (c *Canvas) FillCircle(x, y, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	c.cv.SetFillStyle(col)
	c.cv.BeginPath()
	c.cv.Arc(x, y, radius, 0, 2*math.Pi, false)
	c.cv.ClosePath()
	c.cv.Fill()
}

// StrokeLine implements ports.Canvas.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA) {
	c.cv.SetStrokeStyle(col)
	c.cv.SetLineWidth(width)
	c.cv.BeginPath()
	c.cv.MoveTo(x1, y1)
	c.cv.LineTo(x2, y2)
	c.cv.Stroke()
}

// StrokePath implements ports.Canvas.
func (c *Canvas) StrokePath(points []ports.Point, width float64, col color.NRGBA) {
	if len(points) < 2 {
		return
	}
	c.cv.SetStrokeStyle(col)
	c.cv.SetLineWidth(width)
	c.cv.BeginPath()
	c.cv.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.cv.LineTo(p.X, p.Y)
	}
	c.cv.Stroke()
}

// FillLinearGradient implements ports.Canvas.
func (c *Canvas) FillLinearGradient(x0, y0, x1, y1 float64, stops []ports.GradientStop) {
	g := c.cv.CreateLinearGradient(x0, y0, x1, y1)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	c.cv.SetFillStyle(g)
	c.cv.FillRect(0, 0, float64(c.width), float64(c.height))
}

// FillRadialGradient implements ports.Canvas.
func (c *Canvas) FillRadialGradient(cx, cy, r0, r1 float64, stops []ports.GradientStop) {
	g := c.cv.CreateRadialGradient(cx, cy, r0, cx, cy, r1)
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	c.cv.SetFillStyle(g)
	c.cv.FillRect(0, 0, float64(c.width), float64(c.height))
}

// FillText implements ports.Canvas.
func (c *Canvas) FillText(text string, x, y, size float64, col color.NRGBA) {
	if size != c.fontSize {
		c.cv.SetFont(c.font, size)
		c.fontSize = size
	}
	c.cv.SetFillStyle(col)
	c.cv.FillText(text, x, y)
}

// Image returns the live backing image. It is overwritten by the next frame.
func (c *Canvas) Image() *image.RGBA {
	return c.backend.Image
}

// Snapshot copies the current pixels into dst, reallocating it when the size
// changed, and returns it. Pass nil to get a fresh image.
func (c *Canvas) Snapshot(dst *image.RGBA) *image.RGBA {
	bounds := image.Rect(0, 0, c.width, c.height)
	if dst == nil || dst.Bounds() != bounds {
		dst = image.NewRGBA(bounds)
	}
	src := c.backend.Image
	for y := 0; y < c.height && y < src.Rect.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+min(c.width, src.Rect.Dx())*4]
		copy(dst.Pix[y*dst.Stride:], srcRow)
	}
	return dst
}

// WritePNG encodes the current frame.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Snapshot(nil))
}

var _ ports.Canvas = (*Canvas)(nil)
