// Package widgets provides custom Fyne widgets for the Aurora background host.
package widgets

import (
	"image"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

// Background displays frames rendered by the engine on another goroutine.
//
// The frame loop hands finished frames to Present; the raster generator copies
// the newest one on the UI thread. The generator also reports size changes so
// the engine can resize its canvas before the next tick.
type Background struct {
	widget.BaseWidget

	raster *canvas.Raster

	mu    sync.Mutex
	front *image.RGBA
	lastW int
	lastH int

	onResize       func(width, height int)
	onTap          func(*fyne.PointEvent)
	onSecondaryTap func(*fyne.PointEvent)
}

// NewBackground creates the widget. onResize may be nil.
func NewBackground(onResize func(width, height int)) *Background {
	b := &Background{onResize: onResize}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget.
func (b *Background) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

// MinSize returns a minimal size so the widget fills the available space.
func (b *Background) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// SetOnTapped sets the primary and secondary tap handlers. Either may be nil.
func (b *Background) SetOnTapped(primary, secondary func(*fyne.PointEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTap = primary
	b.onSecondaryTap = secondary
}

// Present shows frame and returns the buffer it replaced, which the caller may
// reuse for the next frame. The widget owns frame afterward.
func (b *Background) Present(frame *image.RGBA) *image.RGBA {
	b.mu.Lock()
	spare := b.front
	b.front = frame
	b.mu.Unlock()

	fyne.Do(b.raster.Refresh)
	return spare
}

// Reset drops the displayed frame.
func (b *Background) Reset() {
	b.mu.Lock()
	b.front = nil
	b.mu.Unlock()

	fyne.Do(b.raster.Refresh)
}

// draw is the raster generator. It runs on the UI thread with the pixel size.
func (b *Background) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	b.mu.Lock()
	resized := w != b.lastW || h != b.lastH
	b.lastW, b.lastH = w, h
	front := b.front
	if front != nil {
		if front.Bounds() == img.Bounds() {
			draw.Draw(img, img.Bounds(), front, image.Point{}, draw.Src)
		} else {
			// stale size until the engine catches up with the resize
			xdraw.ApproxBiLinear.Scale(img, img.Bounds(), front, front.Bounds(), draw.Src, nil)
		}
	}
	onResize := b.onResize
	b.mu.Unlock()

	if resized && onResize != nil {
		onResize(w, h)
	}
	return img
}

// Tapped implements fyne.Tappable.
func (b *Background) Tapped(pe *fyne.PointEvent) {
	b.mu.Lock()
	fn := b.onTap
	b.mu.Unlock()
	if fn != nil {
		fn(pe)
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (b *Background) TappedSecondary(pe *fyne.PointEvent) {
	b.mu.Lock()
	fn := b.onSecondaryTap
	b.mu.Unlock()
	if fn != nil {
		fn(pe)
	}
}

// MouseIn implements desktop.Hoverable.
func (b *Background) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (b *Background) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (b *Background) MouseOut() {}

// Ensure Background implements the required interfaces
var _ fyne.Tappable = (*Background)(nil)
var _ fyne.SecondaryTappable = (*Background)(nil)
var _ desktop.Hoverable = (*Background)(nil)
