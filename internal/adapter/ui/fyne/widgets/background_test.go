package widgets

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBackground_DrawEmpty(t *testing.T) {
	test.NewApp()
	b := NewBackground(nil)

	img := b.draw(10, 5)
	require.Equal(t, image.Rect(0, 0, 10, 5), img.Bounds())
	_, _, _, a := img.At(3, 3).RGBA()
	assert.Zero(t, a)
}

func TestBackground_PresentSwapsBuffers(t *testing.T) {
	test.NewApp()
	b := NewBackground(nil)

	first := solid(4, 4, color.RGBA{R: 255, A: 255})
	second := solid(4, 4, color.RGBA{G: 255, A: 255})

	assert.Nil(t, b.Present(first))
	spare := b.Present(second)
	assert.Same(t, first, spare)

	img := b.draw(4, 4)
	r, g, _, _ := img.At(1, 1).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, g)
}

func TestBackground_DrawScalesStaleFrame(t *testing.T) {
	test.NewApp()
	b := NewBackground(nil)
	b.Present(solid(4, 4, color.RGBA{B: 255, A: 255}))

	img := b.draw(8, 8)
	require.Equal(t, 8, img.Bounds().Dx())
	_, _, bl, a := img.At(6, 6).RGBA()
	assert.NotZero(t, bl)
	assert.NotZero(t, a)
}

func TestBackground_ReportsResize(t *testing.T) {
	test.NewApp()
	var sizes [][2]int
	b := NewBackground(func(w, h int) { sizes = append(sizes, [2]int{w, h}) })

	b.draw(100, 50)
	b.draw(100, 50)
	b.draw(120, 60)

	assert.Equal(t, [][2]int{{100, 50}, {120, 60}}, sizes)
}

func TestBackground_Reset(t *testing.T) {
	test.NewApp()
	b := NewBackground(nil)
	b.Present(solid(2, 2, color.RGBA{R: 255, A: 255}))

	b.Reset()

	_, _, _, a := b.draw(2, 2).At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestBackground_Taps(t *testing.T) {
	test.NewApp()
	b := NewBackground(nil)

	assert.NotPanics(t, func() {
		b.Tapped(&fyne.PointEvent{})
		b.TappedSecondary(&fyne.PointEvent{})
	})

	primary, secondary := 0, 0
	b.SetOnTapped(func(*fyne.PointEvent) { primary++ }, func(*fyne.PointEvent) { secondary++ })

	test.Tap(b)
	b.TappedSecondary(&fyne.PointEvent{})

	assert.Equal(t, 1, primary)
	assert.Equal(t, 1, secondary)
}
