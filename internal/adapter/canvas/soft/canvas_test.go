package soft

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/aurora/internal/ports"
)

var red = color.NRGBA{R: 255, A: 255}

func TestNew(t *testing.T) {
	c, err := New(64, 32)
	require.NoError(t, err)

	w, h := c.Size()
	assert.Equal(t, 64.0, w)
	assert.Equal(t, 32.0, h)
}

func TestNew_ZeroSize(t *testing.T) {
	c, err := New(0, 0)
	require.NoError(t, err)

	w, h := c.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Equal(t, 0, c.Snapshot(nil).Bounds().Dx())
}

func TestNew_NegativeSize(t *testing.T) {
	_, err := New(-1, 10)
	assert.Error(t, err)
}

func TestFillRect(t *testing.T) {
	c, err := New(20, 20)
	require.NoError(t, err)

	c.FillRect(0, 0, 10, 10, red)
	img := c.Snapshot(nil)

	inside := img.RGBAAt(5, 5)
	assert.Greater(t, inside.R, uint8(200))
	assert.Less(t, inside.G, uint8(50))

	outside := img.RGBAAt(15, 15)
	assert.Equal(t, uint8(0), outside.A)
}

func TestClear(t *testing.T) {
	c, err := New(10, 10)
	require.NoError(t, err)

	c.FillRect(0, 0, 10, 10, red)
	c.Clear()

	assert.Equal(t, uint8(0), c.Snapshot(nil).RGBAAt(5, 5).A)
}

func TestGlobalAlphaRestored(t *testing.T) {
	c, err := New(10, 10)
	require.NoError(t, err)

	c.Save()
	c.SetGlobalAlpha(0.25)
	c.FillRect(0, 0, 5, 10, red)
	c.Restore()
	c.FillRect(5, 0, 5, 10, red)

	img := c.Snapshot(nil)
	faded := img.RGBAAt(2, 5).A
	full := img.RGBAAt(7, 5).A
	assert.Less(t, faded, full)
	assert.Greater(t, full, uint8(240))
}

func TestFillCircle(t *testing.T) {
	c, err := New(40, 40)
	require.NoError(t, err)

	c.FillCircle(20, 20, 8, red)
	c.FillCircle(5, 5, 0, red)

	img := c.Snapshot(nil)
	assert.Greater(t, img.RGBAAt(20, 20).A, uint8(200))
	assert.Equal(t, uint8(0), img.RGBAAt(2, 2).A)
}

func TestStrokePath(t *testing.T) {
	c, err := New(40, 40)
	require.NoError(t, err)

	c.StrokePath([]ports.Point{{X: 0, Y: 20}, {X: 20, Y: 20}, {X: 40, Y: 20}}, 4, red)
	c.StrokePath([]ports.Point{{X: 0, Y: 0}}, 4, red)

	img := c.Snapshot(nil)
	assert.Greater(t, img.RGBAAt(30, 20).A, uint8(100))
	assert.Equal(t, uint8(0), img.RGBAAt(30, 5).A)
}

func TestGradientsCoverCanvas(t *testing.T) {
	c, err := New(30, 30)
	require.NoError(t, err)

	stops := []ports.GradientStop{
		{Offset: 0, Color: color.NRGBA{R: 255, A: 255}},
		{Offset: 1, Color: color.NRGBA{B: 255, A: 255}},
	}
	c.FillLinearGradient(0, 0, 30, 30, stops)

	img := c.Snapshot(nil)
	start := img.RGBAAt(1, 1)
	end := img.RGBAAt(28, 28)
	assert.Greater(t, start.R, end.R)
	assert.Less(t, start.B, end.B)

	c.Clear()
	c.FillRadialGradient(15, 15, 0, 15, stops)
	img = c.Snapshot(img)
	assert.Greater(t, img.RGBAAt(15, 15).R, img.RGBAAt(1, 15).R)
}

func TestFillText(t *testing.T) {
	c, err := New(60, 30)
	require.NoError(t, err)

	c.FillText("M", 5, 20, 14, red)
	c.FillText("Ω", 25, 20, 18, red)

	img := c.Snapshot(nil)
	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			painted++
		}
	}
	assert.Positive(t, painted)
}

func TestResize(t *testing.T) {
	c, err := New(10, 10)
	require.NoError(t, err)

	c.Resize(30, 20)
	w, h := c.Size()
	assert.Equal(t, 30.0, w)
	assert.Equal(t, 20.0, h)

	c.FillRect(0, 0, 30, 20, red)
	img := c.Snapshot(nil)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Greater(t, img.RGBAAt(25, 15).A, uint8(200))

	c.Resize(-5, 4)
	w, _ = c.Size()
	assert.Zero(t, w)
}

func TestSnapshotReusesBuffer(t *testing.T) {
	c, err := New(8, 8)
	require.NoError(t, err)

	first := c.Snapshot(nil)
	second := c.Snapshot(first)
	assert.Same(t, first, second)

	c.Resize(4, 4)
	third := c.Snapshot(second)
	assert.NotSame(t, second, third)
	assert.Equal(t, 4, third.Bounds().Dx())
}

func TestWritePNG(t *testing.T) {
	c, err := New(16, 16)
	require.NoError(t, err)
	c.FillRect(0, 0, 16, 16, red)

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}
