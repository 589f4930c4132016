package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsketch/internal/scene"
)

type solid struct{ c color.Color }

func (s solid) Bitmap(string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, s.c)
		}
	}
	return img
}

var red = color.RGBA{0xff, 0, 0, 0xff}

func assertReddish(t *testing.T, c color.RGBA) {
	t.Helper()
	assert.Greater(t, c.R, uint8(0xf0))
	assert.Less(t, c.G, uint8(0x10))
}

func TestCanvasSize(t *testing.T) {
	s := scene.New()
	w, h := CanvasSize(s)
	assert.Equal(t, BaseWidth, w)
	assert.Equal(t, BaseHeight, h)

	s.AddIcon("Router", scene.Point{X: 1000, Y: 20})
	w, h = CanvasSize(s)
	assert.Equal(t, 1058, w)
	assert.Equal(t, BaseHeight, h)

	require.NoError(t, s.SetScale(2))
	w, h = CanvasSize(s)
	assert.Equal(t, 2116, w)
	assert.Equal(t, 2*BaseHeight, h)
}

func TestRasterDrawsIconAtScreenGeometry(t *testing.T) {
	s := scene.New()
	s.AddIcon("Router", scene.Point{X: 10, Y: 10})
	require.NoError(t, s.SetScale(2))

	img := Raster(s, solid{red}, Options{})
	assert.Equal(t, image.Rect(0, 0, 1600, 1200), img.Bounds())
	// Icon covers (20,20)-(116,116) on screen.
	assertReddish(t, img.RGBAAt(60, 60))
	assertReddish(t, img.RGBAAt(110, 110))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.RGBAAt(130, 130))
}

func TestRasterScalesLines(t *testing.T) {
	s := scene.New()
	s.AddLine(scene.Line{X1: 10, Y1: 50, X2: 200, Y2: 50})
	require.NoError(t, s.SetScale(2))

	img := Raster(s, nil, Options{Width: 500, Height: 200})
	assert.Equal(t, image.Rect(0, 0, 500, 200), img.Bounds())
	hit := img.RGBAAt(200, 100)
	assert.Equal(t, uint8(0xff), hit.B)
	assert.Less(t, hit.R, uint8(0x80))
	// Constant screen thickness: well clear of the line stays white.
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.RGBAAt(200, 104))
}

func TestRasterDrawsPreview(t *testing.T) {
	s := scene.New()
	preview := &scene.Line{X1: 0, Y1: 300, X2: 700, Y2: 300}
	img := Raster(s, nil, Options{Preview: preview})
	assert.Equal(t, uint8(0xff), img.RGBAAt(350, 300).B)
	assert.Less(t, img.RGBAAt(350, 300).R, uint8(0x80))
	assert.Empty(t, s.Lines())
}

// strokeRows counts the rows of column x covered by line colour.
func strokeRows(img *image.RGBA, x int) int {
	n := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		if c := img.RGBAAt(x, y); c.B > 0x80 && c.R < 0x80 {
			n++
		}
	}
	return n
}

func TestStrokeThicknessIgnoresScale(t *testing.T) {
	thickness := func(scale float64) int {
		s := scene.New()
		s.AddLine(scene.Line{X1: 10, Y1: 50, X2: 300, Y2: 50})
		require.NoError(t, s.SetScale(scale))
		img := Raster(s, nil, Options{Width: 700, Height: 200})
		return strokeRows(img, int(100*scale))
	}
	assert.Equal(t, int(LineWidth), thickness(2))
	assert.Equal(t, thickness(2), thickness(0.5))
}

func TestCellsDrawsIconsAndLines(t *testing.T) {
	s := scene.New()
	s.AddIcon("Router", scene.Point{X: 0, Y: 0})
	s.AddLine(scene.Line{X1: 80, Y1: 8, X2: 160, Y2: 8})

	rows := Cells(s, CellOptions{Width: 30, Height: 5})
	require.Len(t, rows, 5)
	assert.Equal(t, "+----+", rows[0][:6])
	assert.Contains(t, rows[1], "Rout")
	assert.Equal(t, "----------*", rows[0][10:21])
}

func TestCellsMarksSelection(t *testing.T) {
	s := scene.New()
	icon := s.AddIcon("Server", scene.Point{X: 0, Y: 0})
	rows := Cells(s, CellOptions{Width: 10, Height: 4, Selected: icon.ID})
	assert.Equal(t, "######", rows[0][:6])
}

func TestCellToScreen(t *testing.T) {
	p := CellToScreen(2, 3, 0, 0)
	assert.Equal(t, scene.Point{X: 20, Y: 56}, p)
}
