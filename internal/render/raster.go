// Package render draws a scene onto a raster surface or a terminal cell grid.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"netsketch/internal/scene"
)

const (
	BaseWidth  = 800
	BaseHeight = 600

	// ContentMargin is added to the content bounds, in unscaled units.
	ContentMargin = 10

	// LineWidth is the on-screen stroke width of lines at every zoom level.
	LineWidth = 2.0
)

var LineColor = color.RGBA{0x00, 0x00, 0xff, 0xff}

// Bitmaps resolves an icon kind to the bitmap to draw.
type Bitmaps interface {
	Bitmap(kind string) image.Image
}

type Options struct {
	// Width and Height force the surface size in pixels. Zero means derive the
	// size from the scene.
	Width, Height int

	// Preview is an uncommitted line drawn like any other line.
	Preview *scene.Line

	Background color.Color
}

// CanvasSize returns the pixel size of the surface for s: the larger of the
// base canvas and the content bounds plus margin, times the scale.
func CanvasSize(s *scene.Scene) (int, int) {
	w, h := float64(BaseWidth), float64(BaseHeight)
	if r, ok := s.Bounds(); ok {
		far := r.Max()
		w = math.Max(w, far.X+ContentMargin)
		h = math.Max(h, far.Y+ContentMargin)
	}
	return int(math.Ceil(w * s.Scale())), int(math.Ceil(h * s.Scale()))
}

// Raster draws s into a new RGBA image.
func Raster(s *scene.Scene, bitmaps Bitmaps, opts Options) *image.RGBA {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = CanvasSize(s)
	}
	dc := gg.NewContext(w, h)
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()

	drawLines(dc, s, opts.Preview)
	drawIcons(dc, s, bitmaps)

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		img = image.NewRGBA(dc.Image().Bounds())
		draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)
	}
	return img
}

func drawLines(dc *gg.Context, s *scene.Scene, preview *scene.Line) {
	scale := s.Scale()
	dc.Push()
	defer dc.Pop()

	dc.Scale(scale, scale)
	// gg strokes in device space, so the width stays LineWidth at every zoom.
	dc.SetLineWidth(LineWidth)
	dc.SetColor(LineColor)
	dc.SetLineCapRound()

	lines := s.Lines()
	if preview != nil {
		lines = append(lines, *preview)
	}
	for _, l := range lines {
		dc.DrawLine(float64(l.X1), float64(l.Y1), float64(l.X2), float64(l.Y2))
		dc.Stroke()
	}
}

func drawIcons(dc *gg.Context, s *scene.Scene, bitmaps Bitmaps) {
	for _, icon := range s.Icons() {
		r := icon.Screen()
		w, h := int(math.Round(r.Size.W)), int(math.Round(r.Size.H))
		if w <= 0 || h <= 0 {
			continue
		}
		var src image.Image
		if bitmaps != nil {
			src = bitmaps.Bitmap(icon.Kind)
		}
		if src == nil {
			src = scene.Placeholder()
		}
		dc.DrawImage(scaleBitmap(src, w, h), int(math.Round(r.Min.X)), int(math.Round(r.Min.Y)))
	}
}

func scaleBitmap(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
