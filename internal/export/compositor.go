// Package export flattens a scene and its notes into a PNG or PDF artifact.
package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"netsketch/internal/render"
	"netsketch/internal/richtext"
	"netsketch/internal/scene"
)

type Options struct {
	// Title heads the first PDF page. Empty means DefaultTitle.
	Title string

	// Compress deflates PDF page streams.
	Compress bool

	// Width and Height force the scene raster size. Zero derives it from the
	// scene content.
	Width, Height int
}

// Result is a rendered artifact. Fallback is set when the notes could not be
// converted and were written as plain text; Cause then holds the
// *ConversionError.
type Result struct {
	Data     []byte
	Fallback bool
	Cause    error
}

type Compositor struct {
	bitmaps render.Bitmaps
	opts    Options
	log     logrus.FieldLogger
}

func NewCompositor(bitmaps render.Bitmaps, opts Options, log logrus.FieldLogger) *Compositor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Compositor{bitmaps: bitmaps, opts: opts, log: log}
}

// content converts the surface's markup into blocks. Any failure, including
// one to serialize the markup, degrades to the plain text.
func (c *Compositor) content(surface richtext.Surface) ([]Block, error) {
	if surface == nil {
		return nil, nil
	}
	markup, err := surface.Markup()
	if err != nil {
		err = &ConversionError{Reason: err.Error(), Offset: -1}
	} else {
		var blocks []Block
		if blocks, err = Convert(Sanitize(markup)); err == nil {
			return blocks, nil
		}
	}
	c.log.WithError(err).Warn("Notes markup not converted, using plain text")
	return plainBlocks(surface.PlainText()), err
}

func (c *Compositor) sceneRaster(s *scene.Scene) *image.RGBA {
	return render.Raster(s, c.bitmaps, render.Options{Width: c.opts.Width, Height: c.opts.Height})
}

func (c *Compositor) sceneWidth(s *scene.Scene) int {
	if c.opts.Width > 0 && c.opts.Height > 0 {
		return c.opts.Width
	}
	w, _ := render.CanvasSize(s)
	return w
}

// PNG rasterizes the scene and, beneath it, the notes, and encodes the stacked
// image. Only encoding can fail; unconvertible notes are drawn as plain text.
func (c *Compositor) PNG(ctx context.Context, s *scene.Scene, surface richtext.Surface) (*Result, error) {
	blocks, convErr := c.content(surface)
	width := c.sceneWidth(s)

	var sceneImg, textImg *image.RGBA
	var g errgroup.Group
	g.Go(func() error {
		sceneImg = c.sceneRaster(s)
		return nil
	})
	g.Go(func() error {
		var err error
		textImg, err = rasterText(blocks, width)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := stack(sceneImg, textImg)
	var buf bytes.Buffer
	if err := gg.NewContextForRGBA(out).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return &Result{Data: buf.Bytes(), Fallback: convErr != nil, Cause: convErr}, nil
}

// PDF writes a titled A4 document holding the scene image followed by the
// converted notes. Unconvertible notes become one unstyled paragraph and the
// document is still produced.
func (c *Compositor) PDF(ctx context.Context, s *scene.Scene, surface richtext.Surface) (*Result, error) {
	blocks, convErr := c.content(surface)
	img := c.sceneRaster(s)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := newPDFWriter(c.opts.Title, c.opts.Compress)
	w.title(c.opts.Title)
	if err := w.image(img); err != nil {
		return nil, err
	}
	if convErr != nil {
		w.plain(surface.PlainText())
	} else {
		w.blocks(blocks)
	}
	data, err := w.output()
	if err != nil {
		return nil, err
	}
	return &Result{Data: data, Fallback: convErr != nil, Cause: convErr}, nil
}

type Request struct {
	Format  Format
	Path    string
	Scene   *scene.Scene
	Surface richtext.Surface
}

// Outcome is what the host is told when an export finishes.
type Outcome struct {
	Format   Format
	Path     string
	Fallback bool
	Err      error
}

// Export renders the request and writes it to disk.
func (c *Compositor) Export(ctx context.Context, req Request) Outcome {
	out := Outcome{Format: req.Format, Path: WithExtension(req.Path, req.Format)}
	log := c.log.WithFields(logrus.Fields{"format": req.Format, "path": out.Path})

	var res *Result
	var err error
	switch req.Format {
	case PNG:
		res, err = c.PNG(ctx, req.Scene, req.Surface)
	case PDF:
		res, err = c.PDF(ctx, req.Scene, req.Surface)
	default:
		err = errors.New("unknown export format")
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.WithError(err).Error("Export failed")
		out.Err = err
		return out
	}
	out.Fallback = res.Fallback

	if out.Path, err = WriteFile(req.Path, req.Format, res.Data); err != nil {
		log.WithError(err).Error("Export failed")
		out.Err = err
		return out
	}
	log.WithField("fallback", res.Fallback).Info("Export written")
	return out
}

// stack places bottom under top on a white surface as wide as the wider one.
func stack(top, bottom *image.RGBA) *image.RGBA {
	if bottom == nil {
		return top
	}
	tb, bb := top.Bounds(), bottom.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, max(tb.Dx(), bb.Dx()), tb.Dy()+bb.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, tb.Dx(), tb.Dy()), top, tb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottom, bb.Min, draw.Src)
	return out
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
