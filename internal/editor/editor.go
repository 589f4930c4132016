// Package editor assembles the scene, the interaction controller, the notes
// document and the exporter into one unit a host can embed.
package editor

import (
	"context"
	"errors"
	"image"
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"netsketch/internal/export"
	"netsketch/internal/interact"
	"netsketch/internal/render"
	"netsketch/internal/richtext"
	"netsketch/internal/scene"
)

// Drawable is the part of the editor a host lays out: the diagram, either as
// pixels or as terminal cells, and the notes surface beside it.
type Drawable interface {
	Raster(width, height int) *image.RGBA
	Cells(opts render.CellOptions) []string
	Notes() richtext.Surface
}

// Host is what any embedding application gets from the editor.
type Host interface {
	Surface() Drawable
	RequestExport(ctx context.Context, f export.Format, destination string) <-chan export.Outcome
}

var ErrUnknownIcon = errors.New("icon kind not in catalog")

type Options struct {
	Export export.Options
}

// Editor owns one diagram and its notes. It is not safe for concurrent use;
// exports take snapshots and run elsewhere.
type Editor struct {
	scene   *scene.Scene
	catalog *scene.Catalog
	ctrl    *interact.Controller
	notes   *richtext.Document
	runner  *export.Runner
	log     logrus.FieldLogger
}

var _ Host = (*Editor)(nil)

func New(catalog *scene.Catalog, opts Options, log logrus.FieldLogger) *Editor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if catalog == nil {
		catalog = scene.NewCatalog()
	}
	s := scene.New()
	return &Editor{
		scene:   s,
		catalog: catalog,
		ctrl:    interact.New(s, interact.WithLogger(log)),
		notes:   richtext.NewDocument(),
		runner:  export.NewRunner(export.NewCompositor(catalog, opts.Export, log)),
		log:     log,
	}
}

func (e *Editor) Scene() *scene.Scene              { return e.scene }
func (e *Editor) Catalog() *scene.Catalog          { return e.catalog }
func (e *Editor) Controller() *interact.Controller { return e.ctrl }
func (e *Editor) Notes() *richtext.Document        { return e.notes }

func (e *Editor) Surface() Drawable { return drawable{e} }

// Handle feeds one pointer or tool event to the controller. Events the
// controller has no use for are dropped quietly.
func (e *Editor) Handle(ev interact.Event) {
	_ = e.ctrl.Handle(ev)
}

// PlaceIcon drops a catalog icon at the default position. Unknown kinds are
// refused.
func (e *Editor) PlaceIcon(kind string) (*scene.Icon, error) {
	if !e.catalog.Has(kind) {
		return nil, ErrUnknownIcon
	}
	icon := e.ctrl.PlaceIcon(kind)
	e.log.WithField("icon", kind).Debug("Placed icon")
	return icon, nil
}

func (e *Editor) ZoomIn()    { e.scene.ZoomIn() }
func (e *Editor) ZoomOut()   { e.scene.ZoomOut() }
func (e *Editor) ZoomReset() { e.scene.ZoomReset() }

// ClearAll empties the diagram and abandons any gesture in progress. The
// notes are kept.
func (e *Editor) ClearAll() {
	e.ctrl.Reset()
	e.scene.ClearAll()
}

func (e *Editor) caret() int {
	return e.notes.Selection().Start
}

// InsertTable inserts an empty table at the caret. A warning error means some
// values were replaced by defaults and the table was still inserted.
func (e *Editor) InsertTable(spec richtext.TableSpec) error {
	err := e.notes.InsertTable(e.caret(), spec)
	e.warn(err, "table")
	return err
}

// ResizeTable changes the width of the table under the caret.
func (e *Editor) ResizeTable(width string) error {
	idx, ok := e.notes.TableAt(e.caret())
	if !ok {
		return errors.New("no table at caret")
	}
	err := e.notes.ResizeTable(idx, width)
	e.warn(err, "table width")
	return err
}

// StyleSelection applies s to the selected notes text.
func (e *Editor) StyleSelection(s richtext.Style) error {
	err := e.notes.ApplyCharacterStyle(e.notes.Selection(), s)
	e.warn(err, "style")
	return err
}

// SetFont sets the notes font when nothing is selected, and styles the
// selection otherwise.
func (e *Editor) SetFont(family string, size int) error {
	if e.notes.Selection().Empty() {
		err := e.notes.SetBaseFont(family, size)
		e.warn(err, "font")
		return err
	}
	return e.StyleSelection(richtext.Style{FontFamily: family, FontSize: size})
}

// TypeText inserts text at the caret, replacing the selection.
func (e *Editor) TypeText(text string) {
	sel := e.notes.Selection()
	if !sel.Empty() {
		e.notes.DeleteRange(sel)
	}
	e.notes.InsertText(e.caret(), text)
}

// LineBreak replaces the selection with a <br>.
func (e *Editor) LineBreak() error {
	sel := e.notes.Selection()
	if !sel.Empty() {
		e.notes.DeleteRange(sel)
	}
	return e.notes.InsertMarkupAt(e.caret(), "<br>")
}

// DeleteBackward removes the selection, or the rune before the caret when
// nothing is selected.
func (e *Editor) DeleteBackward() {
	sel := e.notes.Selection()
	if sel.Empty() {
		if sel.Start == 0 {
			return
		}
		sel = richtext.Range{Start: sel.Start - 1, End: sel.Start}
	}
	e.notes.DeleteRange(sel)
}

func (e *Editor) SelectAll() {
	e.notes.SetSelection(richtext.Range{Start: 0, End: e.notes.Len()})
}

// Paste inserts clipboard content at the caret. HTML is inserted as markup
// when it would survive export conversion; otherwise only its text is kept.
func (e *Editor) Paste(content string) {
	if content == "" {
		return
	}
	if looksLikeHTML(content) {
		_, err := export.Convert(export.Sanitize(content))
		if err == nil {
			err = e.notes.InsertMarkupAt(e.caret(), content)
		}
		if err == nil {
			return
		}
		e.log.WithError(err).Warn("Pasted markup rejected, inserting text")
		content = html.UnescapeString(strip.StripTags(content))
	}
	e.TypeText(content)
}

func looksLikeHTML(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(t, "<") && strings.Contains(t, ">") &&
		(strings.Contains(t, "</") || strings.Contains(t, "<br") || strings.HasPrefix(t, "<!doctype"))
}

func (e *Editor) warn(err error, what string) {
	if err != nil && richtext.IsWarning(err) {
		e.log.WithError(err).Warnf("Invalid %s corrected", what)
	}
}

// RequestExport snapshots the diagram and notes and writes the artifact in
// the background.
func (e *Editor) RequestExport(ctx context.Context, f export.Format, destination string) <-chan export.Outcome {
	e.log.WithFields(logrus.Fields{"format": f, "path": destination}).Info("Export requested")
	return e.runner.Run(ctx, export.Request{
		Format:  f,
		Path:    destination,
		Scene:   e.scene,
		Surface: e.notes,
	})
}

type drawable struct{ e *Editor }

func (d drawable) Raster(width, height int) *image.RGBA {
	return render.Raster(d.e.scene, d.e.catalog, render.Options{
		Width:   width,
		Height:  height,
		Preview: d.e.ctrl.Preview(),
	})
}

func (d drawable) Cells(opts render.CellOptions) []string {
	opts.Preview = d.e.ctrl.Preview()
	if id, ok := d.e.ctrl.Dragging(); ok {
		opts.Selected = id
	}
	return render.Cells(d.e.scene, opts)
}

func (d drawable) Notes() richtext.Surface { return d.e.notes }
