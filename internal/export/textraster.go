package export

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"netsketch/internal/richtext"
)

const (
	textPadding  = 10.0
	blockSpacing = 6.0
	listIndent   = 18.0
	cellPadding  = 5.0
	lineLeading  = 1.3
)

var cellBorderColor = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}

type fontKey struct {
	mono, bold, italic bool
}

var fonts struct {
	once sync.Once
	set  map[fontKey]*truetype.Font
	err  error
}

func loadFonts() (map[fontKey]*truetype.Font, error) {
	fonts.once.Do(func() {
		data := []struct {
			key fontKey
			ttf []byte
		}{
			{fontKey{}, goregular.TTF},
			{fontKey{bold: true}, gobold.TTF},
			{fontKey{italic: true}, goitalic.TTF},
			{fontKey{bold: true, italic: true}, gobolditalic.TTF},
			{fontKey{mono: true}, gomono.TTF},
			{fontKey{mono: true, bold: true}, gomonobold.TTF},
			{fontKey{mono: true, italic: true}, gomonoitalic.TTF},
			{fontKey{mono: true, bold: true, italic: true}, gomonobolditalic.TTF},
		}
		fonts.set = make(map[fontKey]*truetype.Font, len(data))
		for _, d := range data {
			f, err := truetype.Parse(d.ttf)
			if err != nil {
				fonts.err = fmt.Errorf("failed to parse font: %w", err)
				return
			}
			fonts.set[d.key] = f
		}
	})
	return fonts.set, fonts.err
}

type faceKey struct {
	fontKey
	size int
}

// faceCache hands out font faces for one layout. Faces are not safe for
// concurrent use, so every layout gets its own cache.
type faceCache struct {
	fonts map[fontKey]*truetype.Font
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	set, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{fonts: set, faces: make(map[faceKey]font.Face)}, nil
}

func (c *faceCache) face(st richtext.Style) (font.Face, float64) {
	size := st.FontSize
	if size <= 0 {
		size = richtext.DefaultFontSize
	}
	k := faceKey{fontKey{mono: isMonospace(st.FontFamily), bold: st.Bold, italic: st.Italic}, size}
	f, ok := c.faces[k]
	if !ok {
		f = truetype.NewFace(c.fonts[k.fontKey], &truetype.Options{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		c.faces[k] = f
	}
	return f, float64(size)
}

func isMonospace(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "courier") || strings.Contains(f, "mono")
}

// parseColor reads a #rrggbb colour, falling back to black.
func parseColor(s string) color.RGBA {
	black := color.RGBA{A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// tableWidth resolves a table width in pixels or percent against the
// available width.
func tableWidth(spec string, avail float64) float64 {
	spec = strings.TrimSpace(spec)
	if p, ok := strings.CutSuffix(spec, "%"); ok {
		if n, err := strconv.ParseFloat(p, 64); err == nil && n > 0 {
			return min(avail, avail*n/100)
		}
	}
	if p, ok := strings.CutSuffix(spec, "px"); ok {
		if n, err := strconv.ParseFloat(p, 64); err == nil && n > 0 {
			return min(avail, n)
		}
	}
	return avail
}

func plainBlocks(text string) []Block {
	text = strings.TrimRight(text, " \n\t")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []Block{{Kind: Paragraph, Runs: []Run{{Text: text}}}}
}

type textOp struct {
	x, y      float64
	text      string
	face      font.Face
	color     color.Color
	underline bool
	width     float64
}

type strokeOp struct {
	x1, y1, x2, y2 float64
	width          float64
	color          color.Color
}

// textLayout positions converted blocks on a page of fixed width. Ops are
// collected first so the raster can be sized to the laid out height.
type textLayout struct {
	faces   *faceCache
	width   float64
	y       float64
	texts   []textOp
	strokes []strokeOp
}

func (l *textLayout) blocks(blocks []Block) {
	content := l.width - 2*textPadding
	for i, b := range blocks {
		if i > 0 {
			l.y += blockSpacing
		}
		switch b.Kind {
		case Paragraph, Heading, Preformatted:
			l.y += l.flow(b.Runs, textPadding, content, l.y, richtext.Style{})
		case ListItem:
			indent := textPadding + listIndent*float64(max(b.Level-1, 0))
			face, _ := l.faces.face(richtext.Style{})
			l.texts = append(l.texts, textOp{x: indent, text: b.Marker, face: face, color: color.Black})
			marker := len(l.texts) - 1
			top := l.y
			l.y += l.flow(b.Runs, indent+listIndent, content-(indent+listIndent-textPadding), l.y, richtext.Style{})
			l.texts[marker].y = top + float64(richtext.DefaultFontSize)
		case Rule:
			l.y += blockSpacing
			l.strokes = append(l.strokes, strokeOp{textPadding, l.y, l.width - textPadding, l.y, 1, color.Gray{Y: 0x80}})
		case Table:
			l.table(b, content)
		}
	}
}

func (l *textLayout) table(b Block, content float64) {
	cols := b.Cols()
	if cols == 0 {
		return
	}
	colW := tableWidth(b.Width, content) / float64(cols)
	top := l.y
	for _, row := range b.Rows {
		rowH := 0.0
		for i, cell := range row {
			base := richtext.Style{Bold: cell.Header}
			x := textPadding + float64(i)*colW
			h := l.flow(cell.Runs, x+cellPadding, colW-2*cellPadding, l.y+cellPadding, base)
			rowH = max(rowH, h)
		}
		rowH += 2 * cellPadding
		for i := 0; i < cols; i++ {
			x := textPadding + float64(i)*colW
			l.rect(x, l.y, colW, rowH, 1, cellBorderColor)
		}
		l.y += rowH
	}
	if b.Border > 0 {
		l.rect(textPadding, top, colW*float64(cols), l.y-top, float64(b.Border), color.Black)
	}
}

func (l *textLayout) rect(x, y, w, h, width float64, c color.Color) {
	l.strokes = append(l.strokes,
		strokeOp{x, y, x + w, y, width, c},
		strokeOp{x + w, y, x + w, y + h, width, c},
		strokeOp{x + w, y + h, x, y + h, width, c},
		strokeOp{x, y + h, x, y, width, c},
	)
}

// flow word-wraps runs into the box starting at (left, top) and returns the
// height used.
func (l *textLayout) flow(runs []Run, left, width, top float64, base richtext.Style) float64 {
	var line []textOp
	lineSize := 0.0
	x, y := left, top
	emit := func() {
		if lineSize == 0 {
			lineSize = richtext.DefaultFontSize
		}
		for _, op := range line {
			op.y = y + lineSize
			l.texts = append(l.texts, op)
		}
		y += lineSize * lineLeading
		line, lineSize, x = line[:0], 0, left
	}
	for _, r := range runs {
		st := base.Merge(r.Style)
		face, size := l.faces.face(st)
		c := parseColor(st.Color)
		for _, tok := range tokenize(r.Text) {
			if tok == "\n" {
				emit()
				continue
			}
			if tok == " " && x == left {
				continue
			}
			w := float64(font.MeasureString(face, tok)) / 64
			if tok != " " && x > left && x+w > left+width {
				emit()
			}
			line = append(line, textOp{x: x, text: tok, face: face, color: c, underline: st.Underline, width: w})
			x += w
			lineSize = max(lineSize, size)
		}
	}
	if len(line) > 0 {
		emit()
	}
	return y - top
}

// tokenize splits text into words, single spaces and newlines.
func tokenize(text string) []string {
	var toks []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, word.String())
			word.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '\n':
			flush()
			toks = append(toks, "\n")
		case ' ':
			flush()
			toks = append(toks, " ")
		case '\t':
			flush()
			toks = append(toks, " ", " ", " ", " ")
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return toks
}

// rasterText draws blocks onto a white raster of the given width. It returns
// nil when there is nothing to draw.
func rasterText(blocks []Block, width int) (*image.RGBA, error) {
	if len(blocks) == 0 || width <= 0 {
		return nil, nil
	}
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	l := &textLayout{faces: faces, width: float64(width), y: textPadding}
	l.blocks(blocks)
	height := int(l.y + textPadding + 0.5)

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	for _, s := range l.strokes {
		dc.SetColor(s.color)
		dc.SetLineWidth(s.width)
		dc.DrawLine(s.x1, s.y1, s.x2, s.y2)
		dc.Stroke()
	}
	for _, t := range l.texts {
		dc.SetFontFace(t.face)
		dc.SetColor(t.color)
		dc.DrawString(t.text, t.x, t.y)
		if t.underline {
			dc.SetLineWidth(1)
			dc.DrawLine(t.x, t.y+2, t.x+t.width, t.y+2)
			dc.Stroke()
		}
	}
	return toRGBA(dc.Image()), nil
}
