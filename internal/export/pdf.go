package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"netsketch/internal/richtext"
)

const (
	DefaultTitle = "Network Diagram Export"

	pageMargin    = 36.0
	titleSize     = 16.0
	titleSpacing  = 20.0
	imageSpacing  = 12.0
	fallbackSize  = 12.0
	tableFontSize = 11.0
)

// pdfWriter lays converted blocks out on A4 pages.
type pdfWriter struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	contentW float64
	pageH    float64
}

func newPDFWriter(title string, compress bool) *pdfWriter {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("netsketch", true)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &pdfWriter{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		contentW: w - 2*pageMargin,
		pageH:    h,
	}
}

func (w *pdfWriter) title(title string) {
	w.pdf.SetFont("Helvetica", "B", titleSize)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.CellFormat(w.contentW, titleSize, w.tr(title), "", 1, "C", false, 0, "")
	w.pdf.Ln(titleSpacing)
}

// image places img centred, scaled down to fit the content width and half the
// page height. It is never scaled up.
func (w *pdfWriter) image(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	w.pdf.RegisterImageOptionsReader("diagram", opts, &buf)

	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return nil
	}
	k := min(1, w.contentW/iw, (w.pageH/2)/ih)
	iw, ih = iw*k, ih*k
	x := pageMargin + (w.contentW-iw)/2
	w.pdf.ImageOptions("diagram", x, 0, iw, ih, true, opts, 0, "")
	w.pdf.Ln(imageSpacing)
	return nil
}

func (w *pdfWriter) plain(text string) {
	w.pdf.SetFont("Helvetica", "", fallbackSize)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.MultiCell(w.contentW, fallbackSize*lineLeading, w.tr(text), "", "L", false)
}

func (w *pdfWriter) blocks(blocks []Block) {
	for _, b := range blocks {
		switch b.Kind {
		case Paragraph, Heading, Preformatted:
			w.runs(b.Runs, richtext.Style{})
			w.pdf.Ln(blockSpacing)
		case ListItem:
			left := pageMargin + listIndent*float64(b.Level)
			w.pdf.SetLeftMargin(left)
			w.pdf.SetX(left - listIndent)
			w.setStyle(richtext.Style{})
			w.pdf.Write(fallbackSize*lineLeading, w.tr(b.Marker))
			w.pdf.SetX(left)
			w.runs(b.Runs, richtext.Style{})
			w.pdf.SetLeftMargin(pageMargin)
			w.pdf.Ln(blockSpacing)
		case Rule:
			y := w.pdf.GetY() + blockSpacing
			w.pdf.SetDrawColor(128, 128, 128)
			w.pdf.SetLineWidth(0.5)
			w.pdf.Line(pageMargin, y, pageMargin+w.contentW, y)
			w.pdf.SetY(y + blockSpacing)
		case Table:
			w.table(b)
			w.pdf.Ln(blockSpacing)
		}
	}
}

// runs writes styled runs as flowing text and ends the line.
func (w *pdfWriter) runs(runs []Run, base richtext.Style) {
	lh := 0.0
	for _, r := range runs {
		size := w.setStyle(base.Merge(r.Style))
		lh = max(lh, size*lineLeading)
		w.pdf.Write(size*lineLeading, w.tr(r.Text))
	}
	if lh == 0 {
		lh = fallbackSize * lineLeading
	}
	w.pdf.Ln(lh)
}

func (w *pdfWriter) setStyle(st richtext.Style) float64 {
	size := float64(st.FontSize)
	if size <= 0 {
		size = richtext.DefaultFontSize
	}
	var style strings.Builder
	if st.Bold {
		style.WriteByte('B')
	}
	if st.Italic {
		style.WriteByte('I')
	}
	if st.Underline {
		style.WriteByte('U')
	}
	w.pdf.SetFont(pdfFamily(st.FontFamily), style.String(), size)
	c := parseColor(st.Color)
	w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	return size
}

// pdfFamily maps a font family onto one of the core PDF fonts.
func pdfFamily(family string) string {
	f := strings.ToLower(family)
	switch {
	case isMonospace(f):
		return "Courier"
	case strings.Contains(f, "times") || (strings.Contains(f, "serif") && !strings.Contains(f, "sans")):
		return "Times"
	default:
		return "Helvetica"
	}
}

func (w *pdfWriter) table(b Block) {
	cols := b.Cols()
	if cols == 0 {
		return
	}
	colW := tableWidth(b.Width, w.contentW) / float64(cols)
	lh := tableFontSize * lineLeading
	for _, row := range b.Rows {
		texts := make([]string, cols)
		styles := make([]richtext.Style, cols)
		lines := 1
		for i, cell := range row {
			styles[i] = richtext.Style{Bold: cell.Header, FontSize: int(tableFontSize)}
			if len(cell.Runs) > 0 {
				styles[i] = styles[i].Merge(cell.Runs[0].Style)
				styles[i].FontSize = int(tableFontSize)
			}
			texts[i] = w.tr(cell.Text())
			w.setStyle(styles[i])
			lines = max(lines, len(w.pdf.SplitLines([]byte(texts[i]), colW-2*cellPadding)))
		}
		rowH := float64(lines)*lh + 2*cellPadding
		if w.pdf.GetY()+rowH > w.pageH-pageMargin {
			w.pdf.AddPage()
		}
		y := w.pdf.GetY()
		for i := 0; i < cols; i++ {
			x := pageMargin + float64(i)*colW
			if b.Border > 0 {
				w.pdf.SetDrawColor(0, 0, 0)
				w.pdf.SetLineWidth(float64(b.Border) * 0.5)
			} else {
				w.pdf.SetDrawColor(0xdd, 0xdd, 0xdd)
				w.pdf.SetLineWidth(0.5)
			}
			w.pdf.Rect(x, y, colW, rowH, "D")
			if texts[i] == "" {
				continue
			}
			w.setStyle(styles[i])
			w.pdf.SetXY(x+cellPadding, y+cellPadding)
			w.pdf.MultiCell(colW-2*cellPadding, lh, texts[i], "", "L", false)
		}
		w.pdf.SetXY(pageMargin, y+rowH)
	}
}

func (w *pdfWriter) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
