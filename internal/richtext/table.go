package richtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultTableWidth = "300px"
	DefaultRows       = 3
	DefaultCols       = 3
	DefaultBorder     = 1
	MaxRows           = 50
	MaxCols           = 50
	MaxBorder         = 10

	cellStyle = "padding: 5px; border: 1px solid #ddd;"
)

var widthPattern = regexp.MustCompile(`^\d+(px|%)$`)

// ValidateWidth returns w when it is a pixel or percent width such as "500px"
// or "50%", and DefaultTableWidth with a warning otherwise.
func ValidateWidth(w string) (string, error) {
	if widthPattern.MatchString(w) {
		return w, nil
	}
	return DefaultTableWidth, &ValidationError{Field: "table width", Value: w, Default: DefaultTableWidth}
}

type TableSpec struct {
	Rows, Cols int
	Border     int
	Width      string
}

// Validate clamps the spec into range, reporting every corrected field.
func (t TableSpec) Validate() (TableSpec, error) {
	var warns []error
	check := func(field string, v *int, lo, hi, def int) {
		if *v < lo || *v > hi {
			warns = append(warns, &ValidationError{Field: field, Value: strconv.Itoa(*v), Default: strconv.Itoa(def)})
			*v = def
		}
	}
	check("rows", &t.Rows, 1, MaxRows, DefaultRows)
	check("columns", &t.Cols, 1, MaxCols, DefaultCols)
	check("border width", &t.Border, 0, MaxBorder, DefaultBorder)
	w, err := ValidateWidth(strings.TrimSpace(t.Width))
	if err != nil {
		warns = append(warns, err)
	}
	t.Width = w
	return t, joinWarnings(warns)
}

// TableMarkup builds the markup for an empty table. Cells hold a non-breaking
// space so that they keep their height when rendered.
func TableMarkup(spec TableSpec) (string, error) {
	spec, warn := spec.Validate()
	tableStyle := fmt.Sprintf("border-collapse: collapse; width: %s; height: 200px; resize: both; overflow: auto; display: inline-block;", spec.Width)

	var b strings.Builder
	fmt.Fprintf(&b, "<br><table contenteditable=\"true\" style=\"%s\" border=\"%d\">", tableStyle, spec.Border)
	for i := 0; i < spec.Rows; i++ {
		b.WriteString("<tr>")
		for j := 0; j < spec.Cols; j++ {
			fmt.Fprintf(&b, "<td style=\"%s\">&nbsp;</td>", cellStyle)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table><br>")
	return b.String(), warn
}

// InsertTable inserts an empty table at offset. The returned error is a
// warning when only validation corrections happened.
func (d *Document) InsertTable(offset int, spec TableSpec) error {
	markup, warn := TableMarkup(spec)
	if err := d.InsertMarkupAt(offset, markup); err != nil {
		return err
	}
	return warn
}

type TableInfo struct {
	Rows, Cols int
	Width      string
}

// Tables reports the rendered shape of every table in document order.
func (d *Document) Tables() []TableInfo {
	tables := findAll(d.body, atom.Table, nil)
	out := make([]TableInfo, len(tables))
	for i, t := range tables {
		rows := findAll(t, atom.Tr, nil)
		info := TableInfo{Rows: len(rows), Width: Declaration(attr(t, "style"), "width")}
		for _, r := range rows {
			cols := 0
			for c := r.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cols++
				}
			}
			info.Cols = max(info.Cols, cols)
		}
		out[i] = info
	}
	return out
}

// TableAt returns the index of the table containing offset.
func (d *Document) TableAt(offset int) (int, bool) {
	n := d.nodeAt(offset)
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			for i, t := range findAll(d.body, atom.Table, nil) {
				if t == n {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// ResizeTable sets the width of the index-th table. The width goes through
// the same validation as InsertTable and is written into the parsed style
// declarations of the table.
func (d *Document) ResizeTable(index int, width string) error {
	tables := findAll(d.body, atom.Table, nil)
	if index < 0 || index >= len(tables) {
		return fmt.Errorf("no table at index %d", index)
	}
	w, warn := ValidateWidth(strings.TrimSpace(width))
	t := tables[index]
	style, err := setDeclaration(attr(t, "style"), "width", w)
	if err != nil {
		return err
	}
	setAttr(t, "style", style)
	return warn
}

func joinWarnings(warns []error) error {
	switch len(warns) {
	case 0:
		return nil
	case 1:
		return warns[0]
	default:
		return warnings(warns)
	}
}

type warnings []error

func (w warnings) Error() string {
	msgs := make([]string, len(w))
	for i, err := range w {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (w warnings) Unwrap() []error { return w }
