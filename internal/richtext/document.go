package richtext

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type segmentKind int

const (
	segText segmentKind = iota
	segBreak
	segBlockEnd
	segCellSep
)

// segment maps a span of plain-text offsets back to the node that produced
// it.
type segment struct {
	kind       segmentKind
	node       *html.Node
	start, end int
}

var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// Document is an in-memory Surface backed by an HTML node tree.
type Document struct {
	root *html.Node
	body *html.Node
	sel  Range
	base Style
}

var _ Surface = (*Document)(nil)

func NewDocument() *Document {
	d := &Document{}
	d.Clear()
	return d
}

// Clear drops all content and resets the selection.
func (d *Document) Clear() {
	d.mustLoad("<html><head></head><body></body></html>")
	d.sel = Range{}
}

func (d *Document) mustLoad(markup string) {
	if err := d.SetMarkup(markup); err != nil {
		panic(err)
	}
}

// SetMarkup replaces the whole document.
func (d *Document) SetMarkup(markup string) error {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	body := findElement(root, atom.Body)
	if body == nil {
		return fmt.Errorf("parse markup: no body element")
	}
	d.root, d.body = root, body
	d.sel = d.sel.normalized(d.Len())
	return nil
}

// SetBaseFont sets the default font of the whole document, the way a pane
// font is set when nothing is selected.
func (d *Document) SetBaseFont(family string, size int) error {
	s, err := Style{FontFamily: family, FontSize: size}.Validate()
	d.base = Style{FontFamily: s.FontFamily, FontSize: s.FontSize}
	return err
}

func (d *Document) BaseFont() (string, int) {
	family, size := d.base.FontFamily, d.base.FontSize
	if family == "" {
		family = DefaultFontFamily
	}
	if size == 0 {
		size = DefaultFontSize
	}
	return family, size
}

func (d *Document) Selection() Range { return d.sel }

func (d *Document) SetSelection(r Range) {
	d.sel = r.normalized(d.Len())
}

// Len is the length of the plain text in runes.
func (d *Document) Len() int {
	segs := d.segments()
	if len(segs) == 0 {
		return 0
	}
	return segs[len(segs)-1].end
}

func (d *Document) PlainText() string {
	var b strings.Builder
	for _, seg := range d.segments() {
		b.WriteString(seg.text())
	}
	return b.String()
}

// Markup serializes the document the way an HTML editor kit writes it out,
// head and base stylesheet included.
func (d *Document) Markup() (string, error) {
	var buf bytes.Buffer
	family, size := d.BaseFont()
	fmt.Fprintf(&buf, "<html>\n<head>\n<style type=\"text/css\">\nbody { font-family: %s; font-size: %dpt; }\ntd { border: 1px solid #ddd; padding: 5px; }\n</style>\n</head>\n<body>\n", family, size)
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render markup: %w", err)
		}
	}
	buf.WriteString("\n</body>\n</html>\n")
	return buf.String(), nil
}

// BodyMarkup serializes only the body content.
func (d *Document) BodyMarkup() (string, error) {
	var buf bytes.Buffer
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// InsertText inserts plain text at offset.
func (d *Document) InsertText(offset int, text string) {
	if text == "" {
		return
	}
	offset = min(max(offset, 0), d.Len())
	for _, seg := range d.segments() {
		if seg.kind == segText && offset >= seg.start && offset <= seg.end {
			runes := []rune(seg.node.Data)
			k := offset - seg.start
			seg.node.Data = string(runes[:k]) + text + string(runes[k:])
			d.shiftSelection(offset, utf8.RuneCountInString(text))
			return
		}
	}
	d.insertNodes(offset, []*html.Node{{Type: html.TextNode, Data: text}})
	d.shiftSelection(offset, utf8.RuneCountInString(text))
}

// InsertMarkupAt parses markup as a body fragment and inserts it at offset.
func (d *Document) InsertMarkupAt(offset int, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	before := d.Len()
	offset = min(max(offset, 0), before)
	d.insertNodes(offset, nodes)
	d.shiftSelection(offset, d.Len()-before)
	return nil
}

// DeleteRange removes the text in r. Line breaks inside the range are removed
// with it; block and cell boundaries stay.
func (d *Document) DeleteRange(r Range) {
	r = r.normalized(d.Len())
	if r.Empty() {
		return
	}
	for _, seg := range d.segments() {
		lo, hi := max(seg.start, r.Start), min(seg.end, r.End)
		if lo >= hi {
			continue
		}
		switch seg.kind {
		case segText:
			runes := []rune(seg.node.Data)
			seg.node.Data = string(runes[:lo-seg.start]) + string(runes[hi-seg.start:])
			if seg.node.Data == "" {
				seg.node.Parent.RemoveChild(seg.node)
			}
		case segBreak:
			seg.node.Parent.RemoveChild(seg.node)
		}
	}
	n := d.Len()
	d.sel = Range{Start: r.Start, End: r.Start}.normalized(n)
}

// ApplyCharacterStyle wraps every piece of text inside r in a styled span. An
// empty range is a no-op. Invalid style fields are replaced by defaults and
// reported as a *ValidationError after the style has been applied.
func (d *Document) ApplyCharacterStyle(r Range, s Style) error {
	s, warn := s.Validate()
	r = r.normalized(d.Len())
	if r.Empty() || s.IsZero() {
		return warn
	}
	style := s.CSS()
	for _, seg := range d.segments() {
		lo, hi := max(seg.start, r.Start), min(seg.end, r.End)
		if seg.kind != segText || lo >= hi {
			continue
		}
		runes := []rune(seg.node.Data)
		head, mid, tail := string(runes[:lo-seg.start]), string(runes[lo-seg.start:hi-seg.start]), string(runes[hi-seg.start:])

		parent, next := seg.node.Parent, seg.node.NextSibling
		parent.RemoveChild(seg.node)
		if head != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: head}, next)
		}
		span := &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: "style", Val: style}},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: mid})
		parent.InsertBefore(span, next)
		if tail != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: tail}, next)
		}
	}
	return warn
}

func (d *Document) shiftSelection(at, delta int) {
	if d.sel.Start >= at {
		d.sel.Start += delta
	}
	if d.sel.End >= at {
		d.sel.End += delta
	}
}

// insertNodes places nodes at offset when offset does not fall inside a text
// node.
func (d *Document) insertNodes(offset int, nodes []*html.Node) {
	segs := d.segments()
	for _, seg := range segs {
		if seg.kind != segText || offset < seg.start || offset > seg.end {
			continue
		}
		runes := []rune(seg.node.Data)
		k := offset - seg.start
		parent := seg.node.Parent
		var next *html.Node
		switch {
		case k == 0:
			next = seg.node
		case k == len(runes):
			next = seg.node.NextSibling
		default:
			tail := &html.Node{Type: html.TextNode, Data: string(runes[k:])}
			seg.node.Data = string(runes[:k])
			parent.InsertBefore(tail, seg.node.NextSibling)
			next = tail
		}
		for _, n := range nodes {
			parent.InsertBefore(n, next)
		}
		return
	}
	for _, seg := range segs {
		if seg.start < offset {
			continue
		}
		switch seg.kind {
		case segBreak:
			for _, n := range nodes {
				seg.node.Parent.InsertBefore(n, seg.node)
			}
		case segBlockEnd:
			for _, n := range nodes {
				seg.node.AppendChild(n)
			}
		case segCellSep:
			first := seg.node.FirstChild
			for _, n := range nodes {
				seg.node.InsertBefore(n, first)
			}
		}
		return
	}
	for _, n := range nodes {
		d.body.AppendChild(n)
	}
}

func (s segment) text() string {
	switch s.kind {
	case segText:
		return s.node.Data
	case segCellSep:
		return "\t"
	default:
		return "\n"
	}
}

func (d *Document) segments() []segment {
	var segs []segment
	pos := 0
	push := func(kind segmentKind, n *html.Node, length int) {
		segs = append(segs, segment{kind: kind, node: n, start: pos, end: pos + length})
		pos += length
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Data != "" {
				push(segText, n, utf8.RuneCountInString(n.Data))
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				push(segBreak, n, 1)
				return
			case atom.Script, atom.Style, atom.Head:
				return
			case atom.Td, atom.Th:
				if prevCell(n) != nil {
					push(segCellSep, n, 1)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			push(segBlockEnd, n, 1)
		}
	}
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return segs
}

// nodeAt returns the node that produced the rune at offset.
func (d *Document) nodeAt(offset int) *html.Node {
	for _, seg := range d.segments() {
		if offset >= seg.start && offset < seg.end {
			return seg.node
		}
	}
	return nil
}

func prevCell(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode && (p.DataAtom == atom.Td || p.DataAtom == atom.Th) {
			return p
		}
	}
	return nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom, out []*html.Node) []*html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = findAll(c, a, out)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
