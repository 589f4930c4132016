package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"netsketch/internal/richtext"
)

type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ListItem
	Preformatted
	Table
	Rule
)

// Run is a piece of text with uniform character style.
type Run struct {
	Text  string
	Style richtext.Style
}

type Cell struct {
	Runs   []Run
	Header bool
}

func (c Cell) Text() string { return runsText(c.Runs) }

// Block is one unit of converted document content.
type Block struct {
	Kind   BlockKind
	Level  int    // heading level, or list nesting depth
	Marker string // list item marker
	Runs   []Run

	Rows   [][]Cell
	Width  string
	Border int
}

func (b Block) Text() string { return runsText(b.Runs) }

func (b Block) Cols() int {
	n := 0
	for _, r := range b.Rows {
		n = max(n, len(r))
	}
	return n
}

func runsText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

var unsupported = map[atom.Atom]bool{
	atom.Script: true, atom.Iframe: true, atom.Object: true, atom.Embed: true, atom.Applet: true,
	atom.Form: true, atom.Input: true, atom.Button: true, atom.Select: true, atom.Textarea: true,
	atom.Svg: true, atom.Math: true, atom.Canvas: true, atom.Video: true, atom.Audio: true,
	atom.Frameset: true, atom.Frame: true,
}

var voidElements = map[atom.Atom]bool{
	atom.Br: true, atom.Hr: true, atom.Img: true, atom.Meta: true, atom.Link: true,
	atom.Col: true, atom.Area: true, atom.Base: true, atom.Wbr: true, atom.Source: true,
}

var headingSizes = map[atom.Atom]int{
	atom.H1: 20, atom.H2: 18, atom.H3: 16, atom.H4: 14, atom.H5: 12, atom.H6: 11,
}

type frame struct {
	name  string
	a     atom.Atom
	style richtext.Style
}

type listState struct {
	ordered bool
	next    int
}

type converter struct {
	stack   []frame
	blocks  []Block
	cur     *Block
	table   *Block
	cell    *Cell
	lists   []listState
	skip    int
	pre     int
	lastPos int
}

// Convert turns sanitized markup into document blocks. It is strict: a tag
// that closes out of order, an element left open at the end of input, a
// nested table or an element that cannot be represented in a document yields
// a *ConversionError and no blocks.
func Convert(markup string) ([]Block, error) {
	c := &converter{}
	z := html.NewTokenizer(strings.NewReader(markup))
	read := 0
	for {
		tt := z.Next()
		c.lastPos = read
		read += len(z.Raw())
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return c.finish()
			}
			return nil, c.fail("%v", z.Err())
		case html.TextToken:
			c.text(string(z.Text()))
		case html.StartTagToken:
			tok := z.Token()
			if err := c.start(tok); err != nil {
				return nil, err
			}
			if voidElements[tok.DataAtom] {
				c.end(tok)
			}
		case html.SelfClosingTagToken:
			tok := z.Token()
			if err := c.start(tok); err != nil {
				return nil, err
			}
			if err := c.end(tok); err != nil {
				return nil, err
			}
		case html.EndTagToken:
			tok := z.Token()
			if voidElements[tok.DataAtom] {
				continue
			}
			if err := c.end(tok); err != nil {
				return nil, err
			}
		}
	}
}

func (c *converter) fail(format string, args ...any) error {
	return &ConversionError{Reason: fmt.Sprintf(format, args...), Offset: c.lastPos}
}

func (c *converter) style() richtext.Style {
	if len(c.stack) == 0 {
		return richtext.Style{}
	}
	return c.stack[len(c.stack)-1].style
}

func (c *converter) start(tok html.Token) error {
	if unsupported[tok.DataAtom] {
		return c.fail("unsupported element <%s>", tok.Data)
	}
	st, err := c.elementStyle(tok)
	if err != nil {
		return err
	}
	c.stack = append(c.stack, frame{name: tok.Data, a: tok.DataAtom, style: st})

	switch tok.DataAtom {
	case atom.Head, atom.Title, atom.Style:
		c.skip++
	case atom.P, atom.Div, atom.Blockquote:
		c.flush()
	case atom.Pre:
		c.flush()
		c.pre++
		c.cur = &Block{Kind: Preformatted}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		c.flush()
		c.cur = &Block{Kind: Heading, Level: int(tok.Data[1] - '0')}
	case atom.Ul, atom.Ol:
		c.flush()
		c.lists = append(c.lists, listState{ordered: tok.DataAtom == atom.Ol, next: 1})
	case atom.Li:
		c.flush()
		b := &Block{Kind: ListItem, Level: len(c.lists), Marker: "•"}
		if n := len(c.lists); n > 0 && c.lists[n-1].ordered {
			b.Marker = strconv.Itoa(c.lists[n-1].next) + "."
			c.lists[n-1].next++
		}
		c.cur = b
	case atom.Table:
		if c.table != nil {
			return c.fail("nested tables are not supported")
		}
		c.flush()
		border, _ := strconv.Atoi(getAttr(tok, "border"))
		width := richtext.Declaration(getAttr(tok, "style"), "width")
		if width == "" {
			width = getAttr(tok, "width")
		}
		c.table = &Block{Kind: Table, Width: width, Border: border}
	case atom.Tr:
		if c.table == nil {
			return c.fail("<tr> outside a table")
		}
		if c.cell != nil {
			return c.fail("<tr> inside a cell")
		}
		c.table.Rows = append(c.table.Rows, nil)
	case atom.Td, atom.Th:
		if c.table == nil || len(c.table.Rows) == 0 {
			return c.fail("<%s> outside a table row", tok.Data)
		}
		if c.cell != nil {
			return c.fail("nested <%s> cell", tok.Data)
		}
		c.cell = &Cell{Header: tok.DataAtom == atom.Th}
	case atom.Br:
		c.appendRun("\n")
	case atom.Hr:
		c.flush()
		c.blocks = append(c.blocks, Block{Kind: Rule})
	}
	return nil
}

func (c *converter) end(tok html.Token) error {
	if len(c.stack) == 0 {
		return c.fail("unexpected </%s>", tok.Data)
	}
	top := c.stack[len(c.stack)-1]
	if top.name != tok.Data {
		return c.fail("</%s> closes <%s>", tok.Data, top.name)
	}
	c.stack = c.stack[:len(c.stack)-1]

	switch tok.DataAtom {
	case atom.Head, atom.Title, atom.Style:
		c.skip--
	case atom.P, atom.Div, atom.Blockquote, atom.Li,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		c.flush()
	case atom.Pre:
		c.pre--
		c.flush()
	case atom.Ul, atom.Ol:
		c.flush()
		c.lists = c.lists[:len(c.lists)-1]
	case atom.Td, atom.Th:
		if c.cell == nil {
			return c.fail("</%s> without an open cell", tok.Data)
		}
		row := &c.table.Rows[len(c.table.Rows)-1]
		cell := *c.cell
		cell.Runs = trimRuns(cell.Runs)
		*row = append(*row, cell)
		c.cell = nil
	case atom.Table:
		c.blocks = append(c.blocks, *c.table)
		c.table = nil
	}
	return nil
}

func (c *converter) finish() ([]Block, error) {
	if n := len(c.stack); n > 0 {
		return nil, &ConversionError{Reason: fmt.Sprintf("unterminated <%s>", c.stack[n-1].name), Offset: -1}
	}
	c.flush()
	return c.blocks, nil
}

func (c *converter) text(s string) {
	if c.skip > 0 || s == "" {
		return
	}
	if c.pre == 0 {
		s = collapseSpace(s)
		if strings.TrimSpace(s) == "" && c.cell == nil && (c.cur == nil || len(c.cur.Runs) == 0) {
			return
		}
	}
	c.appendRun(s)
}

func (c *converter) appendRun(s string) {
	run := Run{Text: s, Style: c.style()}
	switch {
	case c.cell != nil:
		c.cell.Runs = append(c.cell.Runs, run)
	case c.table != nil:
		// Stray text between table rows is dropped.
	default:
		if c.cur == nil {
			c.cur = &Block{Kind: Paragraph}
		}
		c.cur.Runs = append(c.cur.Runs, run)
	}
}

// flush closes the block being built, dropping it when it has no text.
func (c *converter) flush() {
	if c.cur == nil {
		return
	}
	b := *c.cur
	c.cur = nil
	if b.Kind != Preformatted {
		b.Runs = trimRuns(b.Runs)
	}
	if strings.TrimSpace(b.Text()) == "" {
		return
	}
	c.blocks = append(c.blocks, b)
}

func (c *converter) elementStyle(tok html.Token) (richtext.Style, error) {
	st := c.style()
	switch tok.DataAtom {
	case atom.B, atom.Strong, atom.Th:
		st.Bold = true
	case atom.I, atom.Em, atom.Cite:
		st.Italic = true
	case atom.U, atom.Ins:
		st.Underline = true
	case atom.Pre, atom.Code, atom.Tt:
		st.FontFamily = "Courier"
	case atom.Font:
		if v := getAttr(tok, "color"); v != "" {
			st.Color = v
		}
		if v := getAttr(tok, "face"); v != "" {
			st.FontFamily = strings.TrimSpace(strings.Split(v, ",")[0])
		}
	}
	if size, ok := headingSizes[tok.DataAtom]; ok {
		st.Bold = true
		st.FontSize = size
	}
	if attr := getAttr(tok, "style"); attr != "" {
		inline, err := richtext.ParseStyle(attr)
		if err != nil {
			return st, c.fail("bad style on <%s>: %v", tok.Data, err)
		}
		st = st.Merge(inline)
	}
	return st, nil
}

func getAttr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// trimRuns removes leading and trailing blanks from a run list.
func trimRuns(runs []Run) []Run {
	for len(runs) > 0 {
		runs[0].Text = strings.TrimLeft(runs[0].Text, " ")
		if runs[0].Text != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		last := len(runs) - 1
		runs[last].Text = strings.TrimRight(runs[last].Text, " \n")
		if runs[last].Text != "" {
			break
		}
		runs = runs[:last]
	}
	return runs
}
