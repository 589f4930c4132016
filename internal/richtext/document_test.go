package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDocument(t *testing.T) {
	d := NewDocument()
	assert.Equal(t, "", d.PlainText())
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, Range{}, d.Selection())

	markup, err := d.Markup()
	require.NoError(t, err)
	assert.Contains(t, markup, "<head>")
	assert.Contains(t, markup, "<body>")
}

func TestInsertText(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "hello world")
	d.InsertText(5, ",")
	assert.Equal(t, "hello, world", d.PlainText())

	d.InsertText(100, "!")
	assert.Equal(t, "hello, world!", d.PlainText())
}

func TestSetMarkupPlainText(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetMarkup("<p>one</p><p>two<br>three</p>"))
	assert.Equal(t, "one\ntwo\nthree\n", d.PlainText())
	assert.Equal(t, 14, d.Len())
}

func TestInsertMarkupAt(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "ab")
	require.NoError(t, d.InsertMarkupAt(1, "<b>X</b>"))
	assert.Equal(t, "aXb", d.PlainText())

	body, err := d.BodyMarkup()
	require.NoError(t, err)
	assert.Equal(t, "a<b>X</b>b", body)
}

func TestInsertMarkupShiftsSelection(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "abcdef")
	d.SetSelection(Range{Start: 3, End: 5})
	require.NoError(t, d.InsertMarkupAt(0, "<i>xy</i>"))
	assert.Equal(t, Range{Start: 5, End: 7}, d.Selection())
}

func TestDeleteRange(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetMarkup("<p>hello <b>big</b> world</p>"))
	d.DeleteRange(Range{Start: 5, End: 9})
	assert.Equal(t, "hello world\n", d.PlainText())
	assert.Equal(t, Range{Start: 5, End: 5}, d.Selection())
}

func TestApplyCharacterStyle(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "make this bold")
	require.NoError(t, d.ApplyCharacterStyle(Range{Start: 10, End: 14}, Style{Bold: true, Color: "#ff0000"}))

	assert.Equal(t, "make this bold", d.PlainText())
	body, err := d.BodyMarkup()
	require.NoError(t, err)
	assert.Equal(t, `make this <span style="font-weight: bold; color: #ff0000;">bold</span>`, body)
}

func TestApplyCharacterStyleAcrossNodes(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetMarkup("<p>ab<i>cd</i>ef</p>"))
	require.NoError(t, d.ApplyCharacterStyle(Range{Start: 1, End: 5}, Style{Underline: true}))
	assert.Equal(t, "abcdef\n", d.PlainText())

	body, err := d.BodyMarkup()
	require.NoError(t, err)
	assert.Contains(t, body, `a<span style="text-decoration: underline;">b</span>`)
	assert.Contains(t, body, `<i><span style="text-decoration: underline;">cd</span></i>`)
	assert.Contains(t, body, `<span style="text-decoration: underline;">e</span>f`)
}

func TestApplyCharacterStyleWarnsAndProceeds(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "text")
	err := d.ApplyCharacterStyle(Range{Start: 0, End: 4}, Style{FontSize: 200, Color: "red"})
	require.Error(t, err)
	assert.True(t, IsWarning(err))

	body, _ := d.BodyMarkup()
	assert.Contains(t, body, "font-size: 12px;")
	assert.Contains(t, body, "color: #000000;")
}

func TestApplyCharacterStyleEmptyRange(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "text")
	require.NoError(t, d.ApplyCharacterStyle(Range{Start: 2, End: 2}, Style{Bold: true}))
	body, _ := d.BodyMarkup()
	assert.Equal(t, "text", body)
}

func TestSetBaseFont(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetBaseFont("Georgia", 14))
	family, size := d.BaseFont()
	assert.Equal(t, "Georgia", family)
	assert.Equal(t, 14, size)

	err := d.SetBaseFont("Georgia", 2)
	assert.True(t, IsWarning(err))
	_, size = d.BaseFont()
	assert.Equal(t, DefaultFontSize, size)
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("font-weight: bold; font-style: italic; color: #00FF00; font-family: 'Courier New', monospace; font-size: 18px")
	require.NoError(t, err)
	assert.Equal(t, Style{Bold: true, Italic: true, Color: "#00ff00", FontFamily: "Courier New", FontSize: 18}, s)
}

func TestStyleMerge(t *testing.T) {
	s := Style{Bold: true, FontSize: 10}.Merge(Style{Italic: true, Color: "#123456"})
	assert.Equal(t, Style{Bold: true, Italic: true, Color: "#123456", FontSize: 10}, s)
}

func TestDeclaration(t *testing.T) {
	attr := "border-collapse: collapse; WIDTH: 40% ; border: 1px solid #ddd"
	assert.Equal(t, "40%", Declaration(attr, "width"))
	assert.Equal(t, "collapse", Declaration(attr, "border-collapse"))
	assert.Empty(t, Declaration(attr, "height"))
	assert.Empty(t, Declaration("", "width"))
}
