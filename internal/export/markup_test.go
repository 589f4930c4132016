package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsketch/internal/richtext"
)

func TestConvertStyledParagraph(t *testing.T) {
	blocks, err := Convert(`<p>plain <b>bold</b> <span style="color: #ff0000">red</span></p>`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, Paragraph, b.Kind)
	assert.Equal(t, "plain bold red", b.Text())
	require.Len(t, b.Runs, 4)
	assert.True(t, b.Runs[1].Style.Bold)
	assert.False(t, b.Runs[0].Style.Bold)
	assert.Equal(t, "#ff0000", b.Runs[3].Style.Color)
}

func TestConvertLineBreaks(t *testing.T) {
	blocks, err := Convert(`<p>a<br>b<br/>c</p>`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a\nb\nc", blocks[0].Text())
}

func TestConvertSkipsBlankText(t *testing.T) {
	blocks, err := Convert("<p>a</p>\n   <p>b</p>\n")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].Text())
	assert.Equal(t, "b", blocks[1].Text())
}

func TestConvertHeadingsAndLists(t *testing.T) {
	blocks, err := Convert(`<h2>Title</h2><ol><li>one</li><li>two</li></ol><ul><li>x</li></ul>`)
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	assert.Equal(t, Heading, blocks[0].Kind)
	assert.Equal(t, 2, blocks[0].Level)
	assert.Equal(t, richtext.Style{Bold: true, FontSize: 18}, blocks[0].Runs[0].Style)

	assert.Equal(t, "1.", blocks[1].Marker)
	assert.Equal(t, "2.", blocks[2].Marker)
	assert.Equal(t, "•", blocks[3].Marker)
	assert.Equal(t, 1, blocks[3].Level)
}

func TestConvertTable(t *testing.T) {
	blocks, err := Convert(`<table style="border-collapse: collapse; width: 50%" border="2"><tr><th>h</th><td>x</td></tr><tr><td>a</td><td><i>b</i></td></tr></table>`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	tbl := blocks[0]
	assert.Equal(t, Table, tbl.Kind)
	assert.Equal(t, "50%", tbl.Width)
	assert.Equal(t, 2, tbl.Border)
	assert.Equal(t, 2, tbl.Cols())
	require.Len(t, tbl.Rows, 2)
	assert.True(t, tbl.Rows[0][0].Header)
	assert.Equal(t, "h", tbl.Rows[0][0].Text())
	assert.Equal(t, "b", tbl.Rows[1][1].Text())
	assert.True(t, tbl.Rows[1][1].Runs[0].Style.Italic)
}

func TestConvertDocumentMarkup(t *testing.T) {
	d := richtext.NewDocument()
	d.InsertText(0, "hello")
	require.NoError(t, d.InsertTable(5, richtext.TableSpec{Rows: 2, Cols: 3, Border: 1, Width: "400px"}))
	markup, err := d.Markup()
	require.NoError(t, err)

	blocks, err := Convert(Sanitize(markup))
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "hello", blocks[0].Text())
	assert.Equal(t, Table, blocks[1].Kind)
	assert.Equal(t, "400px", blocks[1].Width)
	assert.Len(t, blocks[1].Rows, 2)
	assert.Equal(t, 3, blocks[1].Cols())
}

func TestConvertRejects(t *testing.T) {
	cases := map[string]string{
		"unterminated":  `<p>unterminated <b>bold`,
		"misnested":     `<p><b>x</p></b>`,
		"stray close":   `</p>`,
		"script":        `<p>a</p><script>alert(1)</script>`,
		"form":          `<form><input></form>`,
		"nested table":  `<table><tr><td><table></table></td></tr></table>`,
		"cell no table": `<td>x</td>`,
		"nested cell":   `<table><tr><td><td>x</td></td></tr></table>`,
		"row in cell":   `<table><tr><td><tr></tr></td></tr></table>`,
	}
	for name, markup := range cases {
		t.Run(name, func(t *testing.T) {
			blocks, err := Convert(markup)
			assert.Nil(t, blocks)
			var cerr *ConversionError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.NotEmpty(t, cerr.Reason)
		})
	}
}
