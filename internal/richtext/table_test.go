package richtext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWidth(t *testing.T) {
	valid := []string{"300px", "1px", "50%", "100%", "1024px"}
	for _, w := range valid {
		got, err := ValidateWidth(w)
		assert.NoError(t, err, w)
		assert.Equal(t, w, got)
	}

	invalid := []string{"", "px", "50", "50 px", "abc", "-5px", "5em", "50%%", "1.5px"}
	for _, w := range invalid {
		got, err := ValidateWidth(w)
		assert.Equal(t, DefaultTableWidth, got, w)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), w)
		assert.Equal(t, w, verr.Value)
	}
}

func TestInsertTable(t *testing.T) {
	d := NewDocument()
	d.InsertText(0, "before")
	require.NoError(t, d.InsertTable(6, TableSpec{Rows: 2, Cols: 4, Border: 1, Width: "500px"}))

	tables := d.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, TableInfo{Rows: 2, Cols: 4, Width: "500px"}, tables[0])

	body, err := d.BodyMarkup()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "before<br/><table"), body)
	assert.Contains(t, body, "border-collapse: collapse;")
	assert.Contains(t, body, `<td style="padding: 5px; border: 1px solid #ddd;">`)
}

func TestInsertTableInvalidWidthWarns(t *testing.T) {
	d := NewDocument()
	err := d.InsertTable(0, TableSpec{Rows: 1, Cols: 1, Border: 1, Width: "wide"})
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.Equal(t, "300px", d.Tables()[0].Width)
}

func TestTableSpecClampsCounts(t *testing.T) {
	spec, err := TableSpec{Rows: 0, Cols: 99, Border: 20, Width: "10%"}.Validate()
	assert.True(t, IsWarning(err))
	assert.Equal(t, TableSpec{Rows: DefaultRows, Cols: DefaultCols, Border: DefaultBorder, Width: "10%"}, spec)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestResizeTable(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.InsertTable(0, TableSpec{Rows: 1, Cols: 2, Border: 1, Width: "300px"}))

	require.NoError(t, d.ResizeTable(0, "80%"))
	assert.Equal(t, "80%", d.Tables()[0].Width)

	body, _ := d.BodyMarkup()
	assert.Contains(t, body, "height: 200px;")

	err := d.ResizeTable(0, "huge")
	assert.True(t, IsWarning(err))
	assert.Equal(t, "300px", d.Tables()[0].Width)

	assert.Error(t, d.ResizeTable(3, "10px"))
}

func TestResizeTableWithoutWidthDeclaration(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetMarkup(`<table style="border-collapse: collapse"><tr><td>a</td></tr></table>`))
	require.NoError(t, d.ResizeTable(0, "120px"))
	assert.Equal(t, "120px", d.Tables()[0].Width)
}

func TestTableAt(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.SetMarkup(`<p>intro</p><table><tr><td>a</td><td>b</td></tr></table>`))
	assert.Equal(t, "intro\na\tb\n", d.PlainText())

	idx, ok := d.TableAt(7)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = d.TableAt(1)
	assert.False(t, ok)
}
