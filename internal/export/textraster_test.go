package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"a", " ", "bc", "\n", "d", " ", " ", " ", " ", "e"}, tokenize("a bc\nd\te"))
}

func TestTableWidth(t *testing.T) {
	assert.Equal(t, 300.0, tableWidth("300px", 500))
	assert.Equal(t, 500.0, tableWidth("900px", 500))
	assert.Equal(t, 250.0, tableWidth("50%", 500))
	assert.Equal(t, 500.0, tableWidth("wide", 500))
}

func TestParseColor(t *testing.T) {
	c := parseColor("#10ff20")
	assert.Equal(t, [3]uint8{0x10, 0xff, 0x20}, [3]uint8{c.R, c.G, c.B})
	assert.Equal(t, uint8(0), parseColor("red").R)
}

func TestRasterTextEmpty(t *testing.T) {
	img, err := rasterText(nil, 800)
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.Nil(t, plainBlocks(" \n "))
}

func TestRasterTextWrapsToWidth(t *testing.T) {
	short, err := rasterText(plainBlocks("one line"), 400)
	require.NoError(t, err)

	long := "word "
	for i := 0; i < 6; i++ {
		long += long
	}
	wrapped, err := rasterText(plainBlocks(long), 400)
	require.NoError(t, err)

	assert.Equal(t, 400, wrapped.Bounds().Dx())
	assert.Greater(t, wrapped.Bounds().Dy(), 2*short.Bounds().Dy())
}

func TestRasterTextTableGrowsWithRows(t *testing.T) {
	one, err := Convert(`<table border="1"><tr><td>a</td></tr></table>`)
	require.NoError(t, err)
	three, err := Convert(`<table border="1"><tr><td>a</td></tr><tr><td>b</td></tr><tr><td>c</td></tr></table>`)
	require.NoError(t, err)

	small, err := rasterText(one, 400)
	require.NoError(t, err)
	large, err := rasterText(three, 400)
	require.NoError(t, err)
	assert.Greater(t, large.Bounds().Dy(), small.Bounds().Dy())
}
