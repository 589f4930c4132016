package scene

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRectNear(t *testing.T, want, got Rect) {
	t.Helper()
	assert.InDelta(t, want.Min.X, got.Min.X, 1e-9)
	assert.InDelta(t, want.Min.Y, got.Min.Y, 1e-9)
	assert.InDelta(t, want.Size.W, got.Size.W, 1e-9)
	assert.InDelta(t, want.Size.H, got.Size.H, 1e-9)
}

func TestAddIconAppendsInOrder(t *testing.T) {
	s := New()
	a := s.AddIcon("Router", Point{10, 10})
	b := s.AddIcon("Server", Point{10, 10})

	icons := s.Icons()
	require.Len(t, icons, 2)
	assert.Equal(t, a.ID, icons[0].ID)
	assert.Equal(t, b.ID, icons[1].ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, Size{IconSize, IconSize}, a.Size)
}

func TestRemoveIconByIdentity(t *testing.T) {
	s := New()
	a := s.AddIcon("Router", Point{5, 5})
	b := s.AddIcon("Router", Point{5, 5})

	s.RemoveIcon(a.ID)
	icons := s.Icons()
	require.Len(t, icons, 1)
	assert.Equal(t, b.ID, icons[0].ID)

	s.RemoveIcon(uuid.New())
	assert.Len(t, s.Icons(), 1)
}

func TestMoveIconAllowsOffCanvas(t *testing.T) {
	s := New()
	a := s.AddIcon("Cloud", Point{10, 10})
	s.MoveIcon(a.ID, Point{-200, 5000})
	assert.Equal(t, Point{-200, 5000}, s.Icon(a.ID).Position)

	s.MoveIcon(a.ID, Point{math.NaN(), 1})
	assert.Equal(t, Point{-200, 5000}, s.Icon(a.ID).Position)
}

func TestIconAtPrefersTopmost(t *testing.T) {
	s := New()
	s.AddIcon("Router", Point{0, 0})
	top := s.AddIcon("Server", Point{20, 20})

	hit := s.IconAt(Point{30, 30})
	require.NotNil(t, hit)
	assert.Equal(t, top.ID, hit.ID)
	assert.Nil(t, s.IconAt(Point{500, 500}))
}

func TestSetScaleRoundTrip(t *testing.T) {
	scales := [][2]float64{{2, 0.5}, {1.25, 3}, {0.3, 0.7}, {1, 4}}
	for _, sc := range scales {
		s1, s2 := sc[0], sc[1]

		ref := New()
		refIcon := ref.AddIcon("Router", Point{13, 27})
		require.NoError(t, ref.SetScale(s1))

		s := New()
		icon := s.AddIcon("Router", Point{13, 27})
		require.NoError(t, s.SetScale(s1))
		require.NoError(t, s.SetScale(s2))
		require.NoError(t, s.SetScale(s1))

		assertRectNear(t, ref.Icon(refIcon.ID).Screen(), s.Icon(icon.ID).Screen())
		assert.Equal(t, Point{13, 27}, s.Icon(icon.ID).Position)
	}
}

func TestZoomInThenOutRestoresGeometry(t *testing.T) {
	s := New()
	icon := s.AddIcon("Router", Point{10, 10})
	before := icon.Screen()
	for i := 0; i < 5; i++ {
		s.ZoomIn()
	}
	for i := 0; i < 5; i++ {
		s.ZoomOut()
	}
	assertRectNear(t, before, s.Icon(icon.ID).Screen())
}

func TestSetScaleRejectsInvalid(t *testing.T) {
	s := New()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := s.SetScale(f)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	assert.Equal(t, DefaultScale, s.Scale())
}

func TestScreenGeometryFollowsScale(t *testing.T) {
	s := New()
	icon := s.AddIcon("Router", Point{10, 20})
	require.NoError(t, s.SetScale(2))
	assert.Equal(t, Rect{Min: Point{20, 40}, Size: Size{96, 96}}, icon.Screen())

	s.MoveIconOnScreen(icon.ID, Point{100, 100})
	assert.Equal(t, Point{50, 50}, icon.Position)
}

func TestClearAll(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		s.AddIcon("Router", Point{float64(i * 10), 0})
	}
	s.AddLine(Line{0, 0, 10, 10})
	s.AddLine(Line{5, 5, 20, 20})

	s.ClearAll()
	assert.Len(t, s.Icons(), 0)
	assert.Len(t, s.Lines(), 0)
	assert.True(t, s.Empty())
}

func TestClearLinesKeepsIcons(t *testing.T) {
	s := New()
	s.AddIcon("Router", Point{})
	s.AddLine(Line{0, 0, 1, 1})
	s.ClearLines()
	assert.Len(t, s.Lines(), 0)
	assert.Len(t, s.Icons(), 1)
}

func TestBounds(t *testing.T) {
	s := New()
	_, ok := s.Bounds()
	assert.False(t, ok)

	s.AddIcon("Router", Point{10, 10})
	s.AddLine(Line{-5, 0, 100, 30})
	r, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, Point{-5, 0}, r.Min)
	assert.Equal(t, Point{100, 58}, r.Max())
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New()
	icon := s.AddIcon("Router", Point{1, 1})
	snap := s.Snapshot()
	s.MoveIcon(icon.ID, Point{99, 99})
	s.AddLine(Line{})
	assert.Equal(t, Point{1, 1}, snap.Icon(icon.ID).Position)
	assert.Empty(t, snap.Lines())
}

func TestCatalogPlaceholderAndNormalize(t *testing.T) {
	c := NewCatalog()
	big := image.NewRGBA(image.Rect(0, 0, 96, 96))
	c.Add("Router", big)

	assert.True(t, c.Has("Router"))
	assert.Equal(t, image.Rect(0, 0, 48, 48), c.Bitmap("Router").Bounds())
	assert.Equal(t, image.Rect(0, 0, 48, 48), c.Bitmap("missing").Bounds())
	assert.Equal(t, []string{"Router"}, c.Kinds())
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(1, 1, color.Black)
	f, err := os.Create(filepath.Join(dir, "Server.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	c, err := LoadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Server"}, c.Kinds())

	_, err = LoadCatalog(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestBuiltinCatalog(t *testing.T) {
	c := BuiltinCatalog()
	assert.Equal(t, BuiltinKinds, c.Kinds())
	for _, kind := range BuiltinKinds {
		b := c.Bitmap(kind).Bounds()
		assert.Equal(t, IconSize, float64(b.Dx()), kind)
		assert.Equal(t, IconSize, float64(b.Dy()), kind)
	}
}
