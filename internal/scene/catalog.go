package scene

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

// Catalog maps an icon kind to its pre-decoded bitmap. Every bitmap is
// normalized to IconSize x IconSize when it enters the catalog.
type Catalog struct {
	kinds       []string
	bitmaps     map[string]image.Image
	placeholder image.Image
}

func NewCatalog() *Catalog {
	return &Catalog{
		bitmaps:     make(map[string]image.Image),
		placeholder: Placeholder(),
	}
}

// Add registers a bitmap under kind, replacing any previous entry.
func (c *Catalog) Add(kind string, img image.Image) {
	if _, ok := c.bitmaps[kind]; !ok {
		c.kinds = append(c.kinds, kind)
	}
	c.bitmaps[kind] = normalize(img)
}

// Kinds returns the registered kinds in registration order.
func (c *Catalog) Kinds() []string {
	out := make([]string, len(c.kinds))
	copy(out, c.kinds)
	return out
}

func (c *Catalog) Has(kind string) bool {
	_, ok := c.bitmaps[kind]
	return ok
}

// Bitmap returns the bitmap for kind, or the placeholder when kind is unknown.
func (c *Catalog) Bitmap(kind string) image.Image {
	if img, ok := c.bitmaps[kind]; ok {
		return img
	}
	return c.placeholder
}

// LoadCatalog reads every image file in dir. The kind is the file name without
// its extension. Files that are not images, or fail to decode, are registered
// with the placeholder bitmap so the palette still offers them.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read icon directory: %w", err)
	}
	c := NewCatalog()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		head, err := readHead(path)
		if err != nil || !filetype.IsImage(head) {
			continue
		}
		kind := strings.TrimSuffix(name, filepath.Ext(name))
		img, err := decodeFile(path)
		if err != nil {
			c.Add(kind, c.placeholder)
			continue
		}
		c.Add(kind, img)
	}
	return c, nil
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head := make([]byte, 261)
	n, _ := f.Read(head)
	return head[:n], nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func normalize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == IconSize && b.Dy() == IconSize && b.Min == (image.Point{}) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Placeholder draws the bitmap used for kinds the catalog cannot resolve: a
// grey tile with a red cross.
func Placeholder() image.Image {
	dc := gg.NewContext(IconSize, IconSize)
	dc.SetColor(color.RGBA{0xee, 0xee, 0xee, 0xff})
	dc.DrawRectangle(4, 4, IconSize-8, IconSize-8)
	dc.Fill()
	dc.SetColor(color.RGBA{0xdd, 0x33, 0x33, 0xff})
	dc.SetLineWidth(2)
	dc.DrawLine(8, 8, IconSize-8, IconSize-8)
	dc.DrawLine(IconSize-8, 8, 8, IconSize-8)
	dc.Stroke()
	return dc.Image()
}
