package scene

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// BuiltinKinds are the icons available when no icon directory is configured.
var BuiltinKinds = []string{
	"Router", "Server", "Workstation", "firewall", "cloud", "database", "laptop", "Building", "User",
}

var builtinColors = map[string]color.RGBA{
	"Router":      {0x1f, 0x6f, 0xb5, 0xff},
	"Server":      {0x55, 0x55, 0x66, 0xff},
	"Workstation": {0x2e, 0x8b, 0x57, 0xff},
	"firewall":    {0xc0, 0x39, 0x2b, 0xff},
	"cloud":       {0x5d, 0xad, 0xe2, 0xff},
	"database":    {0x8e, 0x44, 0xad, 0xff},
	"laptop":      {0x34, 0x49, 0x5e, 0xff},
	"Building":    {0x9a, 0x7d, 0x0a, 0xff},
	"User":        {0xe6, 0x7e, 0x22, 0xff},
}

// BuiltinCatalog returns a catalog holding a simple drawn bitmap for every
// builtin kind.
func BuiltinCatalog() *Catalog {
	c := NewCatalog()
	for _, kind := range BuiltinKinds {
		c.Add(kind, drawBuiltin(kind))
	}
	return c
}

func drawBuiltin(kind string) image.Image {
	const s = IconSize
	dc := gg.NewContext(s, s)
	dc.SetColor(builtinColors[kind])
	dc.SetLineWidth(2)

	switch kind {
	case "Router":
		dc.DrawEllipse(s/2, s/2, s/2-4, s/4)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawLine(s/2-10, s/2, s/2+10, s/2)
		dc.DrawLine(s/2, s/2-6, s/2, s/2+6)
		dc.Stroke()
	case "Server", "database":
		for i := 0; i < 3; i++ {
			y := 6 + float64(i)*13
			if kind == "database" {
				dc.DrawEllipse(s/2, y+6, s/2-6, 6)
			} else {
				dc.DrawRoundedRectangle(8, y, s-16, 11, 2)
			}
			dc.Fill()
		}
	case "Workstation", "laptop":
		dc.DrawRoundedRectangle(6, 6, s-12, 26, 3)
		dc.Fill()
		if kind == "laptop" {
			dc.DrawRectangle(2, 34, s-4, 6)
		} else {
			dc.DrawRectangle(s/2-3, 32, 6, 6)
			dc.DrawRectangle(12, 38, s-24, 4)
		}
		dc.Fill()
	case "firewall":
		for row := 0; row < 4; row++ {
			for col := 0; col < 3; col++ {
				x := 4 + float64(col)*14
				if row%2 == 1 {
					x += 7
				}
				dc.DrawRectangle(x, 6+float64(row)*9, 12, 7)
			}
		}
		dc.Fill()
	case "cloud":
		dc.DrawCircle(16, 28, 10)
		dc.DrawCircle(28, 20, 13)
		dc.DrawCircle(36, 30, 9)
		dc.DrawRectangle(16, 28, 20, 11)
		dc.Fill()
	case "Building":
		dc.DrawRectangle(10, 6, s-20, s-10)
		dc.Fill()
		dc.SetColor(color.White)
		for row := 0; row < 4; row++ {
			for col := 0; col < 3; col++ {
				dc.DrawRectangle(14+float64(col)*8, 10+float64(row)*8, 4, 4)
			}
		}
		dc.Fill()
	case "User":
		dc.DrawCircle(s/2, 14, 9)
		dc.Fill()
		dc.DrawEllipse(s/2, 40, 16, 12)
		dc.Fill()
	}
	return dc.Image()
}
