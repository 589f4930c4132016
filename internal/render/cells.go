package render

import (
	"math"

	"github.com/google/uuid"

	"netsketch/internal/scene"
)

const (
	// CellWidth and CellHeight are the pixels covered by one terminal cell.
	CellWidth  = 8.0
	CellHeight = 16.0
)

type CellOptions struct {
	Width, Height int
	PanX, PanY    int
	Preview       *scene.Line
	Selected      uuid.UUID
}

// CellToScreen maps a terminal cell to the screen pixel at its centre.
func CellToScreen(col, row, panX, panY int) scene.Point {
	return scene.Point{
		X: (float64(col+panX) + 0.5) * CellWidth,
		Y: (float64(row+panY) + 0.5) * CellHeight,
	}
}

// Cells renders s as a grid of runes for a terminal preview. Lines go first so
// icon boxes cover them.
func Cells(s *scene.Scene, opts CellOptions) []string {
	width, height := opts.Width, opts.Height
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	lines := s.Lines()
	if opts.Preview != nil {
		lines = append(lines, *opts.Preview)
	}
	for _, l := range lines {
		drawLineCells(grid, s.Scale(), l, opts.PanX, opts.PanY)
	}
	for _, icon := range s.Icons() {
		drawIconCells(grid, icon, icon.ID == opts.Selected, opts.PanX, opts.PanY)
	}

	out := make([]string, height)
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

func toCell(x, y, scale float64, panX, panY int) (int, int) {
	return int(math.Floor(x*scale/CellWidth)) - panX, int(math.Floor(y*scale/CellHeight)) - panY
}

func set(grid [][]rune, x, y int, r rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = r
	}
}

func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '-'
	case dx == 0:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func drawLineCells(grid [][]rune, scale float64, l scene.Line, panX, panY int) {
	x0, y0 := toCell(float64(l.X1), float64(l.Y1), scale, panX, panY)
	x1, y1 := toCell(float64(l.X2), float64(l.Y2), scale, panX, panY)
	ch := lineRune(x1-x0, y1-y0)

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		set(grid, x0, y0, ch)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	set(grid, x1, y1, '*')
}

func drawIconCells(grid [][]rune, icon *scene.Icon, selected bool, panX, panY int) {
	r := icon.Screen()
	left, top := int(math.Floor(r.Min.X/CellWidth))-panX, int(math.Floor(r.Min.Y/CellHeight))-panY
	w := max(int(math.Round(r.Size.W/CellWidth)), 3)
	h := max(int(math.Round(r.Size.H/CellHeight)), 3)

	corner, horizontal, vertical := '+', '-', '|'
	if selected {
		corner, horizontal, vertical = '#', '#', '#'
	}
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			switch {
			case (y == top || y == top+h-1) && (x == left || x == left+w-1):
				set(grid, x, y, corner)
			case y == top || y == top+h-1:
				set(grid, x, y, horizontal)
			case x == left || x == left+w-1:
				set(grid, x, y, vertical)
			default:
				set(grid, x, y, ' ')
			}
		}
	}

	label := []rune(icon.Kind)
	if len(label) > w-2 {
		label = label[:w-2]
	}
	for i, ch := range label {
		set(grid, left+1+i, top+h/2, ch)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
