// Package scene holds the diagram model: icons, connecting lines and the zoom
// factor that maps canonical (unscaled) coordinates to screen coordinates.
//
// Positions are always stored unscaled. Screen geometry is derived from the
// canonical values and the current scale on every zoom change, so zooming in
// and back out never accumulates rounding drift.
package scene

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

const (
	// IconSize is the nominal edge length of a placed icon in unscaled units.
	IconSize = 48.0

	DefaultScale = 1.0
	MinScale     = 0.25
	MaxScale     = 4.0
	ZoomStep     = 1.25
)

// ValidationError reports a rejected input value. The operation that returned
// it has left the scene unchanged.
type ValidationError struct {
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

type Size struct {
	W, H float64
}

type Rect struct {
	Min  Point
	Size Size
}

func (r Rect) Max() Point { return Point{r.Min.X + r.Size.W, r.Min.Y + r.Size.H} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Min.X+r.Size.W &&
		p.Y >= r.Min.Y && p.Y < r.Min.Y+r.Size.H
}

// Line is a committed connector between two canvas points in unscaled
// coordinates. Lines are values and are never edited in place.
type Line struct {
	X1, Y1, X2, Y2 int
}

type Icon struct {
	ID       uuid.UUID
	Kind     string
	Position Point
	Size     Size

	screen Rect
}

// Screen returns the icon's rectangle in screen coordinates at the scene's
// current scale.
func (i *Icon) Screen() Rect { return i.screen }

func (i *Icon) rescale(scale float64) {
	i.screen = Rect{
		Min:  i.Position.Mul(scale),
		Size: Size{i.Size.W * scale, i.Size.H * scale},
	}
}

// Scene is not safe for concurrent use. One goroutine owns it; exports work
// from a Snapshot.
type Scene struct {
	scale float64
	icons []*Icon
	lines []Line
}

func New() *Scene {
	return &Scene{
		scale: DefaultScale,
		icons: make([]*Icon, 0),
		lines: make([]Line, 0),
	}
}

func (s *Scene) Scale() float64 { return s.scale }

// AddIcon appends a new icon of the given catalog kind at an unscaled position.
// The newest icon is drawn on top and wins hit-tests.
func (s *Scene) AddIcon(kind string, position Point) *Icon {
	icon := &Icon{
		ID:       uuid.New(),
		Kind:     kind,
		Position: position,
		Size:     Size{IconSize, IconSize},
	}
	icon.rescale(s.scale)
	s.icons = append(s.icons, icon)
	return icon
}

func (s *Scene) RemoveIcon(id uuid.UUID) {
	for i, icon := range s.icons {
		if icon.ID == id {
			s.icons = append(s.icons[:i], s.icons[i+1:]...)
			return
		}
	}
}

// MoveIcon overwrites the unscaled position of an icon. Positions outside the
// visible canvas are allowed.
func (s *Scene) MoveIcon(id uuid.UUID, position Point) {
	if !position.finite() {
		return
	}
	if icon := s.Icon(id); icon != nil {
		icon.Position = position
		icon.rescale(s.scale)
	}
}

// MoveIconOnScreen places an icon so that its screen origin lands on p.
func (s *Scene) MoveIconOnScreen(id uuid.UUID, p Point) {
	s.MoveIcon(id, s.ScreenToCanvas(p))
}

func (s *Scene) Icon(id uuid.UUID) *Icon {
	for _, icon := range s.icons {
		if icon.ID == id {
			return icon
		}
	}
	return nil
}

// Icons returns the icons in z-order, bottom first.
func (s *Scene) Icons() []*Icon {
	out := make([]*Icon, len(s.icons))
	copy(out, s.icons)
	return out
}

// IconAt returns the topmost icon whose screen rectangle contains p.
func (s *Scene) IconAt(p Point) *Icon {
	for i := len(s.icons) - 1; i >= 0; i-- {
		if s.icons[i].screen.Contains(p) {
			return s.icons[i]
		}
	}
	return nil
}

func (s *Scene) AddLine(line Line) {
	s.lines = append(s.lines, line)
}

func (s *Scene) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Scene) ClearLines() {
	s.lines = s.lines[:0]
}

func (s *Scene) ClearAll() {
	s.icons = s.icons[:0]
	s.lines = s.lines[:0]
}

// SetScale changes the zoom factor. Icon screen rectangles are recomputed from
// their canonical geometry, never from their previous screen values.
func (s *Scene) SetScale(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return &ValidationError{Field: "scale", Value: factor}
	}
	s.scale = factor
	for _, icon := range s.icons {
		icon.rescale(factor)
	}
	return nil
}

func (s *Scene) ZoomIn() {
	s.SetScale(math.Min(s.scale*ZoomStep, MaxScale))
}

func (s *Scene) ZoomOut() {
	s.SetScale(math.Max(s.scale/ZoomStep, MinScale))
}

func (s *Scene) ZoomReset() {
	s.SetScale(DefaultScale)
}

func (s *Scene) ScreenToCanvas(p Point) Point { return p.Mul(1 / s.scale) }
func (s *Scene) CanvasToScreen(p Point) Point { return p.Mul(s.scale) }

// Bounds returns the unscaled bounding box of every icon and line. ok is false
// for an empty scene.
func (s *Scene) Bounds() (r Rect, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
		ok = true
	}
	for _, icon := range s.icons {
		grow(icon.Position.X, icon.Position.Y)
		grow(icon.Position.X+icon.Size.W, icon.Position.Y+icon.Size.H)
	}
	for _, l := range s.lines {
		grow(float64(l.X1), float64(l.Y1))
		grow(float64(l.X2), float64(l.Y2))
	}
	if !ok {
		return Rect{}, false
	}
	return Rect{Min: Point{minX, minY}, Size: Size{maxX - minX, maxY - minY}}, true
}

// Empty reports whether the scene has neither icons nor lines.
func (s *Scene) Empty() bool {
	return len(s.icons) == 0 && len(s.lines) == 0
}

// Snapshot returns a deep copy that can be handed to another goroutine.
func (s *Scene) Snapshot() *Scene {
	out := &Scene{
		scale: s.scale,
		icons: make([]*Icon, len(s.icons)),
		lines: s.Lines(),
	}
	for i, icon := range s.icons {
		c := *icon
		out.icons[i] = &c
	}
	return out
}
