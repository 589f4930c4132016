// Package interact turns pointer and tool events into scene mutations.
//
// Every scene change made by the editor flows through Controller.Handle. The
// controller is a small state machine:
//
//	Idle <-> ToolLineArmed         (ToggleLineTool)
//	ToolLineArmed -> LineGesture   (left press on empty canvas)
//	LineGesture -> ToolLineArmed   (release commits the line)
//	Idle|ToolLineArmed -> IconGesture (left press on an icon)
//	IconGesture -> Idle|ToolLineArmed (release)
//
// At most one gesture is active at a time. Events that do not fit the current
// state are dropped.
package interact

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"netsketch/internal/scene"
)

type State int

const (
	Idle State = iota
	ToolLineArmed
	LineGesture
	IconGesture
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ToolLineArmed:
		return "line tool"
	case LineGesture:
		return "drawing line"
	case IconGesture:
		return "dragging icon"
	default:
		return "unknown"
	}
}

type Tool int

const (
	ToolNone Tool = iota
	ToolLineDraw
)

// StateError values describe pointer events that arrived in a state that
// cannot use them. They come from ordinary pointer noise and are never shown
// to the user.
var (
	ErrNoGesture     = errors.New("no gesture in progress")
	ErrGestureActive = errors.New("a gesture is already in progress")
	ErrNothingHit    = errors.New("press did not land on anything")
)

// DefaultDrop is where icons picked from the palette are placed, in unscaled
// coordinates.
var DefaultDrop = scene.Point{X: 10, Y: 10}

// ContextMenu is invoked for a secondary-button press on an icon.
type ContextMenu func(s *scene.Scene, icon *scene.Icon)

// DeleteIcon is the default context action.
func DeleteIcon(s *scene.Scene, icon *scene.Icon) {
	s.RemoveIcon(icon.ID)
}

type iconDrag struct {
	id     uuid.UUID
	anchor scene.Point
}

type Controller struct {
	scene   *scene.Scene
	tool    Tool
	state   State
	start   scene.Point
	preview *scene.Line
	dragged *iconDrag
	menu    ContextMenu
	log     logrus.FieldLogger
}

type Option func(*Controller)

func WithContextMenu(menu ContextMenu) Option {
	return func(c *Controller) { c.menu = menu }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

func New(s *scene.Scene, opts ...Option) *Controller {
	c := &Controller{
		scene: s,
		state: Idle,
		menu:  DeleteIcon,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Scene() *scene.Scene { return c.scene }
func (c *Controller) State() State        { return c.state }
func (c *Controller) Tool() Tool          { return c.tool }

// Preview returns the uncommitted line of an in-flight line gesture.
func (c *Controller) Preview() *scene.Line {
	if c.preview == nil {
		return nil
	}
	l := *c.preview
	return &l
}

// Dragging returns the id of the icon being dragged.
func (c *Controller) Dragging() (uuid.UUID, bool) {
	if c.dragged == nil {
		return uuid.Nil, false
	}
	return c.dragged.id, true
}

// Handle applies one event. A non-nil error is a StateError: the event was
// ignored and the controller is unchanged.
func (c *Controller) Handle(ev Event) error {
	var err error
	switch ev := ev.(type) {
	case ToggleLineTool:
		c.toggleLineTool()
	case PointerDown:
		err = c.pointerDown(ev)
	case PointerMove:
		err = c.pointerMove(ev)
	case PointerUp:
		err = c.pointerUp(ev)
	}
	if err != nil {
		c.log.WithField("state", c.state).Debugf("ignored %T: %v", ev, err)
	}
	return err
}

// PlaceIcon adds a catalog icon at the default drop point.
func (c *Controller) PlaceIcon(kind string) *scene.Icon {
	return c.scene.AddIcon(kind, DefaultDrop)
}

// Reset abandons any gesture in progress without committing it. The tool
// stays as it was.
func (c *Controller) Reset() {
	c.cancelGesture()
	c.state = c.restingState()
}

func (c *Controller) toggleLineTool() {
	if c.tool == ToolLineDraw {
		c.tool = ToolNone
		c.cancelGesture()
		c.state = Idle
		return
	}
	c.tool = ToolLineDraw
	if c.state == Idle {
		c.state = ToolLineArmed
	}
}

func (c *Controller) cancelGesture() {
	c.preview = nil
	c.dragged = nil
}

func (c *Controller) restingState() State {
	if c.tool == ToolLineDraw {
		return ToolLineArmed
	}
	return Idle
}

func (c *Controller) inGesture() bool {
	return c.state == LineGesture || c.state == IconGesture
}

func (c *Controller) pointerDown(ev PointerDown) error {
	if c.inGesture() {
		return ErrGestureActive
	}
	if icon := c.scene.IconAt(ev.Pos); icon != nil {
		if ev.Button == ButtonSecondary {
			c.menu(c.scene, icon)
			return nil
		}
		if ev.Button == ButtonPrimary {
			c.dragged = &iconDrag{id: icon.ID, anchor: ev.Pos.Sub(icon.Screen().Min)}
			c.state = IconGesture
			return nil
		}
		return ErrNothingHit
	}
	if c.state == ToolLineArmed && ev.Button == ButtonPrimary {
		c.start = c.scene.ScreenToCanvas(ev.Pos)
		line := lineBetween(c.start, c.start)
		c.preview = &line
		c.state = LineGesture
		return nil
	}
	return ErrNothingHit
}

func (c *Controller) pointerMove(ev PointerMove) error {
	switch c.state {
	case LineGesture:
		line := lineBetween(c.start, c.scene.ScreenToCanvas(ev.Pos))
		c.preview = &line
	case IconGesture:
		c.scene.MoveIconOnScreen(c.dragged.id, ev.Pos.Sub(c.dragged.anchor))
	default:
		return ErrNoGesture
	}
	return nil
}

func (c *Controller) pointerUp(ev PointerUp) error {
	switch c.state {
	case LineGesture:
		if ev.Button != ButtonPrimary {
			return ErrNoGesture
		}
		c.scene.AddLine(lineBetween(c.start, c.scene.ScreenToCanvas(ev.Pos)))
		c.preview = nil
	case IconGesture:
		if ev.Button != ButtonPrimary {
			return ErrNoGesture
		}
		c.dragged = nil
	default:
		return ErrNoGesture
	}
	c.state = c.restingState()
	return nil
}

func lineBetween(a, b scene.Point) scene.Line {
	return scene.Line{
		X1: int(math.Round(a.X)), Y1: int(math.Round(a.Y)),
		X2: int(math.Round(b.X)), Y2: int(math.Round(b.Y)),
	}
}
