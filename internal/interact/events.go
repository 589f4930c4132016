package interact

import "netsketch/internal/scene"

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonOther
)

// Event is one input delivered to Controller.Handle. Pointer positions are in
// screen coordinates relative to the canvas origin.
type Event interface {
	isEvent()
}

// ToggleLineTool flips the Draw Line tool.
type ToggleLineTool struct{}

type PointerDown struct {
	Pos    scene.Point
	Button Button
}

type PointerMove struct {
	Pos scene.Point
}

type PointerUp struct {
	Pos    scene.Point
	Button Button
}

func (ToggleLineTool) isEvent() {}
func (PointerDown) isEvent()    {}
func (PointerMove) isEvent()    {}
func (PointerUp) isEvent()      {}
