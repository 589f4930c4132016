package main

import (
	"netsketch/internal/interact"
	"netsketch/internal/render"
	"netsketch/internal/richtext"
	"netsketch/internal/scene"
)

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
	} else {
		m.handleCursorMove(key, speed)
	}
	if m.pressed {
		m.editor.Handle(interact.PointerMove{Pos: m.cursorPoint()})
	}
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
	m.panX = max(m.panX, 0)
	m.panY = max(m.panY, 0)
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) canvasHeight() int {
	return max(m.height-notesHeight-1, 1)
}

func (m *model) ensureCursorInBounds() {
	m.cursorX = min(max(m.cursorX, 0), max(m.width-1, 0))
	m.cursorY = min(max(m.cursorY, 0), m.canvasHeight()-1)
}

// cursorPoint is the screen pixel under the cell cursor.
func (m *model) cursorPoint() scene.Point {
	return render.CellToScreen(m.cursorX, m.cursorY, m.panX, m.panY)
}

func (m *model) onCanvas(col, row int) bool {
	return col >= 0 && row >= 0 && col < m.width && row < m.canvasHeight()
}

// moveCaret moves the notes caret by delta runes. With extend the selection
// grows or shrinks at the end away from the anchor.
func (m *model) moveCaret(delta int, extend bool) {
	notes := m.editor.Notes()
	sel := notes.Selection()
	if extend {
		if sel.Empty() || (sel.Start != m.anchor && sel.End != m.anchor) {
			m.anchor = sel.Start
		}
		head := sel.End
		if sel.End == m.anchor {
			head = sel.Start
		}
		notes.SetSelection(richtext.Range{Start: m.anchor, End: max(head+delta, 0)})
		return
	}
	caret := sel.End + delta
	switch {
	case !sel.Empty() && delta < 0:
		caret = sel.Start
	case !sel.Empty():
		caret = sel.End
	}
	notes.SetSelection(richtext.Range{Start: caret, End: caret})
}
