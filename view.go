package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"netsketch/internal/interact"
	"netsketch/internal/render"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectionStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	width := max(m.width, 1)

	canvas := m.editor.Surface().Cells(render.CellOptions{
		Width:  width,
		Height: m.canvasHeight(),
		PanX:   m.panX,
		PanY:   m.panY,
	})
	if m.mode == ModeCanvas && m.cursorY < len(canvas) {
		line := []rune(canvas[m.cursorY])
		if m.cursorX < len(line) {
			line[m.cursorX] = '█'
			canvas[m.cursorY] = string(line)
		}
	}

	var result strings.Builder
	result.WriteString(strings.Join(canvas, "\n"))
	result.WriteString("\n")
	result.WriteString(strings.Join(m.notesPanel(width), "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine(width))
	return result.String()
}

// notesPanel draws the notes as plain text under a titled rule. The caret and
// selection are shown while the notes have focus, and the view scrolls to
// keep the caret line visible.
func (m model) notesPanel(width int) []string {
	title := titleStyle.Render(" Notes ")
	rule := borderStyle.Render("─") + title + borderStyle.Render(strings.Repeat("─", max(width-lipgloss.Width(title)-1, 0)))

	notes := m.editor.Notes()
	sel := notes.Selection()
	focused := m.mode == ModeNotes
	runes := []rune(notes.PlainText())

	var lines []string
	var line strings.Builder
	caretLine := 0
	for i := 0; i <= len(runes); i++ {
		if focused && sel.Empty() && i == sel.End {
			line.WriteString("█")
			caretLine = len(lines)
		}
		if i == len(runes) {
			break
		}
		r := runes[i]
		switch {
		case r == '\n':
			lines = append(lines, line.String())
			line.Reset()
		case r == '\t':
			line.WriteString("  ")
		case focused && i >= sel.Start && i < sel.End:
			line.WriteString(selectionStyle.Render(string(r)))
			caretLine = len(lines)
		default:
			line.WriteRune(r)
		}
	}
	lines = append(lines, line.String())

	rows := notesHeight - 1
	start := 0
	if caretLine >= rows {
		start = caretLine - rows + 1
	}
	clip := lipgloss.NewStyle().MaxWidth(width)
	panel := []string{rule}
	for i := start; i < start+rows; i++ {
		if i < len(lines) {
			panel = append(panel, clip.Render(lines[i]))
		} else {
			panel = append(panel, "")
		}
	}
	return panel
}

func (m model) statusLine(width int) string {
	var status string
	switch m.mode {
	case ModeInput:
		status = fmt.Sprintf("%s: %s█ | Enter to confirm, Esc to cancel", m.inputPrompt, m.inputText)
	case ModeConfirm:
		status = m.confirmQuestion() + " (y/n)"
	case ModeExporting:
		status = "Exporting... | Esc to stop waiting"
	default:
		tool := ""
		if m.editor.Controller().Tool() == interact.ToolLineDraw {
			tool = " | WIRE"
		}
		pan := ""
		if m.zPanMode {
			pan = " | PAN"
		}
		status = fmt.Sprintf("Mode: %s | Cursor: (%d,%d) | Zoom: %.0f%%%s%s",
			m.modeString(), m.cursorX, m.cursorY, m.editor.Scene().Scale()*100, tool, pan)
		switch {
		case m.errorMessage != "":
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		case m.successMessage != "":
			status += " | " + successStyle.Render(m.successMessage)
		default:
			status += " | " + hintStyle.Render("? for help | q to quit")
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(status)
}

func (m model) confirmQuestion() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit and discard the diagram?"
	case ConfirmClearAll:
		return "Clear all icons and lines?"
	case ConfirmOverwriteFile:
		if m.pendingExport != nil {
			return fmt.Sprintf("Overwrite %s?", m.pendingExport.path)
		}
		return "Overwrite file?"
	default:
		return "Are you sure?"
	}
}

func (m model) modeString() string {
	switch m.mode {
	case ModeCanvas:
		return "CANVAS"
	case ModeNotes:
		return "NOTES"
	case ModeInput:
		return "INPUT"
	case ModeConfirm:
		return "CONFIRM"
	case ModeExporting:
		return "EXPORT"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"netsketch Help",
	"==============",
	"",
	"Canvas:",
	"-------",
	"  h/←/j/↓/k/↑/l/→  Move cursor",
	"  Shift+h/j/k/l    Move cursor 2x faster",
	"  z                Toggle pan mode (movement keys scroll the canvas)",
	"  Space            Press/release at cursor (drag icons, draw wires)",
	"  d                Delete icon under cursor",
	"  w                Toggle the wire tool",
	"  1-9              Place icon from the palette",
	"  +/=  -  0        Zoom in, out, reset",
	"  X                Clear all icons and wires",
	"",
	"Mouse:",
	"------",
	"  Left drag        Move icons, or draw a wire with the wire tool on",
	"  Right click      Delete icon",
	"",
	"Notes:",
	"------",
	"  n                Edit notes (Esc to return to the canvas)",
	"  ←/→              Move caret, Shift extends the selection",
	"  Ctrl+a           Select all",
	"  Ctrl+b/Tab/Ctrl+u Bold, italic, underline selection",
	"  Ctrl+v           Paste",
	"  t                Insert table at caret (rows cols border width)",
	"  T                Resize table at caret",
	"  b/i/u            Bold, italic, underline selection",
	"  c                Colour selection",
	"  f                Set font (family size)",
	"  p                Paste clipboard into notes",
	"",
	"Export:",
	"-------",
	"  P                Export PNG",
	"  D                Export PDF",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
