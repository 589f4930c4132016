package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"netsketch/internal/editor"
	"netsketch/internal/export"
	"netsketch/internal/interact"
	"netsketch/internal/richtext"
	"netsketch/internal/scene"
)

func main() {
	config, cfgErr := loadConfig()
	closeLog := setupLogging(config)
	defer closeLog()
	if cfgErr != nil {
		log.WithError(cfgErr).Warn("Using default configuration")
	}

	p := tea.NewProgram(
		newModel(config, loadCatalog(config)),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("Program exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends logs to the configured file, since the terminal belongs
// to the UI.
func setupLogging(config *Config) func() {
	log.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.SetOutput(io.Discard)
	if config.LogFile == "" {
		return func() {}
	}
	path, err := homedir.Expand(config.LogFile)
	if err != nil {
		return func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return func() {}
	}
	log.SetOutput(file)
	return func() { file.Close() }
}

func loadCatalog(config *Config) *scene.Catalog {
	if config.IconDirectory == "" {
		return scene.BuiltinCatalog()
	}
	catalog, err := scene.LoadCatalog(config.IconDirectory)
	if err != nil || len(catalog.Kinds()) == 0 {
		log.WithError(err).WithField("path", config.IconDirectory).Warn("Falling back to builtin icons")
		return scene.BuiltinCatalog()
	}
	return catalog
}

func newModel(config *Config, catalog *scene.Catalog) model {
	ed := editor.New(catalog, editor.Options{
		Export: export.Options{
			Compress: config.PDFCompress,
			Width:    config.CanvasWidth,
			Height:   config.CanvasHeight,
		},
	}, log.StandardLogger())

	palette := catalog.Kinds()
	if len(palette) > 9 {
		palette = palette[:9]
	}
	return model{
		editor:  ed,
		config:  config,
		palette: palette,
		mode:    ModeCanvas,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case exportDoneMsg:
		m.finishExport(msg)
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard: %v", msg.err)
			return m, nil
		}
		m.editor.Paste(msg.text)
		m.successMessage = "Pasted into notes"
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg.String())
			return m, nil
		}
		switch m.mode {
		case ModeNotes:
			return m.updateNotes(msg)
		case ModeInput:
			return m.updateInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeExporting:
			if msg.Type == tea.KeyEscape {
				m.abandonExport()
			}
			return m, nil
		default:
			return m.updateCanvas(msg)
		}
	}
	return m, nil
}

func (m model) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations && !m.editor.Scene().Empty() {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "h", "left", "H", "shift+left",
		"l", "right", "L", "shift+right",
		"k", "up", "K", "shift+up",
		"j", "down", "J", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	case "z":
		m.zPanMode = !m.zPanMode
	case " ":
		m.togglePress()
	case "d":
		m.editor.Handle(interact.PointerDown{Pos: m.cursorPoint(), Button: interact.ButtonSecondary})
	case "w":
		m.editor.Handle(interact.ToggleLineTool{})
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.placeIcon(int(key[0] - '1'))
	case "+", "=":
		m.editor.ZoomIn()
	case "-":
		m.editor.ZoomOut()
	case "0":
		m.editor.ZoomReset()
	case "n":
		m.releasePress()
		m.mode = ModeNotes
	case "t":
		m.prompt(InputTable, "Table (rows cols border width)", fmt.Sprintf("%d %d %d %s",
			richtext.DefaultRows, richtext.DefaultCols, richtext.DefaultBorder, richtext.DefaultTableWidth))
	case "T":
		m.prompt(InputTableWidth, "Table width", richtext.DefaultTableWidth)
	case "b":
		m.report(m.editor.StyleSelection(richtext.Style{Bold: true}), "Bold applied")
	case "i":
		m.report(m.editor.StyleSelection(richtext.Style{Italic: true}), "Italic applied")
	case "u":
		m.report(m.editor.StyleSelection(richtext.Style{Underline: true}), "Underline applied")
	case "c":
		m.prompt(InputColor, "Colour (#rrggbb)", richtext.DefaultColor)
	case "f":
		family, size := m.editor.Notes().BaseFont()
		m.prompt(InputFont, "Font (family size)", fmt.Sprintf("%s %d", family, size))
	case "p":
		return m, readClipboard
	case "P":
		m.releasePress()
		m.promptExport(export.PNG)
	case "D":
		m.releasePress()
		m.promptExport(export.PDF)
	case "X":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmClearAll
			return m, nil
		}
		m.clearAll()
	}
	return m, nil
}

func (m model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	switch msg.String() {
	case "esc":
		m.mode = ModeCanvas
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.report(m.editor.LineBreak(), "")
	case "backspace":
		m.editor.DeleteBackward()
	case "left":
		m.moveCaret(-1, false)
	case "right":
		m.moveCaret(1, false)
	case "shift+left":
		m.moveCaret(-1, true)
	case "shift+right":
		m.moveCaret(1, true)
	case "ctrl+a":
		m.editor.SelectAll()
	case "ctrl+b":
		m.report(m.editor.StyleSelection(richtext.Style{Bold: true}), "")
	// ctrl+i arrives as tab in most terminals.
	case "ctrl+i", "tab":
		m.report(m.editor.StyleSelection(richtext.Style{Italic: true}), "")
	case "ctrl+u":
		m.report(m.editor.StyleSelection(richtext.Style{Underline: true}), "")
	case "ctrl+v":
		return m, readClipboard
	default:
		if text := typedText(msg); text != "" {
			m.editor.TypeText(text)
		}
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeCanvas
		m.inputText = ""
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.mode = ModeCanvas
		text := m.inputText
		m.inputText = ""
		cmd := m.applyInput(text)
		return m, cmd
	case msg.Type == tea.KeyBackspace:
		if r := []rune(m.inputText); len(r) > 0 {
			m.inputText = string(r[:len(r)-1])
		}
		return m, nil
	case msg.Type == tea.KeyCtrlU:
		m.inputText = ""
		return m, nil
	default:
		m.inputText += typedText(msg)
		return m, nil
	}
}

func (m *model) applyInput(text string) tea.Cmd {
	m.errorMessage = ""
	m.successMessage = ""
	switch m.inputPurpose {
	case InputTable:
		spec, warn := parseTableSpec(text)
		m.report(errors.Join(warn, m.editor.InsertTable(spec)), "Table inserted")
	case InputTableWidth:
		m.report(m.editor.ResizeTable(text), "Table resized")
	case InputColor:
		m.report(m.editor.StyleSelection(richtext.Style{Color: normalizeColor(text)}), "Colour applied")
	case InputFont:
		family, size, err := parseFont(text)
		if err != nil {
			m.errorMessage = err.Error()
			return nil
		}
		m.report(m.editor.SetFont(family, size), "Font set")
	case InputExportPNG:
		return m.requestExport(export.PNG, m.exportPath(text, export.PNG))
	case InputExportPDF:
		return m.requestExport(export.PDF, m.exportPath(text, export.PDF))
	}
	return nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeCanvas
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmClearAll:
			m.clearAll()
		case ConfirmOverwriteFile:
			pending := m.pendingExport
			m.pendingExport = nil
			if pending != nil {
				cmd := m.startExport(pending.format, pending.path)
				return m, cmd
			}
		}
	case "n", "N", "esc":
		m.mode = ModeCanvas
		m.pendingExport = nil
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

// handleMouse maps terminal mouse events on the canvas rows to pointer events.
func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeCanvas || m.help {
		return
	}
	switch msg.Type {
	case tea.MouseLeft, tea.MouseRight:
		if !m.onCanvas(msg.X, msg.Y) || m.pressed {
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		button := interact.ButtonPrimary
		if msg.Type == tea.MouseRight {
			button = interact.ButtonSecondary
		}
		m.editor.Handle(interact.PointerDown{Pos: m.cursorPoint(), Button: button})
		m.pressed = button == interact.ButtonPrimary
		m.pressedButton = button
	case tea.MouseMotion:
		if !m.pressed {
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.ensureCursorInBounds()
		m.editor.Handle(interact.PointerMove{Pos: m.cursorPoint()})
	case tea.MouseRelease:
		if !m.pressed {
			return
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.ensureCursorInBounds()
		m.releasePress()
	}
}

// togglePress presses the primary button at the cursor, or releases it when
// already held.
func (m *model) togglePress() {
	if m.pressed {
		m.releasePress()
		return
	}
	m.editor.Handle(interact.PointerDown{Pos: m.cursorPoint(), Button: interact.ButtonPrimary})
	m.pressed = true
	m.pressedButton = interact.ButtonPrimary
}

func (m *model) releasePress() {
	if !m.pressed {
		return
	}
	m.editor.Handle(interact.PointerUp{Pos: m.cursorPoint(), Button: m.pressedButton})
	m.pressed = false
}

func (m *model) placeIcon(n int) {
	if n < 0 || n >= len(m.palette) {
		m.errorMessage = fmt.Sprintf("No icon in slot %d", n+1)
		return
	}
	if _, err := m.editor.PlaceIcon(m.palette[n]); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = fmt.Sprintf("Placed %s", m.palette[n])
}

func (m *model) clearAll() {
	m.pressed = false
	m.editor.ClearAll()
	m.successMessage = "Diagram cleared"
}

func (m *model) prompt(purpose InputPurpose, label, initial string) {
	m.mode = ModeInput
	m.inputPurpose = purpose
	m.inputPrompt = label
	m.inputText = initial
}

// report shows err on the status line. Warnings mean the operation went
// ahead with corrected values.
func (m *model) report(err error, success string) {
	switch {
	case err == nil:
		m.successMessage = success
	case richtext.IsWarning(err):
		m.successMessage = "Warning: " + oneLine(err)
	default:
		m.errorMessage = oneLine(err)
	}
}

// oneLine flattens joined errors for the status line.
func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}

func typedText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeyRunes {
		return string(msg.Runes)
	}
	if msg.String() == " " {
		return " "
	}
	return ""
}
