package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"netsketch/internal/export"
)

func (m *model) promptExport(format export.Format) {
	m.mode = ModeInput
	m.inputText = defaultFilename
	m.inputPrompt = fmt.Sprintf("Export %s as", format)
	if format == export.PDF {
		m.inputPurpose = InputExportPDF
	} else {
		m.inputPurpose = InputExportPNG
	}
}

// exportPath resolves a filename typed at the prompt against the configured
// save directory, with the format's extension forced.
func (m *model) exportPath(name string, format export.Format) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFilename
	}
	return m.config.SavePath(export.WithExtension(name, format))
}

// requestExport starts the export, asking first when it would replace an
// existing file.
func (m *model) requestExport(format export.Format, path string) tea.Cmd {
	if m.config.Confirmations {
		if _, err := os.Stat(path); err == nil {
			m.pendingExport = &pendingExport{format: format, path: path}
			m.confirmAction = ConfirmOverwriteFile
			m.mode = ModeConfirm
			return nil
		}
	}
	return m.startExport(format, path)
}

func (m *model) startExport(format export.Format, path string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.exportID++
	m.cancelExport = cancel
	m.mode = ModeExporting
	m.errorMessage = ""
	m.successMessage = ""

	id := m.exportID
	done := m.editor.RequestExport(ctx, format, path)
	return func() tea.Msg {
		return exportDoneMsg{id: id, outcome: <-done}
	}
}

// abandonExport stops waiting for the running export. Its outcome is ignored
// when it arrives.
func (m *model) abandonExport() {
	if m.cancelExport != nil {
		m.cancelExport()
		m.cancelExport = nil
	}
	m.exportID++
	m.mode = ModeCanvas
	m.successMessage = "Export cancelled"
}

func (m *model) finishExport(msg exportDoneMsg) {
	if msg.id != m.exportID {
		log.WithField("path", msg.outcome.Path).Debug("Dropping outcome of abandoned export")
		return
	}
	if m.cancelExport != nil {
		m.cancelExport()
		m.cancelExport = nil
	}
	m.mode = ModeCanvas
	out := msg.outcome
	switch {
	case errors.Is(out.Err, context.Canceled):
		m.successMessage = "Export cancelled"
	case out.Err != nil:
		m.errorMessage = fmt.Sprintf("Export failed: %v", out.Err)
	case out.Fallback:
		m.successMessage = fmt.Sprintf("Exported %s (notes as plain text)", out.Path)
	default:
		m.successMessage = fmt.Sprintf("Exported %s", out.Path)
	}
}
