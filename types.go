package main

import (
	"context"

	"netsketch/internal/editor"
	"netsketch/internal/export"
	"netsketch/internal/interact"
)

type model struct {
	width    int
	height   int
	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	editor  *editor.Editor
	config  *Config
	palette []string

	mode          Mode
	help          bool
	helpScroll    int
	pressed       bool
	pressedButton interact.Button
	anchor        int

	inputPurpose InputPurpose
	inputText    string
	inputPrompt  string

	confirmAction ConfirmAction
	pendingExport *pendingExport

	exportID     int
	cancelExport context.CancelFunc

	errorMessage   string
	successMessage string
}

type pendingExport struct {
	format export.Format
	path   string
}

// exportDoneMsg carries the outcome of the export started with the same id.
type exportDoneMsg struct {
	id      int
	outcome export.Outcome
}

// clipboardMsg delivers clipboard content read off the update loop.
type clipboardMsg struct {
	text string
	err  error
}
