package main

type Mode int

const (
	ModeCanvas Mode = iota
	ModeNotes
	ModeInput
	ModeConfirm
	ModeExporting
)

type InputPurpose int

const (
	InputTable InputPurpose = iota
	InputTableWidth
	InputColor
	InputFont
	InputExportPNG
	InputExportPDF
)

type ConfirmAction int

const (
	ConfirmClearAll ConfirmAction = iota
	ConfirmQuit
	ConfirmOverwriteFile
)

const (
	notesHeight     = 8 // rows given to the notes panel, border included
	defaultFilename = "diagram"
)
