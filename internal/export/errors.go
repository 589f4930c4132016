package export

import "fmt"

// ConversionError means the annotation markup could not be turned into
// document content. Exports recover from it by falling back to plain text.
type ConversionError struct {
	Reason string
	Offset int
}

func (e *ConversionError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("markup conversion failed at byte %d: %s", e.Offset, e.Reason)
	}
	return "markup conversion failed: " + e.Reason
}

// IOError means the artifact could not be written. The export failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
