package export

import (
	"os"
	"path/filepath"
	"strings"
)

type Format int

const (
	PNG Format = iota
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case PDF:
		return "PDF"
	default:
		return "unknown"
	}
}

// Ext is the file extension forced onto artifacts of this format.
func (f Format) Ext() string {
	return "." + strings.ToLower(f.String())
}

// WithExtension appends the format's extension unless path already ends in
// it, ignoring case.
func WithExtension(path string, f Format) string {
	if strings.EqualFold(filepath.Ext(path), f.Ext()) {
		return path
	}
	return path + f.Ext()
}

// WriteFile writes data to path with the format's extension forced and
// returns the path actually written. The file is closed on every path.
func WriteFile(path string, f Format, data []byte) (written string, err error) {
	written = WithExtension(path, f)
	file, err := os.Create(written)
	if err != nil {
		return written, &IOError{Op: "create", Path: written, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: written, Err: cerr}
		}
	}()
	if _, err := file.Write(data); err != nil {
		return written, &IOError{Op: "write", Path: written, Err: err}
	}
	return written, nil
}
