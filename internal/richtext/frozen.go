package richtext

import "errors"

var ErrReadOnly = errors.New("surface is read-only")

// Frozen is an immutable copy of a surface's content, safe to hand to another
// goroutine. Writes fail with ErrReadOnly.
type Frozen struct {
	text      string
	markup    string
	markupErr error
	sel       Range
}

var _ Surface = (*Frozen)(nil)

// Freeze captures the current content of s. A markup serialization failure is
// kept and reported by Markup, not by Freeze.
func Freeze(s Surface) *Frozen {
	f := &Frozen{text: s.PlainText(), sel: s.Selection()}
	f.markup, f.markupErr = s.Markup()
	return f
}

func (f *Frozen) PlainText() string       { return f.text }
func (f *Frozen) Markup() (string, error) { return f.markup, f.markupErr }
func (f *Frozen) Selection() Range        { return f.sel }

func (f *Frozen) InsertMarkupAt(int, string) error       { return ErrReadOnly }
func (f *Frozen) ApplyCharacterStyle(Range, Style) error { return ErrReadOnly }
