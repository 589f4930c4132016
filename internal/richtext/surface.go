// Package richtext defines the annotation surface the editor writes notes
// into, and ships an in-memory HTML-backed implementation of it.
//
// Offsets address runes of the surface's plain text. Block boundaries and
// <br> elements count as one newline rune each, and table cells after the
// first in a row are separated by a tab.
package richtext

import (
	"errors"
	"fmt"
)

type Range struct {
	Start, End int
}

func (r Range) Empty() bool { return r.End <= r.Start }

// normalized orders the endpoints and clamps them to [0, n].
func (r Range) normalized(n int) Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	r.Start = min(max(r.Start, 0), n)
	r.End = min(max(r.End, 0), n)
	return r
}

// Surface is everything the editor core needs from a rich-text document.
type Surface interface {
	PlainText() string
	Markup() (string, error)
	InsertMarkupAt(offset int, markup string) error
	ApplyCharacterStyle(r Range, s Style) error
	Selection() Range
}

// ValidationError is a warning: a value was replaced by Default and the
// operation went ahead.
type ValidationError struct {
	Field   string
	Value   string
	Default string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q, using %s", e.Field, e.Value, e.Default)
}

// IsWarning reports whether err only carries validation warnings.
func IsWarning(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
