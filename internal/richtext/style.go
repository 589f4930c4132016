package richtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

const (
	DefaultFontSize   = 12
	MinFontSize       = 8
	MaxFontSize       = 48
	DefaultFontFamily = "Helvetica"
	DefaultColor      = "#000000"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Style is a set of character attributes. Zero fields are left untouched when
// the style is applied.
type Style struct {
	Bold       bool
	Italic     bool
	Underline  bool
	Color      string
	FontFamily string
	FontSize   int
}

func (s Style) IsZero() bool { return s == Style{} }

// Merge overlays the non-zero fields of o onto s.
func (s Style) Merge(o Style) Style {
	s.Bold = s.Bold || o.Bold
	s.Italic = s.Italic || o.Italic
	s.Underline = s.Underline || o.Underline
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.FontFamily != "" {
		s.FontFamily = o.FontFamily
	}
	if o.FontSize != 0 {
		s.FontSize = o.FontSize
	}
	return s
}

// Validate replaces out-of-range fields with defaults and reports each
// replacement.
func (s Style) Validate() (Style, error) {
	var errs []error
	if s.Color != "" && !colorPattern.MatchString(s.Color) {
		errs = append(errs, &ValidationError{Field: "color", Value: s.Color, Default: DefaultColor})
		s.Color = DefaultColor
	}
	if s.FontSize != 0 && (s.FontSize < MinFontSize || s.FontSize > MaxFontSize) {
		errs = append(errs, &ValidationError{Field: "font size", Value: strconv.Itoa(s.FontSize), Default: strconv.Itoa(DefaultFontSize)})
		s.FontSize = DefaultFontSize
	}
	return s, joinWarnings(errs)
}

func (s Style) Declarations() []*css.Declaration {
	var decls []*css.Declaration
	add := func(prop, value string) {
		decls = append(decls, &css.Declaration{Property: prop, Value: value})
	}
	if s.Bold {
		add("font-weight", "bold")
	}
	if s.Italic {
		add("font-style", "italic")
	}
	if s.Underline {
		add("text-decoration", "underline")
	}
	if s.Color != "" {
		add("color", s.Color)
	}
	if s.FontFamily != "" {
		add("font-family", s.FontFamily)
	}
	if s.FontSize != 0 {
		add("font-size", fmt.Sprintf("%dpx", s.FontSize))
	}
	return decls
}

// CSS renders the style as an inline style attribute value.
func (s Style) CSS() string {
	return joinDeclarations(s.Declarations())
}

func joinDeclarations(decls []*css.Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// ParseStyle reads the character attributes out of an inline style attribute.
// Unknown properties are ignored.
func ParseStyle(attr string) (Style, error) {
	var s Style
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return s, fmt.Errorf("parse style %q: %w", attr, err)
	}
	for _, d := range decls {
		value := strings.ToLower(strings.TrimSpace(d.Value))
		switch strings.ToLower(d.Property) {
		case "font-weight":
			s.Bold = value == "bold" || value == "bolder" || value == "700" || value == "800" || value == "900"
		case "font-style":
			s.Italic = value == "italic" || value == "oblique"
		case "text-decoration", "text-decoration-line":
			s.Underline = strings.Contains(value, "underline")
		case "color":
			s.Color = value
		case "font-family":
			s.FontFamily = strings.Trim(strings.Split(d.Value, ",")[0], ` '"`)
		case "font-size":
			if n, ok := parseLength(value); ok {
				s.FontSize = n
			}
		}
	}
	return s, nil
}

func parseLength(v string) (int, bool) {
	v = strings.TrimSuffix(strings.TrimSuffix(v, "px"), "pt")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f + 0.5), true
}

// setDeclaration replaces prop in an inline style attribute, appending it when
// absent.
func setDeclaration(attr, prop, value string) (string, error) {
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return "", fmt.Errorf("parse style %q: %w", attr, err)
	}
	found := false
	for _, d := range decls {
		if strings.EqualFold(d.Property, prop) {
			d.Value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, &css.Declaration{Property: prop, Value: value})
	}
	return joinDeclarations(decls), nil
}

// Declaration returns the value of prop in an inline style attribute, or ""
// when the attribute does not parse or lacks prop.
func Declaration(attr, prop string) string {
	decls, err := parser.ParseDeclarations(attr)
	if err != nil {
		return ""
	}
	for _, d := range decls {
		if strings.EqualFold(d.Property, prop) {
			return strings.TrimSpace(d.Value)
		}
	}
	return ""
}
