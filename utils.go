package main

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"netsketch/internal/richtext"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		// pbpaste can hand back the HTML flavour, which keeps table markup.
		if output, err := exec.Command("pbpaste", "-Prefer", "html").Output(); err == nil && len(output) > 0 {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func readClipboard() tea.Msg {
	text, err := readClipboardText()
	if err != nil {
		return clipboardMsg{err: err}
	}
	return clipboardMsg{text: cleanClipboardText(text)}
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

// extractTextFromRTF keeps the printable text of an RTF document. Groups are
// flattened and control words dropped, except the few that carry layout.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	for i := 0; i < len(rtf); i++ {
		switch c := rtf[i]; {
		case c == '\\':
			i = rtfControl(rtf, i+1, &out) - 1
		case c >= 32 && c < 127 && c != '{' && c != '}':
			out.WriteByte(c)
		}
	}
	return out.String()
}

var rtfLayoutWords = map[string]string{"par": "\n", "line": "\n", "tab": "\t"}

// rtfControl consumes the control sequence starting at rtf[i], just past the
// backslash, and returns the index after it.
func rtfControl(rtf string, i int, out *strings.Builder) int {
	if i >= len(rtf) {
		return i
	}
	c := rtf[i]
	switch {
	case c == '\\' || c == '{' || c == '}':
		out.WriteByte(c)
		return i + 1
	case c == '\'':
		if i+3 <= len(rtf) {
			if v, err := strconv.ParseUint(rtf[i+1:i+3], 16, 8); err == nil {
				out.WriteRune(rune(v))
				return i + 3
			}
		}
	case isLetter(c):
		j := i
		for j < len(rtf) && isLetter(rtf[j]) {
			j++
		}
		word := rtf[i:j]
		if j < len(rtf) && rtf[j] == '-' {
			j++
		}
		for j < len(rtf) && rtf[j] >= '0' && rtf[j] <= '9' {
			j++
		}
		if j < len(rtf) && rtf[j] == ' ' {
			j++
		}
		out.WriteString(rtfLayoutWords[word])
		return j
	}
	return i + 1
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// cleanClipboardText turns RTF into text, drops control characters and
// normalizes line endings. HTML is left alone for the notes to parse.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if isRTF(text) {
		text = extractTextFromRTF(text)
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized
}

// parseTableSpec reads "rows cols border width". Missing fields keep their
// defaults. A field that is not a number keeps its default too and is
// reported as a warning; range checks happen when the table is inserted.
func parseTableSpec(input string) (richtext.TableSpec, error) {
	spec := richtext.TableSpec{
		Rows:   richtext.DefaultRows,
		Cols:   richtext.DefaultCols,
		Border: richtext.DefaultBorder,
		Width:  richtext.DefaultTableWidth,
	}
	ints := []struct {
		field string
		v     *int
	}{
		{"rows", &spec.Rows},
		{"columns", &spec.Cols},
		{"border width", &spec.Border},
	}
	var warns []error
	for i, f := range strings.Fields(input) {
		if i >= len(ints) {
			spec.Width = f
			break
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			warns = append(warns, &richtext.ValidationError{Field: ints[i].field, Value: f, Default: strconv.Itoa(*ints[i].v)})
			continue
		}
		*ints[i].v = n
	}
	return spec, errors.Join(warns...)
}

// parseFont reads "family size", where the family may contain spaces.
func parseFont(input string) (string, int, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("expected family and size")
	}
	size, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return "", 0, fmt.Errorf("bad font size %q", fields[len(fields)-1])
	}
	return strings.Join(fields[:len(fields)-1], " "), size, nil
}

// normalizeColor accepts a colour with or without the leading #.
func normalizeColor(input string) string {
	c := strings.TrimSpace(input)
	if c != "" && !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return strings.ToLower(c)
}
