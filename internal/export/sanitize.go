package export

import (
	"regexp"
	"strings"
)

var (
	processingInstr = regexp.MustCompile(`(?s)<\?.*?\?>`)
	officeArtifacts = regexp.MustCompile(`(?i)</?o:p\s*/?>`)
	comments        = regexp.MustCompile(`(?s)<!--.*?-->`)
	headBlock       = regexp.MustCompile(`(?is)<head\b[^>]*>.*?</head\s*>`)
	styleBlock      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	htmlOpen        = regexp.MustCompile(`(?i)<html\b[^>]*>`)
	bodyOpen        = regexp.MustCompile(`(?i)<body\b[^>]*>`)
	doctype         = regexp.MustCompile(`(?i)<!doctype[^>]*>`)
)

// Sanitize prepares serialized editor markup for conversion. It drops
// processing instructions, office namespace artifacts, comments, the head and
// any style blocks, and strips attributes from the root elements. Tables and
// spans pass through untouched.
func Sanitize(markup string) string {
	markup = processingInstr.ReplaceAllString(markup, "")
	markup = officeArtifacts.ReplaceAllString(markup, "")
	markup = comments.ReplaceAllString(markup, "")
	markup = doctype.ReplaceAllString(markup, "")
	markup = headBlock.ReplaceAllString(markup, "")
	markup = styleBlock.ReplaceAllString(markup, "")
	markup = htmlOpen.ReplaceAllString(markup, "<html>")
	markup = bodyOpen.ReplaceAllString(markup, "<body>")
	return strings.TrimSpace(markup)
}
