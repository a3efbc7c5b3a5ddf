package preview

import (
	"regexp"
	"strings"
)

// cdataPattern matches complete CDATA sections, newlines included.
var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[.*?\]\]>`)

// Sanitize makes arbitrary file text safe to embed verbatim inside a
// backtick-delimited template literal in the generated page. The output,
// wrapped in backticks, always parses as a single inert string.
//
// The steps run in a fixed order; each operates on the previous step's
// output and reordering changes correctness:
//
//  1. Double every backslash, so backslashes inserted by later steps are
//     not themselves re-escaped.
//  2. Strip CDATA sections entirely. XML payloads could otherwise smuggle
//     delimiter-breaking content through them.
//  3. Escape the backtick delimiter.
//  4. Escape the "${" interpolation opener, preventing expression
//     evaluation inside the literal.
//
// Pure and total: any input yields an output, never an error. Step 2 is the
// one lossy transformation; see the package tests.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = cdataPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "${", "\\${")
	return text
}
