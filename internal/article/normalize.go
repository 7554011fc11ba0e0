package article

import (
	"regexp"
	"strings"
)

// Normalization is a textual reduction, not an HTML parser: no DOM, no entity decoding.
var (
	scriptBlock = regexp.MustCompile(`(?i)<script[\s\S]*?</script>`)
	styleBlock  = regexp.MustCompile(`(?i)<style[\s\S]*?</style>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	whitespace  = regexp.MustCompile(`[\s\v\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)
	titleTag    = regexp.MustCompile(`(?i)<title>(.*?)</title>`)
)

// Normalize reduces markup to plain text: script and style blocks are dropped,
// remaining tags are stripped, and whitespace runs collapse to single spaces.
func Normalize(html string) string {
	text := scriptBlock.ReplaceAllString(html, " ")
	text = styleBlock.ReplaceAllString(text, " ")
	text = anyTag.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractTitle returns the raw inner text of the first <title> element, or ""
func ExtractTitle(html string) string {
	m := titleTag.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}
