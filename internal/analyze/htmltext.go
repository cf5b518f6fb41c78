package analyze

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)

	quotedRe = regexp.MustCompile(`"[^"]*"`)
)

// HTMLToText strips scripts, styles, and tags from a page and collapses
// whitespace into single spaces.
func HTMLToText(page string) string {
	text := scriptRe.ReplaceAllString(page, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// fixJSONNewlines escapes raw newlines inside quoted JSON strings.
// Models occasionally emit literal line breaks inside string values,
// which is invalid JSON.
func fixJSONNewlines(s string) string {
	return quotedRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "\n", `\n`)
	})
}
