package story

import (
	"regexp"
	"strings"
)

const (
	titleMarker  = "TITEL:"
	defaultTitle = "Ohne Titel"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
)

// ParseReply splits a provider reply into title and story text.
func ParseReply(content string) (title, text string) {
	title = defaultTitle
	text = content

	if _, rest, found := strings.Cut(content, titleMarker); found {
		rest = strings.TrimSpace(rest)
		if i := strings.Index(rest, "\n"); i > 0 {
			title = strings.TrimSpace(rest[:i])
			text = strings.TrimSpace(rest[i+1:])
		} else {
			title = rest
			text = ""
		}
	}

	return title, stripEmphasis(text)
}

func stripEmphasis(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	return italicPattern.ReplaceAllString(text, "$1")
}
