package chunk

import (
	"html"
	"regexp"
	"strings"
)

// Format identifies the markup of a document's raw text.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

var (
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	controlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	spaceRe   = regexp.MustCompile(`\s+`)

	fenceRe      = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_]+)__`)
	underlineRe  = regexp.MustCompile(`_([^_]+)_`)
)

// FormatFor derives the document format from a file extension or an
// explicit "format" metadata value. Unknown inputs fall back to plain text.
func FormatFor(meta map[string]string) Format {
	if f, ok := meta["format"]; ok {
		switch Format(f) {
		case FormatHTML, FormatMarkdown, FormatText:
			return Format(f)
		}
	}
	switch strings.ToLower(meta["extension"]) {
	case ".html", ".htm":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatText
}

// Normalize converts raw document text to clean plain text for chunking.
func Normalize(text string, format Format) string {
	switch format {
	case FormatHTML:
		text = StripHTML(text)
	case FormatMarkdown:
		text = StripMarkdown(text)
	}
	return CleanText(text)
}

// StripHTML removes markup from HTML text. Script and style bodies are
// dropped entirely; other tags are replaced with a space so adjacent words
// do not fuse; entities are decoded.
func StripHTML(text string) string {
	text = scriptRe.ReplaceAllString(text, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	return html.UnescapeString(text)
}

// StripMarkdown unwraps markdown syntax while keeping readable text.
// Fenced code blocks and images are removed; links, emphasis and headings
// keep their inner text.
func StripMarkdown(text string) string {
	text = fenceRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = boldUnderRe.ReplaceAllString(text, "$1")
	text = underlineRe.ReplaceAllString(text, "$1")
	return text
}

// CleanText collapses whitespace runs to single spaces and strips control
// characters.
func CleanText(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = controlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
