package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	in := `<html><head><style>body { color: red; }</style>
<script type="text/javascript">alert("hi");</script></head>
<body><h1>Title</h1><p>Some &amp; more text.</p></body></html>`

	out := CleanText(StripHTML(in))
	assert.Equal(t, "Title Some & more text.", out)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "# Title\ntext", "Title text"},
		{"link keeps text", "see [the docs](https://example.com) here", "see the docs here"},
		{"image removed", "before ![alt text](img.png) after", "before after"},
		{"bold and italic", "**bold** and *italic* and __strong__ and _em_", "bold and italic and strong and em"},
		{"inline code keeps content", "run `go test` now", "run go test now"},
		{"fenced code removed", "before\n```go\nfunc main() {}\n```\nafter", "before after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(StripMarkdown(tt.in)))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("a\n\n  b\t\tc"))
	assert.Equal(t, "ab", CleanText("a\x00\x08b"))
	assert.Equal(t, "", CleanText("  \t \n "))
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatHTML, FormatFor(map[string]string{"extension": ".html"}))
	assert.Equal(t, FormatHTML, FormatFor(map[string]string{"extension": ".HTM"}))
	assert.Equal(t, FormatMarkdown, FormatFor(map[string]string{"extension": ".md"}))
	assert.Equal(t, FormatText, FormatFor(map[string]string{"extension": ".txt"}))
	assert.Equal(t, FormatText, FormatFor(nil))
	assert.Equal(t, FormatMarkdown, FormatFor(map[string]string{"format": "markdown"}))
}
