package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md renders model output. The default HTML renderer omits raw HTML and
// blanks javascript:, vbscript: and data: link targets.
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// renderMarkdown converts untrusted Markdown to HTML that is safe to place in
// the page without further escaping.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}
