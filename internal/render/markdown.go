// Package render turns assistant replies into HTML that is safe to inject
// into a page.
package render

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
)

// Markdown renders text as GitHub-flavored markdown and sanitizes the result.
// Raw HTML in the input never survives: goldmark drops it and the policy
// strips anything that slips through.
func Markdown(text string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return policy.Sanitize(buf.String())
}
