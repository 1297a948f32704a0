// File: internal/services/render/renderer.go
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts message bodies written in Markdown into HTML for the
// detail view. Raw HTML in bodies is never passed through.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// RenderBody renders one message body. On failure the raw body is returned
// so a malformed message never breaks the detail view.
func (r *Renderer) RenderBody(body string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return body
	}
	return buf.String()
}
