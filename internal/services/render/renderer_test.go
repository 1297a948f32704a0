package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RenderBody(t *testing.T) {
	r := NewRenderer()

	t.Run("renders markdown", func(t *testing.T) {
		out := r.RenderBody("some **bold** text")
		assert.Contains(t, out, "<strong>bold</strong>")
	})

	t.Run("escapes raw html", func(t *testing.T) {
		out := r.RenderBody("<script>alert(1)</script>")
		assert.NotContains(t, out, "<script>")
	})

	t.Run("hard wraps line breaks", func(t *testing.T) {
		out := r.RenderBody("line one\nline two")
		assert.Contains(t, out, "<br")
	})
}
