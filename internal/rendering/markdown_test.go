package rendering

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := NewRenderer(80)
	out := r.Render("# Heading\n\nsome body text")
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "some body text") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestRenderClampWidth(t *testing.T) {
	// Degenerate widths must still yield a working renderer.
	for _, w := range []int{-1, 0, 10, 500} {
		r := NewRenderer(w)
		if out := r.Render("plain"); !strings.Contains(out, "plain") {
			t.Errorf("width %d: lost content: %q", w, out)
		}
	}
}
