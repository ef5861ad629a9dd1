// Package rendering formats generated markdown for terminal display.
package rendering

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown to styled terminal output, degrading to plain
// text when glamour cannot initialize.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer builds a renderer wrapping at the given width.
func NewRenderer(width int) *Renderer {
	if width < 40 {
		width = 40
	}
	if width > 100 {
		width = 100
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{tr: tr}
}

// Render formats markdown text; on any failure the input passes through
// unstyled.
func (r *Renderer) Render(md string) string {
	if r.tr == nil {
		return strings.TrimSpace(md)
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return strings.TrimSpace(md)
	}
	return strings.TrimSpace(out)
}
