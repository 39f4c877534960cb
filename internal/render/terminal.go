package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	termOnce     sync.Once
	termRenderer *glamour.TermRenderer
)

// Terminal renders markdown for a terminal. It returns text unchanged when
// the renderer cannot be built or fails.
func Terminal(text string) string {
	termOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			termRenderer = r
		}
	})

	if termRenderer == nil {
		return text
	}
	out, err := termRenderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
