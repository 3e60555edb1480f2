// Package templates holds the HTML components of the web UI.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// urlAttr writes a URL attribute. Unsafe schemes such as javascript: are
// replaced by templ's sanitization.
func (h *htmlWriter) urlAttr(name string, u templ.SafeURL) {
	h.attr(name, string(u))
}

func (h *htmlWriter) intAttr(name string, v int) {
	h.raw(" " + name + `="` + strconv.Itoa(v) + `"`)
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
