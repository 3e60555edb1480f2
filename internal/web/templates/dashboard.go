package templates

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// TableGroup is one section of the dashboard.
type TableGroup struct {
	Name   string
	Tables []core.TableInfo
}

// Dashboard lists the registered tables by group.
func Dashboard(groups []TableGroup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="dashboard"><h1>Tabelas</h1>`)
		if len(groups) == 0 {
			h.raw(`<p class="empty">Nenhuma tabela configurada.</p>`)
		}
		for _, g := range groups {
			h.raw(`<div class="group"><h2>`)
			if g.Name == "" {
				h.text("Geral")
			} else {
				h.text(g.Name)
			}
			h.raw(`</h2><ul>`)
			for _, t := range g.Tables {
				h.raw(`<li><a`)
				h.urlAttr("href", templ.URL(TableURL(t.Key)))
				h.raw(`>`)
				h.text(t.Label)
				h.raw(`</a> <span class="variant">`)
				h.text(string(t.Variant))
				h.raw(`</span></li>`)
			}
			h.raw(`</ul></div>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// TableURL is the page address of a table.
func TableURL(id string) string {
	return "/tables/" + url.PathEscape(id)
}
