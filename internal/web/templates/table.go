package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/grid"
)

// TableView is everything the grid partial needs to render one draw.
type TableView struct {
	ID      string
	Label   string
	Missing bool // Table not found; the grid was not attached

	Options grid.Options
	Head    [][]core.Cell       // Header rows of the source table
	Inputs  []*grid.SearchInput // Column search row, nil for the toolbar variant
	Columns []string
	Result  grid.DrawResult
	Search  string
	Order   []grid.Order
	Query   url.Values // Request state, reused by pager and toolbar links
}

// TablePage renders the full page for a table.
func TablePage(v TableView) templ.Component {
	return Layout(v.Label, TablePartial(v))
}

// TablePartial renders the grid section alone, for HTMX swaps.
func TablePartial(v TableView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="grid"`)
		h.attr("id", "grid-"+v.ID)
		h.attr("data-table", v.ID)
		h.urlAttr("data-url", templ.URL(TableURL(v.ID)))
		if !v.Missing {
			h.attr("data-options", v.Options.JSON())
		}
		h.raw(`><h1>`)
		h.text(v.Label)
		h.raw(`</h1>`)

		if v.Missing {
			h.raw(`<p class="empty">Sem dados para exibir.</p></section>`)
			return h.err
		}

		if v.Options.HasToolbar() {
			renderToolbar(h, v)
		}
		if v.Options.HasSearchBox() {
			h.raw(`<div class="grid-filter"><input type="search" name="search" data-global placeholder="Buscar"`)
			h.attr("value", v.Search)
			h.raw(`></div>`)
		}

		h.raw(`<div class="grid-scroll"><table class="display"`)
		h.attr("id", v.ID)
		h.raw(`><thead>`)
		renderHead(h, v)
		h.raw(`</thead><tbody>`)
		if len(v.Result.Rows) == 0 {
			h.raw(`<tr><td class="empty"`)
			h.intAttr("colspan", max(len(v.Columns), 1))
			h.raw(`>Nenhum registro encontrado</td></tr>`)
		}
		for i, row := range v.Result.Rows {
			h.raw(`<tr`)
			h.intAttr("data-row", v.Result.Indexes[i])
			h.raw(`>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)

		renderInfo(h, v)
		h.raw(`</section>`)
		return h.err
	})
}

func renderHead(h *htmlWriter, v TableView) {
	sortable := len(v.Head) == 1
	for _, row := range v.Head {
		h.raw(`<tr>`)
		col := 0
		for _, cell := range row {
			cols, rows := cell.Span()
			h.raw(`<th`)
			if cols > 1 {
				h.intAttr("colspan", cols)
			}
			if rows > 1 {
				h.intAttr("rowspan", rows)
			}
			if sortable && cols == 1 {
				h.intAttr("data-column", col)
				h.attr("data-dir", nextDir(v.Order, col))
				h.attr("class", sortClass(v.Order, col))
			}
			h.raw(`>`)
			h.text(cell.Text)
			h.raw(`</th>`)
			col += cols
		}
		h.raw(`</tr>`)
	}

	if v.Inputs == nil {
		return
	}
	h.raw(`<tr class="search-row">`)
	for _, in := range v.Inputs {
		h.raw(`<th><input type="text"`)
		h.intAttr("data-column", in.Index)
		h.attr("placeholder", in.Placeholder)
		h.attr("value", in.Value())
		h.raw(`><button type="button" class="sort"`)
		h.intAttr("data-column", in.Index)
		h.attr("data-dir", nextDir(v.Order, in.Index))
		h.attr("aria-label", "Ordenar "+in.Title)
		h.raw(`>&#8645;</button></th>`)
	}
	h.raw(`</tr>`)
}

func renderToolbar(h *htmlWriter, v TableView) {
	query := ""
	if len(v.Query) > 0 {
		query = "?" + v.Query.Encode()
	}
	base := "/api/tables/" + url.PathEscape(v.ID)

	h.raw(`<div class="dt-buttons">`)
	for _, b := range v.Options.Buttons {
		switch b {
		case grid.ButtonCopy:
			h.raw(`<button type="button" data-action="copy"`)
			h.urlAttr("data-href", templ.URL(base+"/copy"+query))
			h.raw(`>Copiar</button>`)
		case grid.ButtonExcel:
			h.raw(`<button type="button" data-action="export"`)
			h.urlAttr("data-href", templ.URL("/api/export/"+url.PathEscape(v.ID)))
			h.raw(`>Excel</button>`)
		case grid.ButtonCSV:
			h.raw(`<a class="button"`)
			h.urlAttr("href", templ.URL(base+"/csv"+query))
			h.raw(`>CSV</a>`)
		case grid.ButtonPDF:
			h.raw(`<a class="button"`)
			h.urlAttr("href", templ.URL(base+"/pdf"+query))
			h.raw(`>PDF</a>`)
		case grid.ButtonPrint:
			h.raw(`<a class="button" target="_blank" rel="noopener"`)
			h.urlAttr("href", templ.URL(base+"/print"+query))
			h.raw(`>Imprimir</a>`)
		}
	}
	h.raw(`</div>`)
}

func renderInfo(h *htmlWriter, v TableView) {
	r := v.Result
	first, last := 0, len(r.Rows)
	if last > 0 {
		first = r.Page*r.PageLength + 1
		last = first + len(r.Rows) - 1
	}

	h.raw(`<div class="grid-info">`)
	h.text(fmt.Sprintf("Mostrando %d a %d de %d registros", first, last, r.RecordsFiltered))
	if r.RecordsFiltered != r.RecordsTotal {
		h.text(fmt.Sprintf(" (filtrado de %d)", r.RecordsTotal))
	}
	h.raw(`</div>`)

	if r.Pages <= 1 {
		return
	}
	h.raw(`<nav class="grid-pager">`)
	if r.Page > 0 {
		pageLink(h, v, r.Page-1, "Anterior")
	}
	h.raw(`<span>`)
	h.text(fmt.Sprintf("%d / %d", r.Page+1, r.Pages))
	h.raw(`</span>`)
	if r.Page < r.Pages-1 {
		pageLink(h, v, r.Page+1, "Próximo")
	}
	h.raw(`</nav>`)
}

func pageLink(h *htmlWriter, v TableView, page int, label string) {
	q := url.Values{}
	for k, vals := range v.Query {
		q[k] = append([]string(nil), vals...)
	}
	q.Set("page", strconv.Itoa(page))

	h.raw(`<a data-page`)
	h.urlAttr("href", templ.URL(TableURL(v.ID)+"?"+q.Encode()))
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func sortClass(order []grid.Order, col int) string {
	if len(order) > 0 && order[0].Column == col {
		return "sorting sorting_" + order[0].Dir
	}
	return "sorting"
}

// nextDir is the direction a click on col requests.
func nextDir(order []grid.Order, col int) string {
	if len(order) > 0 && order[0].Column == col && order[0].Dir == grid.Asc {
		return grid.Desc
	}
	return grid.Asc
}
