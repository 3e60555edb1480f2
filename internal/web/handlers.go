package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/grid"
	"github.com/JonMunkholm/spreadtable/internal/logging"
	"github.com/JonMunkholm/spreadtable/internal/web/templates"
)

// TableResponse is one entry of the table listing.
type TableResponse struct {
	ID      string `json:"id"`
	Group   string `json:"group"`
	Label   string `json:"label"`
	Variant string `json:"variant"`
	URL     string `json:"url"`
}

// DrawResponse follows the grid library's server-side processing reply.
type DrawResponse struct {
	Draw            int        `json:"draw"`
	RecordsTotal    int        `json:"recordsTotal"`
	RecordsFiltered int        `json:"recordsFiltered"`
	Data            [][]string `json:"data"`
}

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var groups []templates.TableGroup
	for _, name := range s.registry.Groups() {
		defs := s.registry.ByGroup(name)
		g := templates.TableGroup{Name: name, Tables: make([]core.TableInfo, len(defs))}
		for i, def := range defs {
			g.Tables[i] = def.Info
		}
		groups = append(groups, g)
	}

	s.render(w, r, templates.Layout("spreadtable", templates.Dashboard(groups)))
}

// handleTablePage renders an enhanced table. HTMX requests get the grid
// partial only. A table that is not loaded renders an empty state.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view := templates.TableView{ID: id, Label: id, Query: r.URL.Query()}
	if def, ok := s.registry.Get(id); ok {
		view.Label = def.Info.Label
	}

	g, err := s.enhance(r.Context(), id)
	switch {
	case errors.Is(err, core.ErrTableNotFound):
		logging.FromContext(r.Context()).Debug("table not loaded, grid not attached", "table", id)
		view.Missing = true
	case err != nil:
		respondError(w, r, err, statusFor(err))
		return
	default:
		st := parseViewState(r.URL.Query())
		view.Result = st.apply(g)
		view.Options = g.Options()
		view.Columns = g.Columns()
		view.Search = g.SearchValue()
		view.Order = g.Ordering()
		view.Head = g.Table().Head
		if row := g.SearchRow(); row != nil {
			view.Head = view.Head[:len(view.Head)-1]
			view.Inputs = row.Inputs
		}
	}

	if isHTMX(r) {
		s.render(w, r, templates.TablePartial(view))
		return
	}
	s.render(w, r, templates.TablePage(view))
}

// handleListTables returns every registered table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := s.registry.All()
	out := make([]TableResponse, len(defs))
	for i, def := range defs {
		out[i] = TableResponse{
			ID:      def.Info.Key,
			Group:   def.Info.Group,
			Label:   def.Info.Label,
			Variant: string(def.Info.Variant),
			URL:     templates.TableURL(def.Info.Key),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDraw answers a server-side draw request.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.enhance(r.Context(), id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	req := parseDrawRequest(r.URL.Query(), g.Options().PageLength)
	res, err := req.apply(g)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, DrawResponse{
		Draw:            req.Draw,
		RecordsTotal:    res.RecordsTotal,
		RecordsFiltered: res.RecordsFiltered,
		Data:            res.Rows,
	})
}

// enhance reads the table and attaches the grid preset for its variant.
func (s *Server) enhance(ctx context.Context, id string) (*grid.Grid, error) {
	t, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	variant := core.VariantFilter
	if def, ok := s.registry.Get(id); ok {
		variant = def.Info.Variant
	}
	return grid.Enhance(t, s.preset(variant)), nil
}

func (s *Server) preset(v core.Variant) grid.Options {
	if v == core.VariantToolbar {
		return grid.ToolbarPreset(s.cfg.Grid.ToolbarPageLength)
	}
	return grid.FilterPreset(s.cfg.Grid.FilterPageLength)
}

// render writes an HTML component, logging failures after headers are sent.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}
