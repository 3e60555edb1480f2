package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/export"
	"github.com/JonMunkholm/spreadtable/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// downloadSaver streams the workbook as the response body, keeping a copy
// in store first when one is configured.
type downloadSaver struct {
	w       http.ResponseWriter
	store   *export.DirSaver
	started bool
}

func (d *downloadSaver) Save(ctx context.Context, filename string, wb *excelize.File) error {
	if d.store != nil {
		if err := d.store.Save(ctx, filename, wb); err != nil {
			return err
		}
	}

	h := d.w.Header()
	h.Set("Content-Type", xlsxContentType)
	h.Set("Content-Disposition", export.ContentDisposition(filename))
	if id := export.ExportIDFromContext(ctx); id != "" {
		h.Set("X-Export-ID", id)
	}
	d.started = true
	return export.WriterSaver{W: d.w}.Save(ctx, filename, wb)
}

func (s *Server) exportDefaults() export.Defaults {
	return export.Defaults{
		Filename:            s.cfg.Export.DefaultFilename,
		Sheet:               s.cfg.Export.SheetName,
		MissingTableMessage: s.cfg.Export.MissingTableMessage,
	}
}

func (s *Server) missingTableMessage() string {
	if s.cfg.Export.MissingTableMessage != "" {
		return s.cfg.Export.MissingTableMessage
	}
	return core.MissingTableMessage
}

// handleExport downloads the table as a workbook. A table that is not
// loaded yields an alert instead of a file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := WithRequestMetadata(r.Context(), r)

	saver := &downloadSaver{w: w, store: s.store}
	ex := &export.Exporter{
		Source: s.registry,
		Alerter: export.AlerterFunc(func(_ context.Context, message string) error {
			respondAlert(w, r, message)
			return nil
		}),
		Saver:    saver,
		Defaults: s.exportDefaults(),
		Limiter:  s.limiter,
	}

	if err := ex.Export(ctx, id, r.URL.Query().Get("filename")); err != nil {
		if saver.started {
			// Headers are gone; all that is left is the log line.
			logging.FromContext(ctx).Error("export interrupted", "table", id, "error", err)
			return
		}
		respondError(w, r, err, statusFor(err))
	}
}

// tableData reads the rows a toolbar button acts on: every row matching the
// request's search, in its order, unpaged. It answers the request itself
// and reports false when there is nothing to act on.
func (s *Server) tableData(w http.ResponseWriter, r *http.Request) (label string, header []string, rows [][]string, ok bool) {
	id := chi.URLParam(r, "id")
	g, err := s.enhance(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrTableNotFound) {
			respondAlert(w, r, s.missingTableMessage())
		} else {
			respondError(w, r, err, statusFor(err))
		}
		return "", nil, nil, false
	}

	g.PageLength(0)
	res := parseViewState(r.URL.Query()).apply(g)

	label = id
	if def, found := s.registry.Get(id); found {
		label = def.Info.Label
	}
	return label, g.Columns(), res.Rows, true
}

// handleCopy returns tab separated text for the clipboard.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	_, header, rows, ok := s.tableData(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := export.WriteTSV(w, header, rows); err != nil {
		logging.FromContext(r.Context()).Error("write copy text", "error", err)
	}
}

// handleCSV downloads the rows as CSV.
func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	_, header, rows, ok := s.tableData(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = s.cfg.Export.DefaultFilename
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", export.ContentDisposition(export.WithExtension(name, ".csv")))
	if err := export.WriteCSV(w, header, rows); err != nil {
		logging.FromContext(r.Context()).Error("write csv", "error", err)
	}
}

// handlePrint renders a print-ready page.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	label, header, rows, ok := s.tableData(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.WritePrintHTML(w, label, header, rows); err != nil {
		logging.FromContext(r.Context()).Error("write print page", "error", err)
	}
}

// handlePDF renders the print page to PDF through the shared browser.
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	label, header, rows, ok := s.tableData(w, r)
	if !ok {
		return
	}
	page, err := export.PrintHTML(label, header, rows)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	var pdf []byte
	render := func() error {
		var rerr error
		pdf, rerr = s.pdf.RenderPDF(r.Context(), page)
		return rerr
	}
	if s.limiter != nil {
		err = s.limiter.Do(r.Context(), render)
	} else {
		err = render()
	}
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	name := r.URL.Query().Get("filename")
	if name == "" {
		name = s.cfg.Export.DefaultFilename
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", export.ContentDisposition(export.WithExtension(name, ".pdf")))
	if _, err := w.Write(pdf); err != nil {
		logging.FromContext(r.Context()).Error("write pdf", "error", err)
	}
}
