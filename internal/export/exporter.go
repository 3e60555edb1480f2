package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
	"github.com/JonMunkholm/spreadtable/internal/logging"
)

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(ctx context.Context, message string) error

// Alert calls f(ctx, message).
func (f AlerterFunc) Alert(ctx context.Context, message string) error { return f(ctx, message) }

// Saver delivers a finished workbook under the given file name.
type Saver interface {
	Save(ctx context.Context, filename string, wb *excelize.File) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, filename string, wb *excelize.File) error

// Save calls f(ctx, filename, wb).
func (f SaverFunc) Save(ctx context.Context, filename string, wb *excelize.File) error {
	return f(ctx, filename, wb)
}

// Defaults holds the values used when a call leaves them out.
type Defaults struct {
	Filename            string // Download name; DefaultFilename when empty
	Sheet               string // Worksheet name; DefaultSheetName when empty
	MissingTableMessage string // Alert text; core.MissingTableMessage when empty
}

func (d Defaults) withDefaults() Defaults {
	if d.Filename == "" {
		d.Filename = DefaultFilename
	}
	if d.Sheet == "" {
		d.Sheet = DefaultSheetName
	}
	if d.MissingTableMessage == "" {
		d.MissingTableMessage = core.MissingTableMessage
	}
	return d
}

// Exporter writes the current contents of a table to a workbook.
type Exporter struct {
	Source   core.TableSource
	Alerter  Alerter
	Saver    Saver
	Defaults Defaults

	// Limiter bounds concurrent workbook builds. Nil means unbounded.
	Limiter *core.ExportLimiter
}

// Result describes a saved export.
type Result struct {
	ID       string
	Filename string
	Rows     int
	Duration time.Duration
}

type exportIDKey struct{}

// ExportIDFromContext returns the id of the export being saved, for Savers
// that want to expose it.
func ExportIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(exportIDKey{}).(string)
	return id
}

// Export looks the table up, builds a workbook and saves it as filename
// (DefaultFilename when empty).
//
// When the table does not exist the user is alerted once, nothing is saved
// and Export returns nil. Every call reads the source again.
func (e *Exporter) Export(ctx context.Context, tableID, filename string) error {
	_, err := e.Run(ctx, tableID, filename)
	return err
}

// Run is Export that also reports what was saved. The result is nil when
// the table was missing.
func (e *Exporter) Run(ctx context.Context, tableID, filename string) (*Result, error) {
	d := e.Defaults.withDefaults()
	logger := logging.WithFields(ctx, "table", tableID)

	t, err := e.Source.Lookup(ctx, tableID)
	if err != nil {
		if errors.Is(err, core.ErrTableNotFound) {
			logger.Info("export skipped, table not loaded")
			if e.Alerter != nil {
				if aerr := e.Alerter.Alert(ctx, d.MissingTableMessage); aerr != nil {
					return nil, fmt.Errorf("alert: %w", aerr)
				}
			}
			return nil, nil
		}
		return nil, fmt.Errorf("lookup %s: %w", tableID, err)
	}

	if e.Limiter != nil {
		if err := e.Limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		defer e.Limiter.Release()
	}

	start := time.Now()
	res := &Result{
		ID:       uuid.New().String(),
		Filename: ResolveFilename(filename, d.Filename),
		Rows:     len(t.Body),
	}
	logger = logger.With("export_id", res.ID, "filename", res.Filename)

	wb, err := NewWorkbook(t, d.Sheet)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			logger.Warn("close workbook", "error", cerr)
		}
	}()

	ctx = context.WithValue(ctx, exportIDKey{}, res.ID)
	if err := e.Saver.Save(ctx, res.Filename, wb); err != nil {
		return nil, fmt.Errorf("save %s: %w", res.Filename, err)
	}

	res.Duration = time.Since(start)
	logger.Info("export saved",
		"rows", res.Rows,
		"duration_ms", res.Duration.Milliseconds(),
		"client_ip", core.IPAddressFromContext(ctx),
	)
	return res, nil
}
