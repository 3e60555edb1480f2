package export

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// recorder captures alerts and saved workbooks.
type recorder struct {
	mu     sync.Mutex
	alerts []string
	saves  []savedFile
}

type savedFile struct {
	filename string
	sheets   []string
	rows     [][]string
	exportID string
}

func (r *recorder) Alert(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
	return nil
}

func (r *recorder) Save(ctx context.Context, filename string, wb *excelize.File) error {
	sheets := wb.GetSheetList()
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, savedFile{
		filename: filename,
		sheets:   sheets,
		rows:     rows,
		exportID: ExportIDFromContext(ctx),
	})
	return nil
}

func summarySource() *core.StaticSource {
	return core.NewStaticSource(core.NewTable("summaryTable",
		[]string{"Month", "Bond", "Spread"},
		[][]string{
			{"Jan", "BRA 5 30", "120"},
			{"Feb", "BRA 5 30", "95"},
			{"Jan", "PETR 6 31", "101"},
			{"Mar", "VALE 4 29", "88"},
			{"Jan", "PETR 6 31", "76"},
		}))
}

func newTestExporter(src core.TableSource) (*Exporter, *recorder) {
	rec := &recorder{}
	return &Exporter{Source: src, Alerter: rec, Saver: rec}, rec
}

func TestExport_MissingTableAlertsOnce(t *testing.T) {
	exp, rec := newTestExporter(summarySource())

	if err := exp.Export(context.Background(), "nonexistent", "x.xlsx"); err != nil {
		t.Fatalf("Export() error = %v, want nil", err)
	}
	if !reflect.DeepEqual(rec.alerts, []string{"Tabela não carregada ainda."}) {
		t.Errorf("alerts = %v, want exactly one missing-table alert", rec.alerts)
	}
	if len(rec.saves) != 0 {
		t.Errorf("saves = %d, want 0", len(rec.saves))
	}
}

func TestExport_MissingTableCustomMessage(t *testing.T) {
	exp, rec := newTestExporter(summarySource())
	exp.Defaults.MissingTableMessage = "Table not loaded yet."

	if err := exp.Export(context.Background(), "nonexistent", ""); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(rec.alerts) != 1 || rec.alerts[0] != "Table not loaded yet." {
		t.Errorf("alerts = %v", rec.alerts)
	}
}

func TestExport_Filenames(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		defaults Defaults
		want     string
	}{
		{name: "given name", filename: "spreads.xlsx", want: "spreads.xlsx"},
		{name: "extension appended", filename: "spreads", want: "spreads.xlsx"},
		{name: "default", filename: "", want: "ResumoSpreads.xlsx"},
		{name: "configured default", filename: "", defaults: Defaults{Filename: "table.xlsx"}, want: "table.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, rec := newTestExporter(summarySource())
			exp.Defaults = tt.defaults

			if err := exp.Export(context.Background(), "summaryTable", tt.filename); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			if len(rec.saves) != 1 {
				t.Fatalf("saves = %d, want 1", len(rec.saves))
			}
			if got := rec.saves[0].filename; got != tt.want {
				t.Errorf("filename = %q, want %q", got, tt.want)
			}
			if len(rec.alerts) != 0 {
				t.Errorf("alerts = %v, want none", rec.alerts)
			}
		})
	}
}

func TestExport_WorkbookContents(t *testing.T) {
	exp, rec := newTestExporter(summarySource())

	if err := exp.Export(context.Background(), "summaryTable", ""); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	saved := rec.saves[0]
	if !reflect.DeepEqual(saved.sheets, []string{"Resumo"}) {
		t.Errorf("sheets = %v, want [Resumo]", saved.sheets)
	}
	if len(saved.rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(saved.rows))
	}
	if !reflect.DeepEqual(saved.rows[0], []string{"Month", "Bond", "Spread"}) {
		t.Errorf("header = %v", saved.rows[0])
	}
	if saved.exportID == "" {
		t.Error("export id not passed to saver")
	}
}

func TestExport_Idempotent(t *testing.T) {
	exp, rec := newTestExporter(summarySource())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := exp.Export(ctx, "summaryTable", "a.xlsx"); err != nil {
			t.Fatalf("Export() #%d error = %v", i+1, err)
		}
	}
	if len(rec.saves) != 2 {
		t.Fatalf("saves = %d, want 2", len(rec.saves))
	}
	if !reflect.DeepEqual(rec.saves[0].rows, rec.saves[1].rows) {
		t.Errorf("workbooks differ:\n%v\n%v", rec.saves[0].rows, rec.saves[1].rows)
	}
	if rec.saves[0].exportID == rec.saves[1].exportID {
		t.Error("each export should get its own id")
	}
}

func TestExport_ReadsCurrentContents(t *testing.T) {
	src := summarySource()
	exp, rec := newTestExporter(src)
	ctx := context.Background()

	_ = exp.Export(ctx, "summaryTable", "")
	src.Put(core.NewTable("summaryTable", []string{"Month"}, [][]string{{"Dec"}}))
	_ = exp.Export(ctx, "summaryTable", "")

	if got := len(rec.saves[1].rows); got != 2 {
		t.Errorf("rows after update = %d, want 2", got)
	}
}

func TestExport_EmptyTable(t *testing.T) {
	exp, rec := newTestExporter(core.NewStaticSource(&core.Table{ID: "empty"}))

	if err := exp.Export(context.Background(), "empty", ""); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	saved := rec.saves[0]
	if len(saved.sheets) != 1 || saved.sheets[0] != "Resumo" {
		t.Errorf("sheets = %v", saved.sheets)
	}
	if len(saved.rows) != 0 {
		t.Errorf("rows = %v, want none", saved.rows)
	}
}

func TestExport_PropagatesErrors(t *testing.T) {
	srcErr := errors.New("connection refused")
	exp, rec := newTestExporter(core.SourceFunc(func(context.Context, string) (*core.Table, error) {
		return nil, srcErr
	}))

	err := exp.Export(context.Background(), "summaryTable", "")
	if !errors.Is(err, srcErr) {
		t.Errorf("Export() error = %v, want wrapped source error", err)
	}
	if len(rec.alerts) != 0 {
		t.Error("source failures must not alert")
	}

	saveErr := errors.New("disk full")
	exp = &Exporter{
		Source: summarySource(),
		Saver: SaverFunc(func(context.Context, string, *excelize.File) error {
			return saveErr
		}),
	}
	if err := exp.Export(context.Background(), "summaryTable", ""); !errors.Is(err, saveErr) {
		t.Errorf("Export() error = %v, want wrapped save error", err)
	}
}

func TestExport_NilAlerter(t *testing.T) {
	exp := &Exporter{Source: summarySource()}
	if err := exp.Export(context.Background(), "nonexistent", ""); err != nil {
		t.Errorf("Export() error = %v", err)
	}
}

func TestExport_AlertFailure(t *testing.T) {
	exp := &Exporter{
		Source: summarySource(),
		Alerter: AlerterFunc(func(context.Context, string) error {
			return errors.New("client gone")
		}),
	}
	if err := exp.Export(context.Background(), "nonexistent", ""); err == nil {
		t.Error("Export() should report a failed alert")
	}
}

func TestExport_LimiterBusy(t *testing.T) {
	limiter := core.NewExportLimiter(1, 10*time.Millisecond)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	exp, rec := newTestExporter(summarySource())
	exp.Limiter = limiter

	err := exp.Export(context.Background(), "summaryTable", "")
	if !errors.Is(err, core.ErrTooManyExports) {
		t.Errorf("Export() error = %v, want ErrTooManyExports", err)
	}
	if len(rec.saves) != 0 {
		t.Error("busy export should not save")
	}
}

func TestRun_Result(t *testing.T) {
	exp, _ := newTestExporter(summarySource())

	res, err := exp.Run(context.Background(), "summaryTable", "out")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Filename != "out.xlsx" || res.Rows != 5 || res.ID == "" {
		t.Errorf("Run() = %+v", res)
	}

	res, err = exp.Run(context.Background(), "nonexistent", "")
	if err != nil || res != nil {
		t.Errorf("Run(nonexistent) = %v, %v; want nil, nil", res, err)
	}
}
