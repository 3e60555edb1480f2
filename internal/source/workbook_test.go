package source

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// writeSummaryWorkbook saves a sheet with a two-row header:
//
//	| Bond | Spread    |
//	|      | Jan | Feb |
func writeSummaryWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Resumo"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatal(err)
	}
	values := map[string]interface{}{
		"A1": "Bond", "B1": "Spread",
		"B2": "Jan", "C2": "Feb",
		"A3": "BRXYZ", "B3": 120, "C3": 0.125,
		"A4": "BRABC", "B4": 95.5, "C4": 0.5,
	}
	for cell, v := range values {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, r := range [][2]string{{"A1", "A2"}, {"B1", "C1"}} {
		if err := f.MergeCell(sheet, r[0], r[1]); err != nil {
			t.Fatal(err)
		}
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "C3", "C4", pct); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWorkbookSource_Lookup(t *testing.T) {
	path := writeSummaryWorkbook(t)
	src := &WorkbookSource{Path: path, Sheet: "Resumo", HeaderRows: 2}

	tbl, err := src.Lookup(context.Background(), "summaryTable")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if tbl.ID != "summaryTable" {
		t.Errorf("ID = %q, want summaryTable", tbl.ID)
	}
	if got, want := tbl.Columns(), []string{"Bond", "Jan", "Feb"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if len(tbl.Head) != 2 {
		t.Fatalf("len(Head) = %d, want 2", len(tbl.Head))
	}
	if cols, rows := tbl.Head[0][0].Span(); cols != 1 || rows != 2 {
		t.Errorf("Bond span = %dx%d, want 1x2", cols, rows)
	}
	if cols, _ := tbl.Head[0][1].Span(); cols != 2 {
		t.Errorf("Spread colspan = %d, want 2", cols)
	}
	if !tbl.Head[1][0].Header {
		t.Error("second header row should be header cells")
	}

	if len(tbl.Body) != 2 {
		t.Fatalf("len(Body) = %d, want 2", len(tbl.Body))
	}
	pct := tbl.Body[0][2]
	if pct.Text != "12.50%" {
		t.Errorf("percent text = %q, want 12.50%%", pct.Text)
	}
	if pct.Type != core.CellNumber || pct.Value != "0.125" {
		t.Errorf("percent cell = %+v, want numeric value 0.125", pct)
	}
	if got := core.CellValue(pct); got != 0.125 {
		t.Errorf("CellValue(percent) = %v, want 0.125", got)
	}
	if got := tbl.Body[1][1].Text; got != "95.5" {
		t.Errorf("plain number text = %q, want 95.5", got)
	}
}

func TestWorkbookSource_DefaultSheet(t *testing.T) {
	path := writeSummaryWorkbook(t)
	src := NewWorkbookSource(path, "")

	tbl, err := src.Lookup(context.Background(), "t")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(tbl.Head) != 1 {
		t.Errorf("len(Head) = %d, want 1", len(tbl.Head))
	}
	if len(tbl.Body) != 3 {
		t.Errorf("len(Body) = %d, want 3", len(tbl.Body))
	}
}

func TestWorkbookSource_MissingSheet(t *testing.T) {
	path := writeSummaryWorkbook(t)
	src := NewWorkbookSource(path, "Nope")

	_, err := src.Lookup(context.Background(), "t")
	if !errors.Is(err, core.ErrTableNotFound) {
		t.Errorf("Lookup() error = %v, want ErrTableNotFound", err)
	}
}

func TestWorkbookSource_MissingFile(t *testing.T) {
	src := NewWorkbookSource(filepath.Join(t.TempDir(), "gone.xlsx"), "")

	_, err := src.Lookup(context.Background(), "t")
	if err == nil {
		t.Fatal("Lookup() error = nil, want error")
	}
	if errors.Is(err, core.ErrTableNotFound) {
		t.Error("missing file should not be reported as a missing table")
	}
	if got := core.MapError(err).Code; got != "SRC001" {
		t.Errorf("MapError code = %s, want SRC001", got)
	}
}

func TestWorkbookSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbookSource("unused.xlsx", "").Lookup(ctx, "t")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Lookup() error = %v, want context.Canceled", err)
	}
}
