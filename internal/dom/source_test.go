package dom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

func TestFileSource_RereadsOnEveryLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(summaryPage), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	ctx := context.Background()

	tbl, err := src.Lookup(ctx, "summaryTable")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(tbl.Body) != 5 {
		t.Fatalf("len(Body) = %d, want 5", len(tbl.Body))
	}

	updated := `<table id="summaryTable"><tr><th>Bond</th></tr><tr><td>Z</td></tr></table>`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err = src.Lookup(ctx, "summaryTable")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(tbl.Body) != 1 || tbl.Body[0][0].Text != "Z" {
		t.Errorf("Lookup() after rewrite = %+v", tbl.Body)
	}

	ids, err := src.IDs()
	if err != nil || len(ids) != 1 {
		t.Errorf("IDs() = %v, %v", ids, err)
	}
}

func TestFileSource_Errors(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.html"))
	_, err := src.Lookup(context.Background(), "summaryTable")
	if err == nil {
		t.Fatal("Lookup() on missing file should fail")
	}
	if errors.Is(err, core.ErrTableNotFound) {
		t.Error("a missing file is a read error, not a missing table")
	}
	if got := core.MapError(err).Code; got != "SRC001" {
		t.Errorf("MapError code = %q, want SRC001", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Lookup(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Lookup() with canceled ctx error = %v", err)
	}
}

func TestDocumentSource(t *testing.T) {
	src := NewDocumentSource([]byte(`<p>loading</p>`))
	ctx := context.Background()

	if _, err := src.Lookup(ctx, "summaryTable"); !errors.Is(err, core.ErrTableNotFound) {
		t.Errorf("Lookup() before load error = %v, want ErrTableNotFound", err)
	}

	src.SetMarkup([]byte(summaryPage))
	if _, err := src.Lookup(ctx, "summaryTable"); err != nil {
		t.Errorf("Lookup() after load error = %v", err)
	}
}

func TestFileSource_WindowsExport(t *testing.T) {
	// BOM plus a Latin-1 byte in a cell, as saved by older spreadsheet tools.
	page := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`<table id="ipcaTable"><tr><th>M`)...)
	page = append(page, 0xEA)
	page = append(page, []byte(`s</th></tr><tr><td>Jan</td></tr></table>`)...)

	path := filepath.Join(t.TempDir(), "ipca.html")
	if err := os.WriteFile(path, page, 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := NewFileSource(path).Lookup(context.Background(), "ipcaTable")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got := tbl.Columns(); len(got) != 1 || got[0] != "M?s" {
		t.Errorf("Columns() = %q, want [M?s]", got)
	}
}
