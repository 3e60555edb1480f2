package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/spreadtable/internal/config"
	"github.com/JonMunkholm/spreadtable/internal/source"
)

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	page := `<table id="summaryTable"><tr><th>Bond</th></tr><tr><td>A</td></tr></table>`
	if err := os.WriteFile(filepath.Join(dir, "summary.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}
	manifest := "tables:\n  - id: summaryTable\n    group: DI\n    path: summary.html\n"
	path := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(context.Background(), &config.Config{}, path)
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}
	defer tables.Close()

	if tables.Pool != nil {
		t.Error("Pool should be nil without query tables")
	}
	if got := tables.Registry.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	tbl, err := tables.Registry.Lookup(context.Background(), "summaryTable")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(tbl.Body) != 1 {
		t.Errorf("len(Body) = %d, want 1", len(tbl.Body))
	}
}

func TestLoadTables_QueryWithoutDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte("tables:\n  - id: q\n    query: SELECT 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadTables(context.Background(), &config.Config{}, path)
	if !errors.Is(err, source.ErrNoDatabase) {
		t.Errorf("LoadTables() error = %v, want ErrNoDatabase", err)
	}
}

func TestOpenDatabase_BadURL(t *testing.T) {
	_, err := OpenDatabase(context.Background(), config.DatabaseConfig{URL: "postgres://%zz", MaxConns: 1})
	if err == nil {
		t.Fatal("OpenDatabase() error = nil, want error")
	}
}
