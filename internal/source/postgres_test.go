package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

type fakeRows struct {
	fields []string
	rows   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) Scan(...any) error             { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.fields))
	for i, f := range r.fields {
		out[i] = pgconn.FieldDescription{Name: f}
	}
	return out
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

type fakeDB struct {
	rows  *fakeRows
	err   error
	query string
}

func (db *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	db.query = sql
	if db.err != nil {
		return nil, db.err
	}
	return db.rows, nil
}

func TestPostgresSource_Lookup(t *testing.T) {
	rows := &fakeRows{
		fields: []string{"ticker", "maturity", "spread"},
		rows: [][]any{
			{"BRXYZ", pgtype.Date{Time: time.Date(2030, 1, 30, 0, 0, 0, 0, time.UTC), Valid: true}, float64(120)},
			{"BRABC", nil, 95.25},
		},
	}
	db := &fakeDB{rows: rows}
	src := NewPostgresSource(db, "SELECT ticker, maturity, spread FROM bonds")

	tbl, err := src.Lookup(context.Background(), "bondUniverse")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if db.query != "SELECT ticker, maturity, spread FROM bonds" {
		t.Errorf("query = %q", db.query)
	}
	if !rows.closed {
		t.Error("rows were not closed")
	}

	if got := tbl.Columns(); len(got) != 3 || got[2] != "spread" {
		t.Errorf("Columns() = %v", got)
	}
	want := [][]string{
		{"BRXYZ", "2030-01-30", "120"},
		{"BRABC", "", "95.25"},
	}
	for r, row := range want {
		for c, text := range row {
			if got := tbl.Body[r][c].Text; got != text {
				t.Errorf("Body[%d][%d] = %q, want %q", r, c, got, text)
			}
		}
	}
}

func TestPostgresSource_UndefinedTable(t *testing.T) {
	db := &fakeDB{err: &pgconn.PgError{Code: "42P01", Message: `relation "bonds" does not exist`}}

	_, err := NewPostgresSource(db, "SELECT * FROM bonds").Lookup(context.Background(), "bonds")
	if !errors.Is(err, core.ErrTableNotFound) {
		t.Errorf("Lookup() error = %v, want ErrTableNotFound", err)
	}
}

func TestPostgresSource_QueryError(t *testing.T) {
	db := &fakeDB{err: errors.New("dial tcp: connection refused")}

	_, err := NewPostgresSource(db, "SELECT 1").Lookup(context.Background(), "q")
	if err == nil {
		t.Fatal("Lookup() error = nil, want error")
	}
	if errors.Is(err, core.ErrTableNotFound) {
		t.Error("connection failure should not be a missing table")
	}
	if got := core.MapError(err).Code; got != "SRC004" {
		t.Errorf("MapError code = %s, want SRC004", got)
	}
}

func TestPostgresSource_RowsError(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{fields: []string{"a"}, err: errors.New("connection reset by peer")}}

	_, err := NewPostgresSource(db, "SELECT a").Lookup(context.Background(), "q")
	if err == nil {
		t.Fatal("Lookup() error = nil, want error")
	}
}

func TestCellFromValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name     string
		value    any
		wantText string
		wantType core.CellType
	}{
		{"nil", nil, "", core.CellAuto},
		{"string", "BRXYZ", "BRXYZ", core.CellString},
		{"int64", int64(42), "42", core.CellNumber},
		{"int32", int32(-7), "-7", core.CellNumber},
		{"whole float", float64(120), "120", core.CellNumber},
		{"fractional float", 95.256, "95.26", core.CellNumber},
		{"true", true, "Yes", core.CellBool},
		{"false", false, "No", core.CellBool},
		{"pg bool", pgtype.Bool{Bool: true, Valid: true}, "Yes", core.CellBool},
		{"pg text", pgtype.Text{String: "IPCA", Valid: true}, "IPCA", core.CellString},
		{"null pg text", pgtype.Text{}, "", core.CellAuto},
		{"null pg date", pgtype.Date{}, "", core.CellAuto},
		{"date only time", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024-01-15", core.CellDate},
		{"timestamp", time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), "2024-01-15 09:30:00", core.CellDate},
		{"uuid bytes", [16]byte(id), id.String(), core.CellString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellFromValue(tt.value)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestCellFromValue_Numeric(t *testing.T) {
	var n pgtype.Numeric
	if err := n.Scan("1234.5"); err != nil {
		t.Fatal(err)
	}
	got := CellFromValue(n)
	if got.Text != "1234.50" || got.Type != core.CellNumber {
		t.Errorf("CellFromValue(numeric) = %+v, want 1234.50 number", got)
	}
}
