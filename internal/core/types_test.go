package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func spreadTable() *Table {
	return &Table{
		ID: "summaryTable",
		Head: [][]Cell{
			{{Text: "Bond", RowSpan: 2, Header: true}, {Text: "Spread (bp)", ColSpan: 2, Header: true}},
			{{Text: "Jan", Header: true}, {Text: "Feb", Header: true}},
		},
		Body: [][]Cell{
			{{Text: "A"}, {Text: "120"}, {Text: "118"}},
			{{Text: "B", RowSpan: 2}, {Text: "95"}, {Text: "97"}},
			{{Text: "101"}, {Text: "99"}},
		},
	}
}

func TestTable_Width(t *testing.T) {
	if got := spreadTable().Width(); got != 3 {
		t.Errorf("Width() = %d, want 3", got)
	}

	empty := &Table{}
	if got := empty.Width(); got != 0 {
		t.Errorf("Width() of empty table = %d, want 0", got)
	}
}

func TestTable_Columns(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  []string
	}{
		{
			name:  "simple header",
			table: NewTable("t", []string{"Bond", "Jan", "Feb"}, nil),
			want:  []string{"Bond", "Jan", "Feb"},
		},
		{
			name: "colspan in leaf row",
			table: &Table{
				Head: [][]Cell{{{Text: "Bond"}, {Text: "Spread", ColSpan: 2}}},
			},
			want: []string{"Bond", "Spread", "Spread"},
		},
		{
			name:  "rowspan from upper header row",
			table: spreadTable(),
			want:  []string{"Bond", "Jan", "Feb"},
		},
		{
			name:  "no header",
			table: NewTable("t", nil, [][]string{{"a", "b"}}),
			want:  []string{"", ""},
		},
		{
			name:  "short header padded to body width",
			table: NewTable("t", []string{"Bond"}, [][]string{{"a", "b"}}),
			want:  []string{"Bond", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Columns()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Columns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTable_Matrix(t *testing.T) {
	got := spreadTable().Matrix()
	want := [][]string{
		{"A", "120", "118"},
		{"B", "95", "97"},
		{"B", "101", "99"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Matrix() = %v, want %v", got, want)
	}
}

func TestTable_Clone(t *testing.T) {
	orig := spreadTable()
	c := orig.Clone()
	c.Body[0][0].Text = "changed"

	if orig.Body[0][0].Text != "A" {
		t.Errorf("Clone() shares cells with original")
	}
	if (*Table)(nil).Clone() != nil {
		t.Errorf("Clone() of nil table should be nil")
	}
}

func TestTable_Rows(t *testing.T) {
	tbl := spreadTable()
	tbl.Foot = [][]Cell{{{Text: "Total"}}}
	if got := len(tbl.Rows()); got != 6 {
		t.Errorf("len(Rows()) = %d, want 6", got)
	}
}

func TestCell_Span(t *testing.T) {
	cols, rows := Cell{}.Span()
	if cols != 1 || rows != 1 {
		t.Errorf("Span() = (%d, %d), want (1, 1)", cols, rows)
	}
	cols, rows = Cell{ColSpan: 3, RowSpan: 2}.Span()
	if cols != 3 || rows != 2 {
		t.Errorf("Span() = (%d, %d), want (3, 2)", cols, rows)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input string
		want  Variant
	}{
		{"toolbar", VariantToolbar},
		{" Toolbar ", VariantToolbar},
		{"filter", VariantFilter},
		{"", VariantFilter},
		{"unknown", VariantFilter},
	}
	for _, tt := range tests {
		if got := ParseVariant(tt.input); got != tt.want {
			t.Errorf("ParseVariant(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(_ context.Context, id string) (*Table, error) {
		if id != "x" {
			return nil, ErrTableNotFound
		}
		return &Table{ID: id}, nil
	})

	if _, err := src.Lookup(context.Background(), "y"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Lookup(y) error = %v, want ErrTableNotFound", err)
	}
	tbl, err := src.Lookup(context.Background(), "x")
	if err != nil || tbl.ID != "x" {
		t.Errorf("Lookup(x) = %v, %v", tbl, err)
	}
}
