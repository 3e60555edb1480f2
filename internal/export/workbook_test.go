package export

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

func groupedTable() *core.Table {
	return &core.Table{
		ID: "grouped",
		Head: [][]core.Cell{
			{{Text: "Bond", RowSpan: 2, Header: true}, {Text: "Spread (bp)", ColSpan: 2, Header: true}},
			{{Text: "Jan", Header: true}, {Text: "Feb", Header: true}},
		},
		Body: [][]core.Cell{
			{{Text: "BRA 5 30"}, {Text: "1,250.5"}, {Text: "(3)"}},
			{{Text: "00123", Type: core.CellString}, {Text: "12%", Value: "0.12", Type: core.CellNumber}, {Text: "yes", Type: core.CellBool}},
			{{Text: "2024-01-15", Type: core.CellDate}, {Text: ""}, {Text: "n/a"}},
		},
		Foot: [][]core.Cell{
			{{Text: "Total", ColSpan: 2}, {Text: "3"}},
		},
	}
}

func mustWorkbook(t *testing.T, tbl *core.Table, sheet string) *excelize.File {
	t.Helper()
	wb, err := NewWorkbook(tbl, sheet)
	if err != nil {
		t.Fatalf("NewWorkbook() error = %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func isNumberCell(t *testing.T, wb *excelize.File, sheet, axis string) bool {
	t.Helper()
	typ, err := wb.GetCellType(sheet, axis)
	if err != nil {
		t.Fatalf("GetCellType(%s) error = %v", axis, err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString || typ == excelize.CellTypeBool {
		return false
	}
	raw, err := wb.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s) error = %v", axis, err)
	}
	_, err = strconv.ParseFloat(raw, 64)
	return err == nil
}

func TestNewWorkbook_Merges(t *testing.T) {
	wb := mustWorkbook(t, groupedTable(), "")

	merges, err := wb.GetMergeCells("Resumo")
	if err != nil {
		t.Fatalf("GetMergeCells() error = %v", err)
	}
	var got []string
	for _, m := range merges {
		got = append(got, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	want := map[string]bool{"A1:A2": true, "B1:C1": true, "A6:B6": true}
	if len(got) != len(want) {
		t.Fatalf("merges = %v, want %v", got, want)
	}
	for _, g := range got {
		if !want[g] {
			t.Errorf("unexpected merge %s", g)
		}
	}

	if v, _ := wb.GetCellValue("Resumo", "B2"); v != "Jan" {
		t.Errorf("B2 = %q, want Jan", v)
	}
	if v, _ := wb.GetCellValue("Resumo", "C6"); v != "3" {
		t.Errorf("C6 = %q, want 3", v)
	}
}

func TestNewWorkbook_CellTypes(t *testing.T) {
	wb := mustWorkbook(t, groupedTable(), "Resumo")
	const sheet = "Resumo"

	numbers := []string{"B3", "C3", "B4"}
	for _, axis := range numbers {
		if !isNumberCell(t, wb, sheet, axis) {
			t.Errorf("%s should be numeric", axis)
		}
	}
	for _, axis := range []string{"A3", "A4", "C5"} {
		if isNumberCell(t, wb, sheet, axis) {
			t.Errorf("%s should be text", axis)
		}
	}

	if v, _ := wb.GetCellValue(sheet, "A4"); v != "00123" {
		t.Errorf("A4 = %q, want leading zeros kept", v)
	}
	raw, _ := wb.GetCellValue(sheet, "C3", excelize.Options{RawCellValue: true})
	if raw != "-3" {
		t.Errorf("C3 raw = %q, want -3", raw)
	}
	raw, _ = wb.GetCellValue(sheet, "B4", excelize.Options{RawCellValue: true})
	if raw != "0.12" {
		t.Errorf("B4 raw = %q, want data-v value 0.12", raw)
	}
	if typ, _ := wb.GetCellType(sheet, "C4"); typ != excelize.CellTypeBool {
		t.Errorf("C4 type = %v, want bool", typ)
	}
	if v, _ := wb.GetCellValue(sheet, "A5"); v != "2024-01-15" {
		t.Errorf("A5 = %q, want formatted date", v)
	}
}

func TestNewWorkbook_RowOrder(t *testing.T) {
	wb := mustWorkbook(t, core.NewTable("t", []string{"A", "B"}, [][]string{{"x", "1"}, {"y", "2"}}), "")
	rows, err := wb.GetRows("Resumo")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"A", "B"}, {"x", "1"}, {"y", "2"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "Resumo"},
		{"Spreads", "Spreads"},
		{"DI/IPCA [2024]", "DI IPCA (2024)"},
		{"'quoted'", "quoted"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := SheetName(tt.input); got != tt.want {
			t.Errorf("SheetName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	wb := mustWorkbook(t, &core.Table{}, "DI/IPCA")
	if got := wb.GetSheetList(); !reflect.DeepEqual(got, []string{"DI IPCA"}) {
		t.Errorf("sheets = %v", got)
	}
}
