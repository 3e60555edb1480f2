package grid

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

func column(res DrawResult, i int) []string {
	out := make([]string, len(res.Rows))
	for r, row := range res.Rows {
		out[r] = row[i]
	}
	return out
}

func TestGrid_OrderNumeric(t *testing.T) {
	g := Enhance(summaryTable(), Options{})

	res := g.Order(Order{Column: 2, Dir: Asc}).Draw()
	want := []string{"88", "95", "101", "120", "1,076"}
	if got := column(res, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("ascending = %v, want %v", got, want)
	}

	res = g.Order(Order{Column: 2, Dir: "DESC"}).Draw()
	want = []string{"1,076", "120", "101", "95", "88"}
	if got := column(res, 2); !reflect.DeepEqual(got, want) {
		t.Errorf("descending = %v, want %v", got, want)
	}
}

func TestGrid_OrderMultiColumnStable(t *testing.T) {
	g := Enhance(summaryTable(), Options{})

	res := g.Order(Order{Column: 1, Dir: Asc}, Order{Column: 2, Dir: Desc}).Draw()
	want := [][]string{
		{"Jan/24", "BRA 5 30", "120"},
		{"Feb/24", "BRA 5 30", "95"},
		{"jan/26", "PETR 6 31", "1,076"},
		{"Jan/25", "PETR 6 31", "101"},
		{"Mar/24", "VALE 4 29", "88"},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}

	// Equal keys keep document order.
	res = g.Order(Order{Column: 1, Dir: Asc}).Draw()
	if res.Indexes[0] != 0 || res.Indexes[1] != 1 {
		t.Errorf("Indexes = %v, want stable order", res.Indexes)
	}
}

func TestGrid_OrderDropsUnknownColumns(t *testing.T) {
	g := Enhance(summaryTable(), Options{})
	g.Order(Order{Column: 5}, Order{Column: -1}, Order{Column: 0, Dir: "sideways"})

	got := g.Ordering()
	want := []Order{{Column: 0, Dir: Asc}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ordering() = %v, want %v", got, want)
	}
}

func TestGrid_OrderDates(t *testing.T) {
	tbl := core.NewTable("d", []string{"Date"}, [][]string{
		{"2024-03-01"}, {"2023-12-31"}, {""}, {"2024-01-15"},
	})
	res := Enhance(tbl, Options{}).Order(Order{Column: 0, Dir: Asc}).Draw()
	want := []string{"", "2023-12-31", "2024-01-15", "2024-03-01"}
	if got := column(res, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("dates = %v, want %v", got, want)
	}
}

func TestDetectKinds(t *testing.T) {
	rows := [][]string{
		{"1", "2024-01-01", "abc", "", "5"},
		{"(2.5)", "01/02/2024", "10", "", "x"},
	}
	got := detectKinds(rows, 5)
	want := []sortKind{kindNumber, kindDate, kindString, kindString, kindString}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("detectKinds() = %v, want %v", got, want)
	}
}

func TestCompareCells_StringIgnoresCase(t *testing.T) {
	if c := compareCells("apple", "Banana", kindString); c >= 0 {
		t.Errorf("compareCells(apple, Banana) = %d, want < 0", c)
	}
	if c := compareCells("", "a", kindString); c != -1 {
		t.Errorf("empty should sort first, got %d", c)
	}
}
