package grid

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFilterPreset(t *testing.T) {
	got := FilterPreset(50).JSON()
	want := `{"orderCellsTop":true,"fixedHeader":true,"scrollX":true,"pageLength":50}`
	if got != want {
		t.Errorf("JSON() = %s, want %s", got, want)
	}
}

func TestToolbarPreset(t *testing.T) {
	got := ToolbarPreset(20).JSON()
	want := `{"scrollX":true,"pageLength":20,"dom":"Bfrtip","buttons":["copyHtml5","excelHtml5","csvHtml5","pdfHtml5","print"],"order":[[0,"desc"]]}`
	if got != want {
		t.Errorf("JSON() = %s, want %s", got, want)
	}

	opts := ToolbarPreset(20)
	if !opts.HasToolbar() || !opts.HasSearchBox() {
		t.Errorf("HasToolbar/HasSearchBox = %v/%v, want true/true", opts.HasToolbar(), opts.HasSearchBox())
	}
	if FilterPreset(50).HasToolbar() {
		t.Error("filter preset should not have a toolbar")
	}
}

func TestOrder_UnmarshalJSON(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"order":[[2,"DESC"],[0,"asc"]]}`), &opts); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := []Order{{Column: 2, Dir: Desc}, {Column: 0, Dir: Asc}}
	if !reflect.DeepEqual(opts.Order, want) {
		t.Errorf("Order = %v, want %v", opts.Order, want)
	}

	bad := []string{`{"order":[[1]]}`, `{"order":[["x","asc"]]}`, `{"order":[[1,2]]}`}
	for _, in := range bad {
		if err := json.Unmarshal([]byte(in), &opts); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}
