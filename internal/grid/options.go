package grid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Default page lengths for the two presets.
const (
	DefaultFilterPageLength  = 50
	DefaultToolbarPageLength = 20
)

// Toolbar buttons understood by the client-side grid.
const (
	ButtonCopy  = "copyHtml5"
	ButtonExcel = "excelHtml5"
	ButtonCSV   = "csvHtml5"
	ButtonPDF   = "pdfHtml5"
	ButtonPrint = "print"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Order is one sort key. It encodes as the two-element array [column, "dir"].
type Order struct {
	Column int
	Dir    string
}

// MarshalJSON implements json.Marshaler.
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{o.Column, normalizeDir(o.Dir)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("order: want [column, dir], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &o.Column); err != nil {
		return fmt.Errorf("order column: %w", err)
	}
	var dir string
	if err := json.Unmarshal(raw[1], &dir); err != nil {
		return fmt.Errorf("order dir: %w", err)
	}
	o.Dir = normalizeDir(dir)
	return nil
}

func normalizeDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), Desc) {
		return Desc
	}
	return Asc
}

// Options are the grid initialisation options. Field names follow the
// client-side library so the struct can be handed to the init script as is.
type Options struct {
	OrderCellsTop bool     `json:"orderCellsTop,omitempty"` // Add a per-column search row under the header
	FixedHeader   bool     `json:"fixedHeader,omitempty"`
	ScrollX       bool     `json:"scrollX,omitempty"`
	PageLength    int      `json:"pageLength,omitempty"` // Zero or less shows every row
	Dom           string   `json:"dom,omitempty"`        // Control layout, e.g. "Bfrtip"
	Buttons       []string `json:"buttons,omitempty"`
	Order         []Order  `json:"order,omitempty"`
}

// FilterPreset returns the options for a grid with per-column search inputs.
func FilterPreset(pageLength int) Options {
	return Options{
		OrderCellsTop: true,
		FixedHeader:   true,
		ScrollX:       true,
		PageLength:    pageLength,
	}
}

// ToolbarPreset returns the options for a grid with the export toolbar,
// sorted descending on the first column.
func ToolbarPreset(pageLength int) Options {
	return Options{
		Dom:        "Bfrtip",
		Buttons:    []string{ButtonCopy, ButtonExcel, ButtonCSV, ButtonPDF, ButtonPrint},
		PageLength: pageLength,
		ScrollX:    true,
		Order:      []Order{{Column: 0, Dir: Desc}},
	}
}

// HasToolbar reports whether the layout string includes the button control.
func (o Options) HasToolbar() bool {
	return strings.Contains(o.Dom, "B") && len(o.Buttons) > 0
}

// HasSearchBox reports whether the global search control is shown.
// An empty layout uses the library default, which includes it.
func (o Options) HasSearchBox() bool {
	return o.Dom == "" || strings.Contains(o.Dom, "f")
}

// JSON encodes the options for the client-side init script.
func (o Options) JSON() string {
	b, err := json.Marshal(o)
	if err != nil {
		return "{}"
	}
	return string(b)
}
