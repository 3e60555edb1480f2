package core

import (
	"context"
	"errors"
	"strings"
)

// ErrTableNotFound is returned by a TableSource when no table carries the
// requested identifier. It is the only condition the export path reports
// to the user instead of propagating.
var ErrTableNotFound = errors.New("table not found")

// TableSource is the injected replacement for a page's document: anything
// that can produce the current contents of a table by its identifier.
// Implementations must return a fresh read on every call.
type TableSource interface {
	Lookup(ctx context.Context, id string) (*Table, error)
}

// SourceFunc adapts a function to the TableSource interface.
type SourceFunc func(ctx context.Context, id string) (*Table, error)

// Lookup calls f(ctx, id).
func (f SourceFunc) Lookup(ctx context.Context, id string) (*Table, error) {
	return f(ctx, id)
}

// CellType is the spreadsheet type hint for a cell.
type CellType string

const (
	CellAuto   CellType = ""  // Infer from text
	CellString CellType = "s" // Force text
	CellNumber CellType = "n" // Numeric
	CellBool   CellType = "b" // Boolean
	CellDate   CellType = "d" // Date
)

// Cell is a single table cell as it appears in markup.
type Cell struct {
	Text    string   // Rendered text content (whitespace collapsed)
	Value   string   // Optional raw value (data-v); overrides Text for typing
	Type    CellType // Optional type hint (data-t)
	ColSpan int      // Zero or one means no span
	RowSpan int      // Zero or one means no span
	Header  bool     // True for <th> cells
}

// Span returns the normalized column and row span (at least 1 each).
func (c Cell) Span() (cols, rows int) {
	cols, rows = c.ColSpan, c.RowSpan
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// Raw returns the value used for typing: Value if set, otherwise Text.
func (c Cell) Raw() string {
	if c.Value != "" {
		return c.Value
	}
	return c.Text
}

// Table is a snapshot of tabular markup: header, body and footer row groups.
type Table struct {
	ID   string
	Head [][]Cell
	Body [][]Cell
	Foot [][]Cell
}

// NewTable builds a simple table from a header and string rows.
func NewTable(id string, header []string, rows [][]string) *Table {
	t := &Table{ID: id}
	if len(header) > 0 {
		hr := make([]Cell, len(header))
		for i, h := range header {
			hr[i] = Cell{Text: h, Header: true}
		}
		t.Head = [][]Cell{hr}
	}
	for _, r := range rows {
		br := make([]Cell, len(r))
		for i, v := range r {
			br[i] = Cell{Text: v}
		}
		t.Body = append(t.Body, br)
	}
	return t
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	return &Table{
		ID:   t.ID,
		Head: cloneRows(t.Head),
		Body: cloneRows(t.Body),
		Foot: cloneRows(t.Foot),
	}
}

func cloneRows(rows [][]Cell) [][]Cell {
	if rows == nil {
		return nil
	}
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		out[i] = append([]Cell(nil), r...)
	}
	return out
}

// Rows returns all row groups in document order: head, body, foot.
func (t *Table) Rows() [][]Cell {
	out := make([][]Cell, 0, len(t.Head)+len(t.Body)+len(t.Foot))
	out = append(out, t.Head...)
	out = append(out, t.Body...)
	out = append(out, t.Foot...)
	return out
}

// Columns returns the column titles. Titles come from the last header row
// after laying the header out on a grid, so cells spanning several columns or
// reaching down from an upper row title every column they cover.
// Tables without a header fall back to the widest body row with empty titles.
func (t *Table) Columns() []string {
	cols := make([]string, t.Width())
	if len(t.Head) == 0 {
		return cols
	}
	grid := expandGroup(t.Head)
	leaf := grid[len(grid)-1]
	for i := 0; i < len(leaf) && i < len(cols); i++ {
		cols[i] = leaf[i].Text
	}
	return cols
}

// Width returns the number of grid columns after expanding colspans.
func (t *Table) Width() int {
	width := 0
	for _, grid := range [][][]Cell{t.Head, t.Body, t.Foot} {
		for _, r := range expandGroup(grid) {
			if len(r) > width {
				width = len(r)
			}
		}
	}
	return width
}

// Matrix returns the body as a rectangular grid of text values, with
// colspan/rowspan areas filled by the spanning cell's text.
func (t *Table) Matrix() [][]string {
	expanded := expandGroup(t.Body)
	width := t.Width()
	out := make([][]string, len(expanded))
	for i, r := range expanded {
		row := make([]string, width)
		for j := 0; j < width && j < len(r); j++ {
			row[j] = r[j].Text
		}
		out[i] = row
	}
	return out
}

// expandGroup lays a row group out on a grid, copying spanning cells into
// every slot they cover.
func expandGroup(rows [][]Cell) [][]Cell {
	var grid [][]Cell
	occupied := map[[2]int]bool{}
	for r, row := range rows {
		for len(grid) <= r {
			grid = append(grid, nil)
		}
		c := 0
		for _, cell := range row {
			for occupied[[2]int{r, c}] {
				c++
			}
			cols, rs := cell.Span()
			for dr := 0; dr < rs && r+dr < len(rows); dr++ {
				for len(grid) <= r+dr {
					grid = append(grid, nil)
				}
				for dc := 0; dc < cols; dc++ {
					occupied[[2]int{r + dr, c + dc}] = true
					line := grid[r+dr]
					for len(line) <= c+dc {
						line = append(line, Cell{})
					}
					line[c+dc] = cell
					grid[r+dr] = line
				}
			}
			c += cols
		}
	}
	return grid
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key     string  // Element identifier: "summaryTable"
	Group   string  // Dashboard group: "DI", "IPCA"
	Label   string  // Display name
	Variant Variant // Grid flavour used when the page is rendered
}

// Variant selects how a table is enhanced.
type Variant string

const (
	VariantFilter  Variant = "filter"  // Per-column search inputs
	VariantToolbar Variant = "toolbar" // Copy/export/print toolbar
)

// ParseVariant converts a string into a Variant, defaulting to VariantFilter.
func ParseVariant(s string) Variant {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantToolbar:
		return VariantToolbar
	default:
		return VariantFilter
	}
}

// TableDefinition binds a table's display information to its source.
type TableDefinition struct {
	Info   TableInfo
	Source TableSource
}
