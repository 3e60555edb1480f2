package grid

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// ErrColumnOutOfRange is returned when a column index does not exist.
var ErrColumnOutOfRange = errors.New("column out of range")

// Grid is an enhanced table. It owns a private copy of the table; the
// source table is never modified.
type Grid struct {
	mu sync.Mutex

	id     string
	opts   Options
	table  *core.Table
	titles []string
	rows   [][]string
	kinds  []sortKind

	colSearch []string
	search    string
	order     []Order
	page      int

	searchRow *SearchRow
	draws     int
	current   DrawResult
}

// DrawResult is the visible state of the grid after a draw.
type DrawResult struct {
	Draw            int        // Number of draws performed so far
	Rows            [][]string // Visible page
	Indexes         []int      // Body row index of each visible row
	RecordsTotal    int        // Body rows before filtering
	RecordsFiltered int        // Rows matching the search
	Page            int        // Zero-based page shown
	Pages           int        // Page count for the filtered rows
	PageLength      int        // Zero when every row is shown
}

// Enhance attaches grid behaviour to a copy of t.
//
// When opts.OrderCellsTop is set, the header of the copy gains a search row
// with one input per column. opts.Order becomes the initial sort. The grid
// is drawn once before it is returned.
func Enhance(t *core.Table, opts Options) *Grid {
	g := &Grid{
		id:    t.ID,
		opts:  opts,
		table: t.Clone(),
	}
	g.titles = g.table.Columns()
	g.order = validOrder(opts.Order, len(g.titles))
	g.rows = g.table.Matrix()
	g.colSearch = make([]string, len(g.titles))
	g.kinds = detectKinds(g.rows, len(g.titles))

	if opts.OrderCellsTop {
		g.searchRow = newSearchRow(g)
		g.table.Head = append(g.table.Head, g.searchRow.cells())
	}

	g.draw()
	return g
}

// ID returns the identifier of the enhanced table.
func (g *Grid) ID() string { return g.id }

// Options returns the options the grid was created with.
func (g *Grid) Options() Options { return g.opts }

// Columns returns the column titles.
func (g *Grid) Columns() []string {
	return append([]string(nil), g.titles...)
}

// Table returns a copy of the enhanced table, including the search row
// when one was added.
func (g *Grid) Table() *core.Table {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Clone()
}

// SearchRow returns the per-column search inputs, or nil when the grid was
// created without OrderCellsTop.
func (g *Grid) SearchRow() *SearchRow { return g.searchRow }

// Search sets the global search value. Call Draw to apply it.
func (g *Grid) Search(value string) *Grid {
	g.mu.Lock()
	g.search = value
	g.mu.Unlock()
	return g
}

// SearchValue returns the global search value.
func (g *Grid) SearchValue() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.search
}

// SearchColumn sets the search value of column i.
func (g *Grid) SearchColumn(i int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.colSearch) {
		return fmt.Errorf("%w: %d of %d", ErrColumnOutOfRange, i, len(g.colSearch))
	}
	g.colSearch[i] = value
	return nil
}

// Order replaces the sort keys. Keys naming a column that does not exist
// are dropped.
func (g *Grid) Order(keys ...Order) *Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.order = validOrder(keys, len(g.titles))
	return g
}

// validOrder keeps the keys that name one of width columns.
func validOrder(keys []Order, width int) []Order {
	var out []Order
	for _, k := range keys {
		if k.Column >= 0 && k.Column < width {
			out = append(out, Order{Column: k.Column, Dir: normalizeDir(k.Dir)})
		}
	}
	return out
}

// Ordering returns the current sort keys.
func (g *Grid) Ordering() []Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Order(nil), g.order...)
}

// Page selects the zero-based page shown by the next draw.
func (g *Grid) Page(n int) *Grid {
	g.mu.Lock()
	if n < 0 {
		n = 0
	}
	g.page = n
	g.mu.Unlock()
	return g
}

// PageLength changes the number of rows per page. Zero or less shows all rows.
func (g *Grid) PageLength(n int) *Grid {
	g.mu.Lock()
	g.opts.PageLength = n
	g.mu.Unlock()
	return g
}

// Draw applies search, ordering and paging and returns the result.
func (g *Grid) Draw() DrawResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draw()
}

// Current returns the result of the last draw without redrawing.
func (g *Grid) Current() DrawResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Draws returns how many times the grid has been drawn.
func (g *Grid) Draws() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draws
}

// Column returns a handle on column i. Handles on a column that does not
// exist accept calls but never filter anything.
func (g *Grid) Column(i int) *Column {
	return &Column{grid: g, index: i}
}

func (g *Grid) draw() DrawResult {
	idx := g.filter()
	g.sortIndexes(idx)

	res := DrawResult{
		RecordsTotal:    len(g.rows),
		RecordsFiltered: len(idx),
		PageLength:      g.opts.PageLength,
	}
	if res.PageLength < 0 {
		res.PageLength = 0
	}

	start, end := 0, len(idx)
	if res.PageLength > 0 {
		res.Pages = (len(idx) + res.PageLength - 1) / res.PageLength
		page := g.page
		if page >= res.Pages {
			page = res.Pages - 1
		}
		if page < 0 {
			page = 0
		}
		res.Page = page
		start = page * res.PageLength
		if end > start+res.PageLength {
			end = start + res.PageLength
		}
	} else if len(idx) > 0 {
		res.Pages = 1
	}

	res.Indexes = append([]int{}, idx[start:end]...)
	res.Rows = make([][]string, len(res.Indexes))
	for i, ri := range res.Indexes {
		res.Rows[i] = append([]string(nil), g.rows[ri]...)
	}

	g.draws++
	res.Draw = g.draws
	g.current = res
	return res
}

func (g *Grid) filter() []int {
	words := strings.Fields(strings.ToLower(g.search))
	cols := make([]string, len(g.colSearch))
	for i, v := range g.colSearch {
		cols[i] = strings.ToLower(v)
	}

	idx := make([]int, 0, len(g.rows))
	for ri, row := range g.rows {
		if matchRow(row, words, cols) {
			idx = append(idx, ri)
		}
	}
	return idx
}

func matchRow(row []string, words, cols []string) bool {
	for i, needle := range cols {
		if needle == "" {
			continue
		}
		if i >= len(row) || !strings.Contains(strings.ToLower(row[i]), needle) {
			return false
		}
	}
	if len(words) == 0 {
		return true
	}
	joined := strings.ToLower(strings.Join(row, " "))
	for _, w := range words {
		if !strings.Contains(joined, w) {
			return false
		}
	}
	return true
}

// Column is a handle on one grid column.
type Column struct {
	grid  *Grid
	index int
}

// Index returns the column index.
func (c *Column) Index() int { return c.index }

// Search sets the column's search value. Call Draw to apply it.
func (c *Column) Search(value string) *Column {
	_ = c.grid.SearchColumn(c.index, value)
	return c
}

// SearchValue returns the column's current search value.
func (c *Column) SearchValue() string {
	c.grid.mu.Lock()
	defer c.grid.mu.Unlock()
	if c.index < 0 || c.index >= len(c.grid.colSearch) {
		return ""
	}
	return c.grid.colSearch[c.index]
}

// Draw redraws the grid.
func (c *Column) Draw() DrawResult {
	return c.grid.Draw()
}
