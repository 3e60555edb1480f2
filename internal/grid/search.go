package grid

import "github.com/JonMunkholm/spreadtable/internal/core"

// SearchPrefix is prepended to a column title to form its input placeholder.
const SearchPrefix = "🔍 "

// SearchRow is the header copy holding one search input per column.
type SearchRow struct {
	Inputs []*SearchInput
}

// SearchInput is a text input bound to one column's search.
type SearchInput struct {
	Index       int
	Title       string
	Placeholder string

	column *Column
}

func newSearchRow(g *Grid) *SearchRow {
	row := &SearchRow{Inputs: make([]*SearchInput, len(g.titles))}
	for i, title := range g.titles {
		row.Inputs[i] = &SearchInput{
			Index:       i,
			Title:       title,
			Placeholder: SearchPrefix + title,
			column:      g.Column(i),
		}
	}
	return row
}

// Value returns the search value currently applied to the input's column.
func (in *SearchInput) Value() string {
	return in.column.SearchValue()
}

// Input handles a keyup or change event carrying the input's new value.
// The column is searched and the grid redrawn only when the value differs
// from the column's current search. Reports whether a draw happened.
func (in *SearchInput) Input(value string) bool {
	if in.column.SearchValue() == value {
		return false
	}
	in.column.Search(value).Draw()
	return true
}

// cells renders the row as header cells for the enhanced table copy.
// The placeholder is carried as the cell's text.
func (r *SearchRow) cells() []core.Cell {
	out := make([]core.Cell, len(r.Inputs))
	for i, in := range r.Inputs {
		out[i] = core.Cell{Text: in.Placeholder, Header: true}
	}
	return out
}
