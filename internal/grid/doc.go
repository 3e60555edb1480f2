// Package grid adds data-grid behaviour to a table: global and per-column
// search, multi-column sorting and paging.
//
// A grid is created from a table snapshot with [Enhance]. The filter preset
// also produces a [SearchRow], a copy of the header holding one search input
// per column. Typing into an input re-filters that column and redraws:
//
//	g := grid.Enhance(table, grid.FilterPreset(50))
//	g.SearchRow().Inputs[1].Input("Jan")
//	res := g.Current()
//
// The same contract is available directly through [Grid.Column]:
//
//	res := g.Column(1).Search("Jan").Draw()
//
// Column search is a case-insensitive substring match. The global search
// splits its value on whitespace and requires every word to appear somewhere
// in the row.
package grid
