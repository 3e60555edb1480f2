package grid

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

type sortKind int

const (
	kindString sortKind = iota
	kindNumber
	kindDate
)

// detectKinds classifies each column from its non-empty cells: numeric when
// every value parses as a number, date when every value parses as a date,
// string otherwise.
func detectKinds(rows [][]string, width int) []sortKind {
	kinds := make([]sortKind, width)
	for c := 0; c < width; c++ {
		numeric, date, seen := true, true, false
		for _, row := range rows {
			if c >= len(row) || row[c] == "" {
				continue
			}
			seen = true
			if numeric {
				_, numeric = core.ParseNumber(row[c])
			}
			if date {
				_, date = core.ParseDate(row[c])
			}
			if !numeric && !date {
				break
			}
		}
		switch {
		case !seen:
			kinds[c] = kindString
		case numeric:
			kinds[c] = kindNumber
		case date:
			kinds[c] = kindDate
		}
	}
	return kinds
}

// sortIndexes orders row indexes by the grid's sort keys. The sort is
// stable, so rows that compare equal keep document order.
func (g *Grid) sortIndexes(idx []int) {
	if len(g.order) == 0 {
		return
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := g.rows[idx[a]], g.rows[idx[b]]
		for _, o := range g.order {
			c := compareCells(cellAt(ra, o.Column), cellAt(rb, o.Column), g.kinds[o.Column])
			if c == 0 {
				continue
			}
			if o.Dir == Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// compareCells compares two cell values of the given kind. Empty values
// sort before everything else.
func compareCells(a, b string, kind sortKind) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}

	switch kind {
	case kindNumber:
		fa, _ := core.ParseNumber(a)
		fb, _ := core.ParseNumber(b)
		return cmpFloat(fa, fb)
	case kindDate:
		ta, _ := core.ParseDate(a)
		tb, _ := core.ParseDate(b)
		return ta.Compare(tb)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
