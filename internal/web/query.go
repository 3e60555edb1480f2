package web

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/spreadtable/internal/grid"
)

// Page state arrives as search, columns[i], order, dir and page. The draw
// endpoint uses the grid library's server-side parameters instead.
var (
	columnParam       = regexp.MustCompile(`^columns\[(\d+)\]$`)
	drawColumnParam   = regexp.MustCompile(`^columns\[(\d+)\]\[search\]\[value\]$`)
	drawOrderColParam = regexp.MustCompile(`^order\[(\d+)\]\[column\]$`)
)

// viewState is the grid state requested by a page load.
type viewState struct {
	Search  string
	Columns map[int]string
	Order   []grid.Order
	Page    int
}

func parseViewState(q url.Values) viewState {
	st := viewState{
		Search:  q.Get("search"),
		Columns: make(map[int]string),
		Page:    queryInt(q, "page", 0),
	}
	for key, vals := range q {
		m := columnParam.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		if i, err := strconv.Atoi(m[1]); err == nil {
			st.Columns[i] = vals[0]
		}
	}
	if col := q.Get("order"); col != "" {
		if i, err := strconv.Atoi(col); err == nil {
			st.Order = []grid.Order{{Column: i, Dir: q.Get("dir")}}
		}
	}
	return st
}

// apply drives g the way the page controls would: column inputs first,
// then the global search, ordering and page.
func (st viewState) apply(g *grid.Grid) grid.DrawResult {
	if row := g.SearchRow(); row != nil {
		for _, in := range row.Inputs {
			in.Input(st.Columns[in.Index])
		}
	} else {
		for i, v := range st.Columns {
			_ = g.SearchColumn(i, v)
		}
	}
	g.Search(st.Search)
	if st.Order != nil {
		g.Order(st.Order...)
	}
	g.Page(st.Page)
	return g.Draw()
}

// drawRequest holds the server-side processing parameters of one draw.
type drawRequest struct {
	Draw    int
	Start   int
	Length  int
	Search  string
	Columns map[int]string
	Order   []grid.Order
}

func parseDrawRequest(q url.Values, defaultLength int) drawRequest {
	req := drawRequest{
		Draw:    queryInt(q, "draw", 0),
		Start:   queryInt(q, "start", 0),
		Length:  queryInt(q, "length", defaultLength),
		Search:  q.Get("search[value]"),
		Columns: make(map[int]string),
	}

	type orderKey struct {
		k   int
		ord grid.Order
	}
	var keys []orderKey
	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		if m := drawColumnParam.FindStringSubmatch(key); m != nil {
			if i, err := strconv.Atoi(m[1]); err == nil && vals[0] != "" {
				req.Columns[i] = vals[0]
			}
			continue
		}
		if m := drawOrderColParam.FindStringSubmatch(key); m != nil {
			k, err1 := strconv.Atoi(m[1])
			col, err2 := strconv.Atoi(vals[0])
			if err1 == nil && err2 == nil {
				dir := q.Get("order[" + m[1] + "][dir]")
				keys = append(keys, orderKey{k: k, ord: grid.Order{Column: col, Dir: dir}})
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].k < keys[j].k })
	for _, k := range keys {
		req.Order = append(req.Order, k.ord)
	}
	return req
}

// apply runs the request against g.
func (req drawRequest) apply(g *grid.Grid) (grid.DrawResult, error) {
	for i, v := range req.Columns {
		if err := g.SearchColumn(i, v); err != nil {
			return grid.DrawResult{}, err
		}
	}
	g.Search(req.Search)
	if req.Order != nil {
		g.Order(req.Order...)
	}
	if req.Length < 0 {
		g.PageLength(0)
	} else if req.Length > 0 {
		g.PageLength(req.Length)
		g.Page(req.Start / req.Length)
	}
	return g.Draw(), nil
}

func queryInt(q url.Values, name string, def int) int {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
