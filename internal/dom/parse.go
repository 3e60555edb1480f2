package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// Parse parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ElementByID returns the first element in document order whose id
// attribute equals id, or nil.
func ElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := ElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// TableIDs lists the id of every table element in the document that has one.
func TableIDs(n *html.Node) []string {
	var ids []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			if id := attr(n, "id"); id != "" {
				ids = append(ids, id)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return ids
}

// TableByID finds the table with the given id and converts it.
// Returns core.ErrTableNotFound when no element has that id or the element
// is not a table.
func TableByID(doc *html.Node, id string) (*core.Table, error) {
	el := ElementByID(doc, id)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrTableNotFound, id)
	}
	if el.DataAtom != atom.Table {
		return nil, fmt.Errorf("%w: #%s is <%s>", core.ErrTableNotFound, id, el.Data)
	}
	t := ParseTable(el)
	t.ID = id
	return t, nil
}

// ParseTable converts a <table> element into a core.Table.
//
// Rows under <thead> become the header and rows under <tfoot> the footer.
// When a table has no <thead>, leading body rows made only of <th> cells are
// promoted to the header. Nested tables are treated as cell text.
func ParseTable(el *html.Node) *core.Table {
	t := &core.Table{ID: attr(el, "id")}

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Thead:
			t.Head = append(t.Head, parseRows(c)...)
		case atom.Tbody:
			t.Body = append(t.Body, parseRows(c)...)
		case atom.Tfoot:
			t.Foot = append(t.Foot, parseRows(c)...)
		case atom.Tr:
			t.Body = append(t.Body, parseRow(c))
		}
	}

	if len(t.Head) == 0 {
		n := 0
		for n < len(t.Body) && allHeader(t.Body[n]) {
			n++
		}
		t.Head, t.Body = t.Body[:n:n], t.Body[n:]
		if len(t.Head) == 0 {
			t.Head = nil
		}
	}
	return t
}

func parseRows(group *html.Node) [][]core.Cell {
	var rows [][]core.Cell
	for c := group.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Tr {
			rows = append(rows, parseRow(c))
		}
	}
	return rows
}

func parseRow(tr *html.Node) []core.Cell {
	row := []core.Cell{}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom != atom.Td && c.DataAtom != atom.Th {
			continue
		}
		row = append(row, core.Cell{
			Text:    core.NormalizeText(textContent(c)),
			Value:   attr(c, "data-v"),
			Type:    cellType(attr(c, "data-t")),
			ColSpan: span(attr(c, "colspan")),
			RowSpan: span(attr(c, "rowspan")),
			Header:  c.DataAtom == atom.Th,
		})
	}
	return row
}

func allHeader(row []core.Cell) bool {
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if !c.Header {
			return false
		}
	}
	return true
}

// textContent concatenates the text below n. <br> separates lines and
// script/style contents are skipped.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				b.WriteByte(' ')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func span(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func cellType(v string) core.CellType {
	switch core.CellType(strings.ToLower(strings.TrimSpace(v))) {
	case core.CellString:
		return core.CellString
	case core.CellNumber:
		return core.CellNumber
	case core.CellBool:
		return core.CellBool
	case core.CellDate:
		return core.CellDate
	}
	return core.CellAuto
}
