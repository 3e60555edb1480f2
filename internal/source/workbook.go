package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

// WorkbookSource reads a table from a worksheet. The file is opened on every
// lookup.
type WorkbookSource struct {
	Path       string
	Sheet      string // First sheet when empty
	HeaderRows int    // Leading rows treated as header
}

// NewWorkbookSource creates a source with one header row.
func NewWorkbookSource(path, sheet string) *WorkbookSource {
	return &WorkbookSource{Path: path, Sheet: sheet, HeaderRows: 1}
}

// Lookup implements core.TableSource. A sheet that does not exist reports
// core.ErrTableNotFound.
func (s *WorkbookSource) Lookup(ctx context.Context, id string) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q in %s", core.ErrTableNotFound, sheet, s.Path)
	}

	t, err := ReadSheet(f, sheet, s.HeaderRows)
	if err != nil {
		return nil, err
	}
	t.ID = id
	return t, nil
}

// ReadSheet converts a worksheet into a table. Displayed values become cell
// text. When the stored value differs from the displayed one, dates are
// typed as dates and numbers keep the stored value so exports stay numeric.
// Merged ranges become spans.
func ReadSheet(f *excelize.File, sheet string, headerRows int) (*core.Table, error) {
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	width := 0
	for _, r := range shown {
		if len(r) > width {
			width = len(r)
		}
	}

	grid := make([][]core.Cell, len(shown))
	for r, row := range shown {
		grid[r] = make([]core.Cell, width)
		for c := 0; c < width; c++ {
			cell := core.Cell{Header: r < headerRows}
			if c < len(row) {
				cell.Text = core.NormalizeText(row[c])
			}
			if r < len(raw) && c < len(raw[r]) {
				rv := raw[r][c]
				switch {
				case rv == "" || rv == cell.Text:
				case isDateText(cell.Text):
					cell.Type = core.CellDate
				case isNumeric(rv):
					cell.Value = rv
					cell.Type = core.CellNumber
				}
			}
			grid[r][c] = cell
		}
	}

	covered, err := applyMerges(f, sheet, grid, headerRows)
	if err != nil {
		return nil, err
	}

	t := &core.Table{}
	for r, row := range grid {
		var out []core.Cell
		for c, cell := range row {
			if !covered[[2]int{r, c}] {
				out = append(out, cell)
			}
		}
		if out == nil {
			out = []core.Cell{}
		}
		if r < headerRows {
			t.Head = append(t.Head, out)
		} else {
			t.Body = append(t.Body, out)
		}
	}
	return t, nil
}

// applyMerges sets spans on the top-left cell of each merged range and
// returns the positions the ranges cover. Ranges are cut at the header/body
// boundary and at the sheet's used area.
func applyMerges(f *excelize.File, sheet string, grid [][]core.Cell, headerRows int) (map[[2]int]bool, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("read merges %s: %w", sheet, err)
	}

	covered := make(map[[2]int]bool)
	for _, m := range merges {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			return nil, err
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			return nil, err
		}
		r1, c1, r2, c2 = r1-1, c1-1, r2-1, c2-1
		if r1 >= len(grid) || c1 >= len(grid[r1]) {
			continue
		}
		if r2 >= len(grid) {
			r2 = len(grid) - 1
		}
		if r1 < headerRows && r2 >= headerRows {
			r2 = headerRows - 1
		}
		if c2 >= len(grid[r1]) {
			c2 = len(grid[r1]) - 1
		}

		grid[r1][c1].ColSpan = c2 - c1 + 1
		grid[r1][c1].RowSpan = r2 - r1 + 1
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				if r != r1 || c != c1 {
					covered[[2]int{r, c}] = true
				}
			}
		}
	}
	return covered, nil
}

func isDateText(s string) bool {
	_, ok := core.ParseDate(s)
	return ok
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
