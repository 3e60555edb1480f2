package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/spreadtable/internal/core"
)

const (
	// DefaultSheetName is the sheet name used when none is given.
	DefaultSheetName = "Resumo"

	maxSheetNameLen   = 31
	defaultDateFormat = "yyyy-mm-dd"
)

var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// SheetName makes name usable as a worksheet name: forbidden characters are
// replaced and the result is cut to 31 characters. Empty names become
// DefaultSheetName.
func SheetName(name string) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		return DefaultSheetName
	}
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}
	return name
}

type workbookStyles struct {
	header     int
	date       int
	headerDate int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	dateFmt := defaultDateFormat

	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, err
	}
	if s.headerDate, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &dateFmt}); err != nil {
		return s, err
	}
	return s, nil
}

// NewWorkbook builds a single-sheet workbook from the table's header, body
// and footer rows. Cells spanning several rows or columns are written to
// their top-left position and merged. The caller must Close the workbook.
func NewWorkbook(t *core.Table, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet = SheetName(sheet)
	if current := f.GetSheetName(0); current != sheet {
		if err := f.SetSheetName(current, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("build workbook: rename sheet: %w", err)
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("build workbook: styles: %w", err)
	}

	row := 0
	for _, group := range [][][]core.Cell{t.Head, t.Body, t.Foot} {
		if row, err = writeGroup(f, sheet, group, row, styles); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("build workbook: %w", err)
		}
	}
	return f, nil
}

// writeGroup lays out one row group starting at zero-based sheet row start
// and returns the first row after it. Row spans do not cross groups.
func writeGroup(f *excelize.File, sheet string, rows [][]core.Cell, start int, styles workbookStyles) (int, error) {
	occupied := map[[2]int]bool{}

	for r, cells := range rows {
		c := 0
		for _, cell := range cells {
			for occupied[[2]int{r, c}] {
				c++
			}
			cols, span := cell.Span()
			if r+span > len(rows) {
				span = len(rows) - r
			}
			for dr := 0; dr < span; dr++ {
				for dc := 0; dc < cols; dc++ {
					occupied[[2]int{r + dr, c + dc}] = true
				}
			}

			topLeft, err := excelize.CoordinatesToCellName(c+1, start+r+1)
			if err != nil {
				return 0, err
			}
			if err := writeCell(f, sheet, topLeft, cell, styles); err != nil {
				return 0, err
			}
			if cols > 1 || span > 1 {
				bottomRight, err := excelize.CoordinatesToCellName(c+cols, start+r+span)
				if err != nil {
					return 0, err
				}
				if err := f.MergeCell(sheet, topLeft, bottomRight); err != nil {
					return 0, fmt.Errorf("merge %s:%s: %w", topLeft, bottomRight, err)
				}
			}
			c += cols
		}
	}
	return start + len(rows), nil
}

func writeCell(f *excelize.File, sheet, axis string, cell core.Cell, styles workbookStyles) error {
	value := core.CellValue(cell)
	if s, ok := value.(string); ok && s == "" {
		if cell.Header {
			return f.SetCellStyle(sheet, axis, axis, styles.header)
		}
		return nil
	}
	if err := f.SetCellValue(sheet, axis, value); err != nil {
		return fmt.Errorf("set cell %s: %w", axis, err)
	}

	style := 0
	_, isDate := value.(time.Time)
	switch {
	case cell.Header && isDate:
		style = styles.headerDate
	case cell.Header:
		style = styles.header
	case isDate:
		style = styles.date
	}
	if style != 0 {
		return f.SetCellStyle(sheet, axis, axis, style)
	}
	return nil
}
