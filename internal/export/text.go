package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes the header and rows as comma separated values.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var clipboardReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// WriteTSV writes the header and rows as tab separated lines, the format
// spreadsheets accept when pasting. Tabs and newlines inside values become
// spaces.
func WriteTSV(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	writeLine := func(values []string) {
		for i, v := range values {
			if i > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(clipboardReplacer.Replace(v))
		}
		bw.WriteByte('\n')
	}
	if len(header) > 0 {
		writeLine(header)
	}
	for _, row := range rows {
		writeLine(row)
	}
	return bw.Flush()
}
