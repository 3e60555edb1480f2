package export

import (
	"bytes"
	"html/template"
	"io"
	"time"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4 landscape; margin: 12mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10px; color: #111; }
  h1 { font-size: 14px; margin: 0 0 8px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #999; padding: 3px 5px; text-align: left; }
  th { background: #eee; }
  tr { page-break-inside: avoid; }
  .meta { color: #666; margin-bottom: 8px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.Generated}} &middot; {{len .Rows}} rows</div>
<table>
{{- if .Header}}
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
{{- end}}
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

type printData struct {
	Title     string
	Generated string
	Header    []string
	Rows      [][]string
}

// WritePrintHTML renders a standalone, print-ready HTML page holding the
// header and rows.
func WritePrintHTML(w io.Writer, title string, header []string, rows [][]string) error {
	return printTemplate.Execute(w, printData{
		Title:     title,
		Generated: time.Now().Format("2006-01-02 15:04"),
		Header:    header,
		Rows:      rows,
	})
}

// PrintHTML is WritePrintHTML into a byte slice.
func PrintHTML(title string, header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePrintHTML(&buf, title, header, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
