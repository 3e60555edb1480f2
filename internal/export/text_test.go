package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Bond", "Spread"}, [][]string{
		{"BRA 5 30", "1,250"},
		{`say "hi"`, "3"},
	})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "Bond,Spread\nBRA 5 30,\"1,250\"\n\"say \"\"hi\"\"\",3\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTSV(&buf, []string{"Bond", "Note"}, [][]string{{"A", "two\nlines\tand tab"}})
	if err != nil {
		t.Fatalf("WriteTSV() error = %v", err)
	}
	want := "Bond\tNote\nA\ttwo lines and tab\n"
	if buf.String() != want {
		t.Errorf("WriteTSV() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	_ = WriteTSV(&buf, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("WriteTSV() with nothing = %q, want empty", buf.String())
	}
}

func TestPrintHTML(t *testing.T) {
	out, err := PrintHTML("Resumo <DI>", []string{"Bond"}, [][]string{{"<b>A</b>"}})
	if err != nil {
		t.Fatalf("PrintHTML() error = %v", err)
	}
	html := string(out)
	for _, want := range []string{"<title>Resumo &lt;DI&gt;</title>", "<th>Bond</th>", "<td>&lt;b&gt;A&lt;/b&gt;</td>", "1 rows"} {
		if !strings.Contains(html, want) {
			t.Errorf("PrintHTML() missing %q", want)
		}
	}
}
