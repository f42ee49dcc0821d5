package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Headers: []string{"ID", "GRID", "SCORE"},
		Rows: [][]string{
			{"e1", "COMPREHENSIVE_RANKING", "470"},
			{"e2", "PROVINCIAL_RANKING", "85"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "csv"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q): %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat should reject unknown formats")
	}
}

func TestTextFormatterTable(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatText)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	if err := f.FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "SCORE") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "COMPREHENSIVE_RANKING") {
		t.Errorf("row line = %q", lines[1])
	}
}

func TestTextFormatterScalar(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{}

	if err := f.FormatTo(&buf, "done"); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if buf.String() != "done\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	if err := f.FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var decoded Table
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(decoded.Rows))
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter(FormatCSV)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	if err := f.FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	want := "ID,GRID,SCORE\ne1,COMPREHENSIVE_RANKING,470\ne2,PROVINCIAL_RANKING,85\n"
	if buf.String() != want {
		t.Errorf("csv output = %q, want %q", buf.String(), want)
	}
}

func TestCSVFormatterRejectsNonTable(t *testing.T) {
	f := &CSVFormatter{}
	if err := f.FormatTo(&bytes.Buffer{}, "scalar"); err == nil {
		t.Error("CSV formatter should reject non-tabular data")
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	cause := NewCommandError("inner", nil)
	err := NewCommandError("evaluate", cause)

	if !strings.Contains(err.Error(), "evaluate") {
		t.Errorf("error text = %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}
