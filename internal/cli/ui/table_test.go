package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "NAME", "KIND")
	table.DisableColor()

	table.AddRow("id", "@id")
	table.AddRow("displayName", "alias")
	table.Render()

	output := buf.String()
	for _, want := range []string{"NAME", "KIND", "id", "@id", "displayName", "alias"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator, and 2 rows; got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("expected a separator line, got %q", lines[1])
	}
}

func TestTableColumnAlignment(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "A", "B")
	table.DisableColor()

	table.AddRow("short", "x")
	table.AddRow("much-longer-cell", "y")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	xCol := strings.Index(lines[2], "x")
	yCol := strings.Index(lines[3], "y")
	if xCol != yCol {
		t.Errorf("second column misaligned: %d vs %d", xCol, yCol)
	}
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).Render()
	if buf.Len() != 0 {
		t.Errorf("headerless table should render nothing, got %q", buf.String())
	}
}
