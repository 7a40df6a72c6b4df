package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	table := NewTable(&buf, []string{"FIELD", "TYPE", "DEFAULT"}, &TableOptions{NoColor: true})
	table.AddRow("x", "int", "MISSING")
	table.AddRow("label", "string", `"origin"`)
	table.AddRow("short")

	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"FIELD  TYPE    DEFAULT",
		"─────  ──────  ────────",
		"x      int     MISSING",
		`label  string  "origin"`,
		"short          ",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, nil, nil)
	table.AddRow("ignored")
	table.Render()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Types", "3")
	kv.AddRow("Fixed layout", "1")
	kv.Render()

	want := "Types:        3\nFixed layout: 1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Point", true)
	if buf.String() != "Point\n─────\n" {
		t.Errorf("unexpected header %q", buf.String())
	}
}
