package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "NAME", "KIND", "EXTENDS")

	table.AddRow("Shape", "object", "")
	table.AddRow("Circle", "object", "Shape")
	table.AddRow("Shared[Point]", "wrapper", "")

	if table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Len())
	}

	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d lines:\n%s", len(lines), buf.String())
	}

	if lines[0] != "NAME           KIND     EXTENDS" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "─────────────") {
		t.Errorf("expected separator line, got %q", lines[1])
	}
	if lines[3] != "Circle         object   Shape" {
		t.Errorf("unexpected row %q", lines[3])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected no escape codes when color is disabled")
	}
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true)
	table.AddRow("x")
	table.Render()

	if buf.Len() != 0 {
		t.Errorf("expected no output without headers, got %q", buf.String())
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"abc", 5, "abc  "},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
		{"ü", 2, "ü "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.expected {
			t.Errorf("padRight(%q, %d) = %q; want %q", tt.input, tt.width, got, tt.expected)
		}
	}
}
