package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name        string
		opts        ErrorOptions
		contains    []string
		notContains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "type not found",
				Problem: "Cannot find record type 'Pont'.",
			},
			contains: []string{
				"❌ TYPE NOT FOUND: Cannot find record type 'Pont'.",
				"   Cannot find record type 'Pont'.",
			},
		},
		{
			name: "multi-line problem",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "DECLARATION FAILED",
				Problem: "R100 Bad.b: non-default argument\n  hint: reorder",
			},
			contains: []string{
				"DECLARATION FAILED: R100 Bad.b: non-default argument\n",
				"\n     hint: reorder",
			},
		},
		{
			name: "hint and suggestions",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Problem:     "unknown base",
				Hint:        "declare bases first",
				Suggestions: []string{"Point", "Point3"},
			},
			contains: []string{
				"Hint: declare bases first",
				"Did you mean: Point, Point3?",
			},
		},
		{
			name: "help commands",
			opts: ErrorOptions{
				Level:        ErrorLevelError,
				Problem:      "failed",
				HelpCommands: []string{"Get help: records --help"},
			},
			contains: []string{"→ Get help: records --help"},
		},
		{
			name: "warning",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "type is unhashable",
			},
			contains:    []string{"⚠️ type is unhashable"},
			notContains: []string{"❌", "Did you mean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			result := FormatError(tt.opts)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, result)
				}
			}
			for _, unexpected := range tt.notContains {
				if strings.Contains(result, unexpected) {
					t.Errorf("expected output not to contain %q, got:\n%s", unexpected, result)
				}
			}
		})
	}
}

func TestWriteErrorAndSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	if !strings.Contains(buf.String(), "❌ boom") {
		t.Errorf("unexpected error output: %q", buf.String())
	}

	buf.Reset()
	WriteSuccess(&buf, "3 record types declared", true)
	if buf.String() != "✓ 3 record types declared\n" {
		t.Errorf("unexpected success output: %q", buf.String())
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		contains []string
	}{
		{
			name:   "type not found",
			output: TypeNotFoundError("Pont", "shapes.yaml", []string{"Point"}, true),
			contains: []string{
				"TYPE NOT FOUND",
				"Cannot find record type 'Pont' in shapes.yaml.",
				"Did you mean: Point?",
				"records check shapes.yaml",
			},
		},
		{
			name:   "declaration",
			output: DeclarationError("R101 A.b: missing default", "add a default", nil, true),
			contains: []string{
				"DECLARATION FAILED",
				"No record types after the failing one were declared.",
				"Hint: add a default",
			},
		},
		{
			name:   "construction",
			output: ConstructionError("Point", "(x int, y int = 0)", "missing 1 required argument(s): x", true),
			contains: []string{
				"CONSTRUCTION FAILED",
				"Hint: Point takes (x int, y int = 0)",
				"records fields FILE Point",
			},
		},
		{
			name:     "config",
			output:   ConfigError("invalid configuration", nil, true),
			contains: []string{"CONFIGURATION ERROR", "cat records.yaml"},
		},
		{
			name:     "info",
			output:   Info("nothing to do", true),
			contains: []string{"ℹ️ nothing to do"},
		},
		{
			name:     "warning",
			output:   Warning("deprecated key", []string{"policy"}, true),
			contains: []string{"⚠️ deprecated key", "Did you mean: policy?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, expected := range tt.contains {
				if !strings.Contains(tt.output, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, tt.output)
				}
			}
		})
	}
}
