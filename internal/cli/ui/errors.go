package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Hint         string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ TYPE NOT FOUND: Pont
//	   Cannot find record type 'Pont'.
//
//	   Did you mean: Point, Point3?
//
//	   → List declared types: records check shapes.yaml
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	headerColor, bodyColor, symbol := levelStyle(opts.Level)
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), firstLine(opts.Problem))
		bodyColor.Fprintf(&b, "   %s\n", indent(opts.Problem))
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, indent(opts.Problem))
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if opts.Hint != "" {
		b.WriteString("\n")
		green := color.New(color.FgGreen)
		if opts.NoColor {
			green.DisableColor()
		}
		green.Fprintf(&b, "   Hint: %s\n", opts.Hint)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func levelStyle(level ErrorLevel) (header, body *color.Color, symbol string) {
	switch level {
	case ErrorLevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case ErrorLevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// indent keeps continuation lines of multi-line problems aligned with the body
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n   ")
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TypeNotFoundError reports a record type missing from a declaration file
func TypeNotFoundError(typeName, file string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "TYPE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find record type '%s' in %s.", typeName, file),
		Suggestions: suggestions,
		HelpCommands: []string{
			"List declared types: records check " + file,
		},
		NoColor: noColor,
	})
}

// DeclarationError reports a declaration file that failed to load
func DeclarationError(message, hint string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "DECLARATION FAILED",
		Problem:     message,
		Consequence: "No record types after the failing one were declared.",
		Hint:        hint,
		Suggestions: suggestions,
		HelpCommands: []string{
			"Get help: records check --help",
		},
		NoColor: noColor,
	})
}

// ConstructionError reports an instance that could not be constructed
func ConstructionError(typeName, signature, message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONSTRUCTION FAILED",
		Problem: message,
		Hint:    fmt.Sprintf("%s takes %s", typeName, signature),
		HelpCommands: []string{
			"Show fields: records fields FILE " + typeName,
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONFIGURATION ERROR",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat records.yaml",
			"Get help: records --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
