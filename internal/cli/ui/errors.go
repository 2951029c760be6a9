package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/aepdoc/internal/errors"
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
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with a hint and help commands
//
// Example output:
//
//	❌ SCHEMA INVALID: unknown parent model 'Bok'
//
//	   Hint: did you mean Book?
//
//	   → Check the schema: aepdoc validate
//	   → Get help: aepdoc --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if opts.Hint != "" {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Hint: %s\n", opts.Hint)
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

// DiagnosticError renders one diagnostic. The context names the category
// and the code so the header reads like "SCHEMA ERROR AEP201: ...".
func DiagnosticError(d *errors.Diagnostic, noColor bool) string {
	problem := d.Message
	if d.Subject != "" {
		problem = d.Subject + ": " + d.Message
	}

	var consequence string
	if d.File != "" {
		consequence = "in " + d.File
	}

	opts := ErrorOptions{
		Level:       levelOf(d.Severity),
		Context:     fmt.Sprintf("%s error %s", d.Category, d.Code),
		Problem:     problem,
		Consequence: consequence,
		Hint:        d.Suggestion,
		NoColor:     noColor,
	}
	switch d.Category {
	case errors.CategorySchema:
		opts.HelpCommands = []string{"Check the schema: aepdoc validate"}
	case errors.CategoryPrecondition:
		opts.HelpCommands = []string{"Inspect resources: aepdoc inspect"}
	}
	return FormatError(opts)
}

// FormatCommandError renders any error returned by a command. Diagnostic
// lists render one block per entry.
func FormatCommandError(err error, noColor bool) string {
	var list errors.List
	if stderrors.As(err, &list) {
		var b strings.Builder
		for i, d := range list {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(DiagnosticError(d, noColor))
		}
		return b.String()
	}

	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return DiagnosticError(d, noColor)
	}

	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Problem:      err.Error(),
		HelpCommands: []string{"Get help: aepdoc --help"},
		NoColor:      noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat aepdoc.yaml",
			"Get help: aepdoc --help",
		},
		NoColor: noColor,
	}
	return FormatError(opts)
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
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

func levelOf(s errors.Severity) ErrorLevel {
	switch s {
	case errors.SeverityWarning:
		return ErrorLevelWarning
	case errors.SeverityInfo:
		return ErrorLevelInfo
	default:
		return ErrorLevelError
	}
}
