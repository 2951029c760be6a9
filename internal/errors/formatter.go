package errors

import (
	"fmt"
	"strings"
)

// FormatDiagnostic returns a human-readable diagnostic for terminal output
func FormatDiagnostic(d *Diagnostic) string {
	var b strings.Builder

	file := d.File
	if file == "" {
		file = "<schema>"
	}

	fmt.Fprintf(&b, "%s %s in %s [%s]\n", severityIcon(d.Severity), categoryDisplayName(d.Category), file, d.Code)
	fmt.Fprintf(&b, "  %s\n", d.Message)

	if d.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", d.Suggestion)
	}

	return b.String()
}

// FormatList returns a formatted string of all diagnostics
func FormatList(list List) string {
	if len(list) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount, infoCount := list.Count()
	fmt.Fprintf(&b, "Found %d error(s), %d warning(s), %d info\n\n", errCount, warnCount, infoCount)

	for i, d := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line format
func FormatCompact(d *Diagnostic) string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %s [%s]", d.Severity, d.Message, d.Code)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", d.Subject, d.Severity, d.Message, d.Code)
}

func severityIcon(severity Severity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	case SeverityInfo:
		return "ℹ️ "
	default:
		return "❓"
	}
}

func categoryDisplayName(category Category) string {
	switch category {
	case CategoryPrecondition:
		return "Resource Precondition Error"
	case CategorySchema:
		return "Schema Error"
	case CategoryEmit:
		return "Emit Error"
	default:
		return "Error"
	}
}
