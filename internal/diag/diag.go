// Package diag implements the diagnostic model and colored, line-anchored
// formatter of spec.md §4.8 and §7. It is modeled on the teacher's
// internal/errors package (CompilerError.Format/FormatWithContext) but
// generalized to the two severities a Pascal-subset compiler actually
// needs and to the "unlocalized diagnostic" case (spec.md §4.8: "omit
// position but keep severity").
package diag

import (
	"fmt"
	"strings"

	"github.com/voidbert/plpc/internal/token"
)

// Severity distinguishes errors (which fail the phase) from warnings
// (which never do) per spec.md §7.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

const (
	colorRed    = "\033[1;31m"
	colorYellow = "\033[1;33m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

// Diagnostic is one lexical, syntactic, or semantic finding.
type Diagnostic struct {
	Message  string
	Severity Severity
	Pos      token.Position // zero value means unlocalized
	Span     int            // length of the offending text, for the caret underline
}

// New creates a localized diagnostic of the given severity.
func New(sev Severity, pos token.Position, span int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Pos:      pos,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Unlocalized creates a diagnostic carrying no position (spec.md §4.8).
func Unlocalized(sev Severity, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string { return d.Format("", "", false) }

// Format renders one diagnostic: file path, line/column, severity,
// message, the offending source line, and a caret underline whose length
// equals Span truncated to the line (spec.md §4.8).
func (d *Diagnostic) Format(file, source string, color bool) string {
	var sb strings.Builder

	sevColor := colorYellow
	if d.Severity == Error {
		sevColor = colorRed
	}

	if !d.Pos.IsValid() {
		if color {
			sb.WriteString(sevColor)
		}
		sb.WriteString(d.Severity.String())
		if color {
			sb.WriteString(colorReset)
		}
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		return sb.String()
	}

	if file != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: ", file, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%d:%d: ", d.Pos.Line, d.Pos.Column)
	}
	if color {
		sb.WriteString(sevColor)
	}
	sb.WriteString(d.Severity.String())
	if color {
		sb.WriteString(colorReset)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteString("\n")

	line := sourceLine(source, d.Pos.Line)
	if line != "" {
		sb.WriteString(line)
		sb.WriteString("\n")

		span := d.Span
		if span < 1 {
			span = 1
		}
		maxSpan := len([]rune(line)) - d.Pos.Column + 1
		if maxSpan < 1 {
			maxSpan = 1
		}
		if span > maxSpan {
			span = maxSpan
		}

		sb.WriteString(strings.Repeat(" ", d.Pos.Column-1))
		if color {
			sb.WriteString(sevColor)
		}
		sb.WriteString(strings.Repeat("^", span))
		if color {
			sb.WriteString(colorReset)
		}
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of diagnostics separated by blank lines.
func FormatAll(diags []*Diagnostic, file, source string, color bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Format(file, source, color)
	}
	return strings.Join(parts, "\n\n")
}

// HasErrors reports whether diags contains at least one Error-severity
// entry; used by every pipeline phase to decide whether to stop
// (spec.md §7 "Propagation policy").
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
