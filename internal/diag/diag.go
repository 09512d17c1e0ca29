// Package diag carries user-facing diagnostics produced while loading
// configuration, parsing manifests and emitting code. Diagnostics render
// either colorized for terminals or as JSON for tooling.
package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Severity is the weight of a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Diagnostic is one problem report tied to a generator phase.
//
// Codes are stable identifiers, grouped by phase: CFG0xx for configuration,
// GIR0xx for manifest parsing, GEN0xx for emission.
type Diagnostic struct {
	Phase    string   `json:"phase"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
}

// Errorf builds an error-severity diagnostic.
func Errorf(phase, code, file, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Phase:    phase,
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
	}
}

// Warningf builds a warning-severity diagnostic.
func Warningf(phase, code, file, format string, args ...interface{}) Diagnostic {
	d := Errorf(phase, code, file, format, args...)
	d.Severity = Warning
	return d
}

// List accumulates diagnostics across a generator run.
type List struct {
	diags []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.diags = append(l.diags, d)
}

// HasErrors reports whether any diagnostic is error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of collected diagnostics.
func (l *List) Len() int {
	return len(l.diags)
}

// WriteTerminal renders all diagnostics for a terminal.
func (l *List) WriteTerminal(w io.Writer) {
	for _, d := range l.diags {
		writeTerminal(w, d)
	}
}

func writeTerminal(w io.Writer, d Diagnostic) {
	c := severityColor(d.Severity)
	c.Fprintf(w, "%s[%s]", d.Severity, d.Code)
	if d.File != "" {
		fmt.Fprintf(w, " %s:", d.File)
	}
	fmt.Fprintf(w, " %s\n", d.Message)
}

func severityColor(s Severity) *color.Color {
	switch s {
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	case Error:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// WriteJSON renders all diagnostics as a JSON array.
func (l *List) WriteJSON(w io.Writer) error {
	diags := l.diags
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
