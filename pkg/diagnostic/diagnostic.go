// Package diagnostic defines the diagnostics emitted during a parse pass.
// A diagnostic never aborts a scan: the editor experience depends on a
// best-effort result even for invalid-in-progress text.
package diagnostic

import (
	"encoding/json"
	"fmt"

	"github.com/twee-tools/chapbook-ls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Diagnostic is a single message attached to a source location.
type Diagnostic struct {
	Message  string
	Token    position.Token
	Severity Severity
}

func NewError(tok position.Token, format string, args ...any) Diagnostic {
	return Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		Severity: Error,
	}
}

func NewWarning(tok position.Token, format string, args ...any) Diagnostic {
	return Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		Severity: Warning,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Token)
}

// Diagnostics groups messages by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case Error:
		d.Errors = append(d.Errors, diag)
	default:
		d.Warnings = append(d.Warnings, diag)
	}
}

func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)
	return out
}

// editorDiagnostic is the editor-facing JSON shape: zero-based line and
// character positions, numeric severity (error = 1, warning = 2).
type editorDiagnostic struct {
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Range    struct {
		Start struct {
			Line      int `json:"line"`
			Character int `json:"character"`
		} `json:"start"`
		End struct {
			Line      int `json:"line"`
			Character int `json:"character"`
		} `json:"end"`
	} `json:"range"`
}

// FormatJSON renders diagnostics in the editor-facing JSON format, using
// the document text to derive line/character ranges from byte offsets.
func FormatJSON(diags []Diagnostic, docText string) ([]byte, error) {
	if diags == nil {
		return nil, errors.New("diagnostics is nil")
	}

	result := make([]editorDiagnostic, 0, len(diags))
	for _, d := range diags {
		var ed editorDiagnostic
		ed.Message = d.Message
		switch d.Severity {
		case Error:
			ed.Severity = 1
		default:
			ed.Severity = 2
		}
		r := d.Token.Range(docText)
		ed.Range.Start.Line = r.Start.Line
		ed.Range.Start.Character = r.Start.Character
		ed.Range.End.Line = r.End.Line
		ed.Range.End.Character = r.End.Character
		result = append(result, ed)
	}

	return json.Marshal(result)
}
