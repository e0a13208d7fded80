package errors

import (
	"encoding/json"
	"errors"

	"github.com/jethrolarson/noolang/internal/ast"
)

// Report is the structured error type for the lexer/parser phases (the type
// checker has its own TypeCheckError, per spec.md §7). The CLI prints a
// Report's Code and Message after the `color`-wrapped `Parse error:` prefix;
// ToJSON renders the full Report as JSON.
type Report struct {
	Schema  string         `json:"schema"` // always "noolang.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"` // "lexer" or "parser"
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Fix is a suggested remediation for a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

func (r *Report) Error() string {
	return r.Code + " at " + r.Span.Start.String() + ": " + r.Message
}

// ReportError wraps a Report as an error so it survives errors.As()
// unwrapping through ordinary Go error-handling paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Error()
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as deterministic JSON.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for the given phase/code/position.
func New(code, phase string, pos ast.Pos, message string) *Report {
	return &Report{
		Schema:  "noolang.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    &ast.Span{Start: pos, End: pos},
	}
}

// WithFix attaches a suggested fix.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}
