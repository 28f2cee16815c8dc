package herr

import (
	"fmt"
	"log/slog"
)

// Diagnostic is the host-facing form of a HunchError
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	EndColumn int      `json:"endColumn"`
	Code      Code     `json:"code"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

func ToDiagnostic(e HunchError) Diagnostic {
	return Diagnostic{
		Severity:  e.Severity(),
		Message:   e.Error(),
		Line:      e.Pos().Line,
		Column:    e.Pos().Column,
		EndLine:   e.End().Line,
		EndColumn: e.End().Column,
		Code:      e.Code(),
	}
}

// Diagnostics accumulates errors in the order they are found.
// A nil *Diagnostics is empty and safe to call methods on.
type Diagnostics struct {
	errs []HunchError
}

func (r *Diagnostics) With(err ...HunchError) *Diagnostics {
	if r == nil {
		return &Diagnostics{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Diagnostics) Merge(other *Diagnostics) *Diagnostics {
	if r == nil {
		return other
	}
	if other == nil || len(other.errs) == 0 {
		return r
	}
	return r.With(other.errs...)
}

// All returns every accumulated error regardless of severity
func (r *Diagnostics) All() []HunchError {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Diagnostics) Errors() []HunchError   { return r.bySeverity(SeverityError) }
func (r *Diagnostics) Warnings() []HunchError { return r.bySeverity(SeverityWarning) }
func (r *Diagnostics) Infos() []HunchError    { return r.bySeverity(SeverityInfo) }

func (r *Diagnostics) bySeverity(s Severity) []HunchError {
	var ret []HunchError
	for _, e := range r.All() {
		if e.Severity() == s {
			ret = append(ret, e)
		}
	}
	return ret
}

// HasError reports whether any diagnostic has error severity.
// Warnings and infos never block evaluation.
func (r *Diagnostics) HasError() bool {
	for _, e := range r.All() {
		if e.Severity() == SeverityError {
			return true
		}
	}
	return false
}

func (r *Diagnostics) Len() int {
	return len(r.All())
}

// Diagnostics converts every error into its host-facing form
func (r *Diagnostics) Diagnostics() []Diagnostic {
	all := r.All()
	ret := make([]Diagnostic, len(all))
	for i, e := range all {
		ret[i] = ToDiagnostic(e)
	}
	return ret
}

func (r *Diagnostics) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.All() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.String("severity", v.Severity().String()),
				slog.String("at", v.Pos().String()),
				slog.String("msg", FormatWithCode(v)),
			),
		})
	}
	return slog.GroupValue(vals...)
}
