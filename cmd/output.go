package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/hunch"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

// useColor reports whether w is a terminal that understands ANSI colours
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func severityColor(s herr.Severity) string {
	switch s {
	case herr.SeverityError:
		return colorRed
	case herr.SeverityWarning:
		return colorYellow
	default:
		return colorCyan
	}
}

// report is what check --json prints
type report struct {
	Unit        string            `json:"unit"`
	ID          string            `json:"id"`
	Diagnostics []herr.Diagnostic `json:"diagnostics"`
}

func writeJSON(w io.Writer, u *hunch.Unit) error {
	diags := u.Diagnostics().Diagnostics()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report{Unit: u.Name(), ID: u.ID().String(), Diagnostics: diags})
}

func writeText(w io.Writer, file string, u *hunch.Unit) error {
	color := useColor(w)
	for _, d := range u.Diagnostics().Diagnostics() {
		severity := d.Severity.String()
		if color {
			severity = severityColor(d.Severity) + severity + colorReset
		}
		_, err := fmt.Fprintf(w, "%s:%d:%d: %s: (H%03d) %s\n", file, d.Line, d.Column, severity, d.Code, d.Message)
		if err != nil {
			return err
		}
	}
	return nil
}

// failed reports whether diagnostics should make the command fail
func failed(diags *herr.Diagnostics, failOnWarnings bool) error {
	errs, warns := len(diags.Errors()), len(diags.Warnings())
	if errs > 0 {
		return fmt.Errorf("found %d error(s) and %d warning(s)", errs, warns)
	}
	if failOnWarnings && warns > 0 {
		return fmt.Errorf("found %d warning(s), and failOnWarnings is set", warns)
	}
	return nil
}
