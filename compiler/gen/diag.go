package gen

import (
	"fmt"
	"sync"
)

// Severity is the level of a diagnostic.
type Severity uint8

// List of diagnostic severities.
const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// Reporter is the diagnostics channel of the generator. Each message is a
// format string and its arguments.
type Reporter interface {
	Note(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Diagnostic is a recorded message.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// String implements the fmt.Stringer interface.
func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// Recorder is a Reporter that keeps the diagnostics in memory. It is safe
// for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Note records a note.
func (r *Recorder) Note(format string, args ...any) { r.add(SeverityNote, format, args) }

// Warn records a warning.
func (r *Recorder) Warn(format string, args ...any) { r.add(SeverityWarning, format, args) }

// Error records an error.
func (r *Recorder) Error(format string, args ...any) { r.add(SeverityError, format, args) }

func (r *Recorder) add(s Severity, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, Diagnostic{Severity: s, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns the recorded diagnostics in recording order.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diags...)
}

// Count returns the number of diagnostics with the given severity.
func (r *Recorder) Count(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, d := range r.diags {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Replay forwards the recorded diagnostics to another reporter.
func (r *Recorder) Replay(to Reporter) {
	for _, d := range r.Diagnostics() {
		switch d.Severity {
		case SeverityNote:
			to.Note("%s", d.Message)
		case SeverityWarning:
			to.Warn("%s", d.Message)
		default:
			to.Error("%s", d.Message)
		}
	}
}

// nopReporter discards all diagnostics.
type nopReporter struct{}

func (nopReporter) Note(string, ...any)  {}
func (nopReporter) Warn(string, ...any)  {}
func (nopReporter) Error(string, ...any) {}
