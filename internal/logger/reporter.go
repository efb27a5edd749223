package logger

import (
	"fmt"

	"github.com/syssam/dbobject/compiler/gen"
)

// Reporter forwards generator diagnostics to a Logger. Notes are logged at
// debug level.
type Reporter struct {
	l Logger
}

var _ gen.Reporter = (*Reporter)(nil)

// NewReporter returns a gen.Reporter writing to l.
func NewReporter(l Logger) *Reporter {
	return &Reporter{l: l}
}

func (r *Reporter) Note(format string, args ...any) {
	r.l.Debug(fmt.Sprintf(format, args...))
}

func (r *Reporter) Warn(format string, args ...any) {
	r.l.Warn(fmt.Sprintf(format, args...))
}

func (r *Reporter) Error(format string, args ...any) {
	r.l.Error(fmt.Sprintf(format, args...))
}
