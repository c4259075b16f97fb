package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a log line out to all of its writers, e.g. the
// rotating log file and stdout. A failing writer does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports len(p) only when every writer took the whole line. Otherwise
// it returns the smallest count written and the errors of all failed writers.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	n := len(p)
	for i, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr == nil && written < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, fmt.Errorf("writer %d: %w", i, werr))
		}
		n = min(n, written)
	}
	return n, err
}
