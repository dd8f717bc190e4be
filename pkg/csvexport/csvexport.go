// Package csvexport writes lazily produced rows as CSV.
package csvexport

import (
	"encoding/csv"
	"io"
	"iter"

	"github.com/Laisky/errors/v2"
)

type flusher interface {
	Flush()
}

// Rows is a row sequence whose first element has already been pulled.
type Rows struct {
	first []string
	empty bool
	next  func() ([]string, error, bool)
	stop  func()
}

// Peek pulls the first row of rows so a failing source can be reported before
// anything is written. The returned Rows must be written or closed.
func Peek(rows iter.Seq2[[]string, error]) (*Rows, error) {
	next, stop := iter.Pull2(rows)

	first, err, ok := next()
	if err != nil {
		stop()

		return nil, err
	}

	return &Rows{
		first: first,
		empty: !ok,
		next:  next,
		stop:  stop,
	}, nil
}

// Close releases the source. It is safe to call after Write.
func (r *Rows) Close() {
	r.stop()
}

// Write writes header and every row to w, flushing after each row when w
// supports it. It returns the number of data rows written. An error from the
// source stops the output mid-stream.
func (r *Rows) Write(w io.Writer, header []string) (int, error) {
	defer r.stop()

	cw := csv.NewWriter(w)
	f, _ := w.(flusher)

	flush := func() error {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return errors.Wrap(err, "write csv")
		}
		if f != nil {
			f.Flush()
		}

		return nil
	}

	if err := cw.Write(header); err != nil {
		return 0, errors.Wrap(err, "write csv header")
	}

	if r.empty {
		return 0, flush()
	}

	written := 0
	row := r.first
	for {
		if err := cw.Write(row); err != nil {
			return written, errors.Wrap(err, "write csv row")
		}
		written++

		if err := flush(); err != nil {
			return written, err
		}

		next, err, ok := r.next()
		if err != nil {
			return written, err
		}
		if !ok {
			return written, nil
		}
		row = next
	}
}
