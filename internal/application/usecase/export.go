package usecase

import "iter"

// mapRows turns a record stream into a row stream. Errors pass through and
// end the sequence.
func mapRows[T any](records iter.Seq2[T, error], row func(T) []string) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for rec, err := range records {
			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(row(rec), nil) {
				return
			}
		}
	}
}
