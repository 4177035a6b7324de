package ledger

import (
	"slices"
	"strings"

	"github.com/cleared-dev/billconv/internal/model"
)

// Assemble concatenates batches in order and sorts the result newest first.
// Records with equal dates keep their input order. Dates compare as strings,
// which orders canonical dates by time.
func Assemble(batches ...[]model.Record) []model.Record {
	var n int
	for _, b := range batches {
		n += len(b)
	}
	out := make([]model.Record, 0, n)
	for _, b := range batches {
		out = append(out, b...)
	}
	slices.SortStableFunc(out, func(a, b model.Record) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}
