package ledger

import "github.com/cleared-dev/billconv/internal/model"

// Summary tallies a ledger and flags records that need manual follow-up.
type Summary struct {
	Total  int
	ByType map[model.TxType]int
	// Transfers whose target account is empty or unresolved.
	UnresolvedTransfers []model.Record
	UnknownTypes        []model.Record
}

// Summarize builds the Summary of recs.
func Summarize(recs []model.Record) Summary {
	s := Summary{Total: len(recs), ByType: make(map[model.TxType]int)}
	for _, rec := range recs {
		s.ByType[rec.Type]++
		if !rec.Type.Valid() {
			s.UnknownTypes = append(s.UnknownTypes, rec)
		}
		if rec.NeedsTarget() {
			s.UnresolvedTransfers = append(s.UnresolvedTransfers, rec)
		}
	}
	return s
}

// NeedsAttention reports whether any record was flagged.
func (s Summary) NeedsAttention() bool {
	return len(s.UnresolvedTransfers) > 0 || len(s.UnknownTypes) > 0
}
