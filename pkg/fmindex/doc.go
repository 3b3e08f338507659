// Package fmindex provides FM-indexes over collections of byte
// sequences: exact counting and locating via backward search, and
// approximate search driven by search schemes on a bidirectional index.
//
// Sequences use symbols in [1, sigma); 0 is the per-sequence sentinel
// appended during construction. Indexes are immutable after build and
// safe for concurrent reads. Cursors are values carrying a non-owning
// reference to their index; a cursor must not outlive the index it came
// from.
//
// # Building
//
//	idx, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: 5})
//	if err != nil {
//	    // ErrInvalidAlphabet, ErrInvalidSentinel, ...
//	}
//
// # Exact search
//
//	n := idx.Count(pattern)
//
//	cur := idx.Root()
//	for i := len(pattern) - 1; i >= 0; i-- {
//	    cur = cur.ExtendLeft(pattern[i])
//	}
//	for _, p := range idx.Locate(cur) {
//	    // p.SeqID, p.Pos
//	}
//
// # Approximate search
//
// A search scheme partitions the query and bounds the error count per
// step; the driver walks the bidirectional cursor tree accordingly.
// Scheme generation is a caller concern; the package consumes fully
// expanded schemes.
//
//	idx.SearchScheme(query, scheme, fmindex.ModeEdit, func(cur fmindex.BiCursor, errs int) bool {
//	    hits = append(hits, idx.Locate(cur)...)
//	    return true // false stops this query
//	})
//
// SearchSchemeDP answers the same queries with banded dynamic
// programming, the better fit for error budgets of three and up.
package fmindex
