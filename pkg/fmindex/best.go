package fmindex

// SearchBest reports the hits of the strictest error bound that yields
// any: the scheme is re-run with its upper bounds clamped to 0, 1, ...
// until a pass produces at least one hit. Returns whether any hit was
// reported.
func (bi *BiIndex) SearchBest(query []byte, scheme Scheme, mode Mode, fn Delegate) bool {
	maxU := 0
	for _, search := range scheme {
		for _, u := range search.U {
			maxU = max(maxU, u)
		}
	}

	for budget := 0; budget <= maxU; budget++ {
		clamped := clampScheme(scheme, budget)

		found := false
		bi.SearchScheme(query, clamped, mode, func(cur BiCursor, errs int) bool {
			found = true

			return fn(cur, errs)
		})

		if found {
			return true
		}
	}

	return false
}

// clampScheme limits every upper bound to budget and drops searches whose
// lower bounds can no longer be met.
func clampScheme(scheme Scheme, budget int) Scheme {
	out := make(Scheme, 0, len(scheme))

	for _, search := range scheme {
		feasible := true
		u := make([]int, len(search.U))

		for i, v := range search.U {
			u[i] = min(v, budget)
			if search.L[i] > u[i] {
				feasible = false

				break
			}
		}

		if feasible {
			out = append(out, Search{Pi: search.Pi, L: search.L, U: u})
		}
	}

	return out
}

// SearchN reports at most n occurrences for the query. The final
// reported cursor is clipped so the total occurrence count over all
// reported cursors is exactly min(n, total).
func (bi *BiIndex) SearchN(query []byte, scheme Scheme, mode Mode, n uint64, fn Delegate) {
	if n == 0 {
		return
	}

	var reported uint64

	bi.SearchScheme(query, scheme, mode, func(cur BiCursor, errs int) bool {
		remaining := n - reported

		if cur.Count() >= remaining {
			cur.length = remaining
			reported = n

			fn(cur, errs)

			return false
		}

		reported += cur.Count()

		return fn(cur, errs)
	})
}
