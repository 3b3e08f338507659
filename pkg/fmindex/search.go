package fmindex

// Search is one search of a search scheme: Pi gives the order in which
// query positions are consumed, L and U bound the accumulated error
// count at each step. The three slices have equal length.
//
// The core consumes fully expanded schemes and does not validate their
// feasibility.
type Search struct {
	Pi []int
	L  []int
	U  []int
}

// Scheme is an ordered list of searches covering one query.
type Scheme []Search

// Mode selects the error model of a scheme traversal.
type Mode int

const (
	// ModeEdit searches under unit-cost edit distance (substitutions,
	// insertions and deletions).
	ModeEdit Mode = iota
	// ModeHamming searches under substitutions only.
	ModeHamming
)

// Delegate receives matches: the cursor spans all occurrences, errs is
// the error count of the alignment. Returning false stops the current
// query; no further delegate calls follow for it.
type Delegate func(cur BiCursor, errs int) bool

// stepRight reports the direction of step i of a search: true extends
// right. The first step follows the sign of Pi[1]-Pi[0]; a single-step
// search extends right.
func stepRight(pi []int, i int) bool {
	if i == 0 {
		if len(pi) == 1 {
			return true
		}

		return pi[0] < pi[1]
	}

	return pi[i-1] < pi[i]
}

// Edit-operation markers carried per side during backtracking. The
// marker of a side records the last operation applied there; it gates
// which operations may follow so that no two inverse operations cancel
// on the same symbol.
const (
	opMatch      = 'M'
	opSubstitute = 'S'
	opInsert     = 'I'
	opDelete     = 'D'
)

// SearchScheme runs every search of the scheme against query, reporting
// each match cursor to fn. Within one cursor, children are visited in
// ascending symbol order 1..sigma-1 (a query symbol of 0 last); searches
// run in scheme order.
func (bi *BiIndex) SearchScheme(query []byte, scheme Scheme, mode Mode, fn Delegate) {
	s := &schemeSearcher{
		idx:   bi,
		query: query,
		edit:  mode == ModeEdit,
		fn:    fn,
	}

	for _, search := range scheme {
		if len(search.Pi) == 0 {
			continue
		}

		s.pi, s.l, s.u = search.Pi, search.L, search.U
		s.step(bi.Root(), 0, 0, 0, opMatch, opMatch)

		if s.stopped {
			return
		}
	}
}

// SearchSchemeAll runs the scheme for every query in order.
func (bi *BiIndex) SearchSchemeAll(queries [][]byte, scheme Scheme, mode Mode,
	fn func(queryID int, cur BiCursor, errs int) bool,
) {
	for queryID, query := range queries {
		bi.SearchScheme(query, scheme, mode, func(cur BiCursor, errs int) bool {
			return fn(queryID, cur, errs)
		})
	}
}

type schemeSearcher struct {
	idx     *BiIndex
	query   []byte
	pi      []int
	l, u    []int
	edit    bool
	fn      Delegate
	stopped bool
}

// step consumes scheme step i with error count e. lastRank is the text
// symbol produced by the previous descent; lInfo and rInfo are the last
// operations applied on the left and right side.
func (s *schemeSearcher) step(cur BiCursor, e, i int, lastRank uint8, lInfo, rInfo byte) {
	if s.stopped || cur.Empty() {
		return
	}

	if i == len(s.pi) {
		// Under edit distance, alignments ending in a substitution or an
		// unmatched text symbol cover the same positions as a shorter
		// alignment with equal cost; only match/insert endings are
		// canonical. Hamming alignments have no shorter variant, so
		// every ending counts.
		accept := !s.edit ||
			((lInfo == opMatch || lInfo == opInsert) && (rInfo == opMatch || rInfo == opInsert))

		if accept {
			if !s.fn(cur, e) {
				s.stopped = true
			}
		}

		return
	}

	s.stepDir(cur, e, i, lastRank, lInfo, rInfo, stepRight(s.pi, i))
}

func (s *schemeSearcher) stepDir(cur BiCursor, e, i int, lastRank uint8, lInfo, rInfo byte, right bool) {
	tInfo := lInfo
	if right {
		tInfo = rInfo
	}

	deletion := s.edit && (tInfo == opMatch || tInfo == opDelete)
	insertion := s.edit && (tInfo == opMatch || tInfo == opInsert)

	sym := s.query[s.pi[i]]

	matchAllowed := s.l[i] <= e && e <= s.u[i] &&
		(tInfo != opInsert || sym != s.query[s.pi[i-1]]) &&
		(tInfo != opDelete || sym != lastRank)
	mismatchAllowed := s.l[i] <= e+1 && e+1 <= s.u[i]

	// side returns the info pair with op applied on the moving side.
	side := func(op byte) (byte, byte) {
		if right {
			return lInfo, op
		}

		return op, rInfo
	}

	if !mismatchAllowed {
		if matchAllowed {
			next := extendOne(cur, sym, right)
			nl, nr := side(opMatch)
			s.step(next, e, i+1, sym, nl, nr)
		}

		return
	}

	cursors := extendAll(cur, right)

	for c := 1; c < s.idx.sigma; c++ {
		if s.stopped {
			return
		}

		if uint8(c) == sym {
			if matchAllowed {
				nl, nr := side(opMatch)
				s.step(cursors[sym], e, i+1, sym, nl, nr)
			}

			continue
		}

		if deletion {
			nl, nr := side(opDelete)
			s.step(cursors[c], e+1, i, uint8(c), nl, nr)
		}

		nl, nr := side(opSubstitute)
		s.step(cursors[c], e+1, i+1, uint8(c), nl, nr)
	}

	if sym == 0 && matchAllowed && !s.stopped {
		nl, nr := side(opMatch)
		s.step(cursors[0], e, i+1, sym, nl, nr)
	}

	if insertion && !s.stopped {
		nl, nr := side(opInsert)
		s.step(cur, e+1, i+1, lastRank, nl, nr)
	}
}

func extendOne(cur BiCursor, sym uint8, right bool) BiCursor {
	if right {
		return cur.ExtendRight(sym)
	}

	return cur.ExtendLeft(sym)
}

func extendAll(cur BiCursor, right bool) []BiCursor {
	if right {
		return cur.ExtendRightAll()
	}

	return cur.ExtendLeftAll()
}
