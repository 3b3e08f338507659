package fmindex

// Banded dynamic-programming traversal for larger error budgets.
//
// Instead of enumerating edit operations per branch, each cursor
// descent updates a band of edit-distance cells. Column j holds the
// minimum errors over all alignments that consumed j scheme steps;
// cells leaving the scheme's [l, u] window are trimmed off the band's
// ends and masked in its interior, and an empty band prunes the subtree.

// SearchSchemeDP runs every search of the scheme against query under
// unit-cost edit distance, reporting match cursors to fn. It visits the
// same occurrence positions as SearchScheme in ModeEdit and is the
// better fit for error budgets of three and up.
func (bi *BiIndex) SearchSchemeDP(query []byte, scheme Scheme, fn Delegate) {
	d := &dpSearcher{idx: bi, query: query, fn: fn}

	for _, search := range scheme {
		m := len(search.Pi)
		if m == 0 {
			continue
		}

		d.pi, d.l, d.u = search.Pi, search.L, search.U

		// Initial band: j query steps consumed with no text is j
		// deletions. Columns stop at the first bound violation and
		// before the final column.
		row := []int{0}
		for j := 1; j < m && j <= search.U[j]; j++ {
			row = append(row, j)
		}

		pos, cells := d.trimMask(0, row)
		if len(cells) > 0 {
			d.descend(bi.Root(), pos, cells)
		}

		if d.stopped {
			return
		}
	}
}

// SearchSchemeDPAll runs the DP scheme for every query in order.
func (bi *BiIndex) SearchSchemeDPAll(queries [][]byte, scheme Scheme,
	fn func(queryID int, cur BiCursor, errs int) bool,
) {
	for queryID, query := range queries {
		bi.SearchSchemeDP(query, scheme, func(cur BiCursor, errs int) bool {
			return fn(queryID, cur, errs)
		})
	}
}

type dpSearcher struct {
	idx     *BiIndex
	query   []byte
	pi      []int
	l, u    []int
	fn      Delegate
	stopped bool
}

// bounds returns the error window of column j: interior columns use
// their step's window, the final column uses the last step's.
func (d *dpSearcher) bounds(j int) (int, int) {
	if j >= len(d.pi) {
		j = len(d.pi) - 1
	}

	return d.l[j], d.u[j]
}

// descend processes the band row covering columns [pos, pos+len(row)).
func (d *dpSearcher) descend(cur BiCursor, pos int, row []int) {
	if d.stopped || cur.Empty() || len(row) == 0 {
		return
	}

	m := len(d.pi)
	end := pos + len(row)

	if end == m+1 {
		// The band reached the final column: every step is consumed
		// and trimming has confirmed the window.
		if !d.fn(cur, row[len(row)-1]) {
			d.stopped = true

			return
		}

		// Drop the final column; alignments ending in an unmatched
		// text symbol would only re-report sub-ranges.
		row = row[:len(row)-1]
		if len(row) == 0 {
			return
		}

		end--
	}

	right := stepRight(d.pi, min(pos, m-1))
	cursors := extendAll(cur, right)

	newRow := make([]int, 0, len(row)+1)

	for sym := 1; sym < d.idx.sigma; sym++ {
		next := cursors[sym]
		if next.Empty() {
			continue
		}

		newRow = newRow[:0]

		// First cell: the new text symbol is unmatched.
		newRow = append(newRow, row[0]+1)

		for j := pos + 1; j < end; j++ {
			cost := 1
			if d.query[d.pi[j-1]] == uint8(sym) {
				cost = 0
			}

			val := row[j-1-pos] + cost // diagonal
			if v := row[j-pos] + 1; v < val {
				val = v // text symbol unmatched
			}

			if v := newRow[len(newRow)-1] + 1; v < val {
				val = v // query step skipped
			}

			newRow = append(newRow, val)
		}

		// Grow one column past the previous band end (diagonal from the
		// old last cell), then extend with skipped steps while the
		// upper bound allows.
		if end <= m {
			cost := 1
			if d.query[d.pi[end-1]] == uint8(sym) {
				cost = 0
			}

			val := row[len(row)-1] + cost
			if v := newRow[len(newRow)-1] + 1; v < val {
				val = v
			}

			newRow = append(newRow, val)
		}

		for pos+len(newRow) <= m {
			_, hi := d.bounds(pos + len(newRow))

			val := newRow[len(newRow)-1] + 1
			if val > hi {
				break
			}

			newRow = append(newRow, val)
		}

		newPos, cells := d.trimMask(pos, newRow)
		if len(cells) > 0 {
			d.descend(next, newPos, cells)
		}

		if d.stopped {
			return
		}
	}
}

// infCost masks a band cell whose error count left the scheme window.
const infCost = 1 << 30

func (d *dpSearcher) within(j, e int) bool {
	lo, hi := d.bounds(j)

	return lo <= e && e <= hi
}

// trimMask drops out-of-window cells from both ends of the band and
// masks interior violations. A masked cell contributes no alignment
// itself but keeps its neighbours' columns addressable. The returned
// slice is a copy.
func (d *dpSearcher) trimMask(pos int, row []int) (int, []int) {
	for len(row) > 0 && !d.within(pos, row[0]) {
		pos++
		row = row[1:]
	}

	for len(row) > 0 && !d.within(pos+len(row)-1, row[len(row)-1]) {
		row = row[:len(row)-1]
	}

	cells := make([]int, len(row))
	copy(cells, row)

	for k := range cells {
		if !d.within(pos+k, cells[k]) {
			cells[k] = infCost
		}
	}

	return pos, cells
}
