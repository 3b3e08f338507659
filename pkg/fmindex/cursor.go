package fmindex

// Cursor is a half-open row range [lb, lb+length) of the suffix array,
// denoting every suffix prefixed by the pattern extended so far.
// Cursors are values; they hold a non-owning reference to their index
// and must not outlive it.
type Cursor struct {
	idx    *Index
	lb     uint64
	length uint64
}

// Root returns the cursor spanning the whole suffix array (the empty
// pattern).
func (idx *Index) Root() Cursor {
	return Cursor{idx: idx, lb: 0, length: idx.size()}
}

// Empty reports whether the cursor matches nothing. Extending an empty
// cursor yields empty cursors.
func (c Cursor) Empty() bool { return c.length == 0 }

// Count returns the number of matched suffixes.
func (c Cursor) Count() uint64 { return c.length }

// Range returns the suffix-array row range [lb, lb+count).
func (c Cursor) Range() (lb, count uint64) { return c.lb, c.length }

// ExtendLeft prepends sym to the current pattern.
func (c Cursor) ExtendLeft(sym uint8) Cursor {
	str := c.idx.str
	base := c.idx.c[sym]

	newLb := base + str.Rank(c.lb, sym)
	newLen := base + str.Rank(c.lb+c.length, sym) - newLb

	return Cursor{idx: c.idx, lb: newLb, length: newLen}
}

// ExtendLeftAll returns the cursors for all sigma one-symbol left
// extensions using a single pair of AllRanks queries.
func (c Cursor) ExtendLeftAll() []Cursor {
	str := c.idx.str

	r1, _ := str.AllRanks(c.lb)
	r2, _ := str.AllRanks(c.lb + c.length)

	cursors := make([]Cursor, c.idx.sigma)
	for sym := range cursors {
		cursors[sym] = Cursor{
			idx:    c.idx,
			lb:     c.idx.c[sym] + r1[sym],
			length: r2[sym] - r1[sym],
		}
	}

	return cursors
}

// BiCursor is a cursor over a BiIndex: row ranges in the forward and
// reverse suffix arrays covering the same pattern, extendable on both
// ends.
type BiCursor struct {
	idx    *BiIndex
	lb     uint64
	lbRev  uint64
	length uint64
}

// Root returns the cursor spanning the whole suffix array (the empty
// pattern).
func (bi *BiIndex) Root() BiCursor {
	return BiCursor{idx: bi, lb: 0, lbRev: 0, length: bi.size()}
}

// Empty reports whether the cursor matches nothing.
func (c BiCursor) Empty() bool { return c.length == 0 }

// Count returns the number of matched suffixes.
func (c BiCursor) Count() uint64 { return c.length }

// Range returns the forward suffix-array row range [lb, lb+count).
func (c BiCursor) Range() (lb, count uint64) { return c.lb, c.length }

// ExtendLeft prepends sym to the current pattern. The reverse bound
// shifts by the prefix-rank difference over symbols below sym.
func (c BiCursor) ExtendLeft(sym uint8) BiCursor {
	str := c.idx.str

	newLb := c.idx.c[sym] + str.Rank(c.lb, sym)
	newLen := c.idx.c[sym] + str.Rank(c.lb+c.length, sym) - newLb

	newLbRev := c.lbRev
	if sym > 0 {
		newLbRev += str.PrefixRank(c.lb+c.length, sym-1) - str.PrefixRank(c.lb, sym-1)
	}

	return BiCursor{idx: c.idx, lb: newLb, lbRev: newLbRev, length: newLen}
}

// ExtendRight appends sym to the current pattern.
func (c BiCursor) ExtendRight(sym uint8) BiCursor {
	rev := c.idx.rev

	newLbRev := c.idx.c[sym] + rev.Rank(c.lbRev, sym)
	newLen := c.idx.c[sym] + rev.Rank(c.lbRev+c.length, sym) - newLbRev

	newLb := c.lb
	if sym > 0 {
		newLb += rev.PrefixRank(c.lbRev+c.length, sym-1) - rev.PrefixRank(c.lbRev, sym-1)
	}

	return BiCursor{idx: c.idx, lb: newLb, lbRev: newLbRev, length: newLen}
}

// ExtendLeftAll returns the cursors for all sigma one-symbol left
// extensions using a single pair of AllRanks queries.
func (c BiCursor) ExtendLeftAll() []BiCursor {
	str := c.idx.str

	r1, p1 := str.AllRanks(c.lb)
	r2, p2 := str.AllRanks(c.lb + c.length)

	cursors := make([]BiCursor, c.idx.sigma)

	cursors[0] = BiCursor{
		idx:    c.idx,
		lb:     c.idx.c[0] + r1[0],
		lbRev:  c.lbRev,
		length: r2[0] - r1[0],
	}

	for sym := 1; sym < c.idx.sigma; sym++ {
		cursors[sym] = BiCursor{
			idx:    c.idx,
			lb:     c.idx.c[sym] + r1[sym],
			lbRev:  c.lbRev + p2[sym-1] - p1[sym-1],
			length: r2[sym] - r1[sym],
		}
	}

	return cursors
}

// ExtendRightAll returns the cursors for all sigma one-symbol right
// extensions.
func (c BiCursor) ExtendRightAll() []BiCursor {
	rev := c.idx.rev

	r1, p1 := rev.AllRanks(c.lbRev)
	r2, p2 := rev.AllRanks(c.lbRev + c.length)

	cursors := make([]BiCursor, c.idx.sigma)

	cursors[0] = BiCursor{
		idx:    c.idx,
		lb:     c.lb,
		lbRev:  c.idx.c[0] + r1[0],
		length: r2[0] - r1[0],
	}

	for sym := 1; sym < c.idx.sigma; sym++ {
		cursors[sym] = BiCursor{
			idx:    c.idx,
			lb:     c.lb + p2[sym-1] - p1[sym-1],
			lbRev:  c.idx.c[sym] + r1[sym],
			length: r2[sym] - r1[sym],
		}
	}

	return cursors
}
