package fmindex

import "slices"

// Position is a located occurrence: a sequence id and an offset in the
// forward coordinate system of that input sequence.
type Position struct {
	SeqID uint64
	Pos   uint64
}

// Locate resolves every row of the cursor to a text coordinate by
// walking each row backward to a sampled position.
func (idx *Index) Locate(c Cursor) []Position {
	return idx.locateLinear(c.lb, c.length)
}

// LocateFMTree resolves the cursor like Locate but batches the backward
// walk: all unsampled rows advance together, sorted, one BWT step per
// round. maxDepth bounds the batched rounds; 0 means the sampling rate.
// The result multiset equals Locate's.
func (idx *Index) LocateFMTree(c Cursor, maxDepth int) []Position {
	return idx.locateBatched(c.lb, c.length, maxDepth)
}

// Locate resolves every row of the cursor to a text coordinate.
func (bi *BiIndex) Locate(c BiCursor) []Position {
	return bi.locateLinear(c.lb, c.length)
}

// LocateFMTree resolves the cursor like Locate with batched walks.
func (bi *BiIndex) LocateFMTree(c BiCursor, maxDepth int) []Position {
	return bi.locateBatched(c.lb, c.length, maxDepth)
}

func (co *core) locateLinear(lb, n uint64) []Position {
	out := make([]Position, 0, n)

	for i := lb; i < lb+n; i++ {
		seqID, pos := co.locateRow(i)
		out = append(out, Position{SeqID: seqID, Pos: pos})
	}

	return out
}

func (co *core) locateBatched(lb, n uint64, maxDepth int) []Position {
	if maxDepth <= 0 {
		maxDepth = int(co.csa.samplingRate)
	}

	out := make([]Position, 0, n)

	rows := make([]uint64, 0, n)
	for i := lb; i < lb+n; i++ {
		rows = append(rows, i)
	}

	for depth := 0; len(rows) > 0; depth++ {
		pending := rows[:0]

		for _, row := range rows {
			if seqID, pos, ok := co.csa.value(row); ok {
				out = append(out, Position{SeqID: seqID, Pos: pos + uint64(depth)})
			} else {
				pending = append(pending, row)
			}
		}

		rows = pending
		if len(rows) == 0 {
			break
		}

		if depth == maxDepth {
			// Depth budget exhausted: resolve the stragglers one by one.
			for _, row := range rows {
				seqID, pos := co.locateRow(row)
				out = append(out, Position{SeqID: seqID, Pos: pos + uint64(depth)})
			}

			break
		}

		for k, row := range rows {
			sym := co.str.Symbol(row)
			rows[k] = co.c[sym] + co.str.Rank(row, sym)
		}

		// Keep the batch sorted so the next round's rank queries walk
		// the blocks in order.
		slices.Sort(rows)
	}

	return out
}
