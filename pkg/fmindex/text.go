package fmindex

import "fmt"

// flatten concatenates the input sequences with a 0 sentinel after each
// and validates every symbol against [1, sigma).
//
// The returned lengths hold each sequence's length without its sentinel.
func flatten(seqs [][]byte, sigma int) (text []byte, lengths []uint64, err error) {
	total := 0
	for _, s := range seqs {
		total += len(s) + 1
	}

	text = make([]byte, 0, total)
	lengths = make([]uint64, len(seqs))

	for seqID, s := range seqs {
		for pos, b := range s {
			if b == 0 {
				return nil, nil, fmt.Errorf("%w: sequence %d position %d",
					ErrInvalidSentinel, seqID, pos)
			}

			if int(b) >= sigma {
				return nil, nil, fmt.Errorf("%w: sequence %d position %d: %d >= %d",
					ErrInvalidAlphabet, seqID, pos, b, sigma)
			}
		}

		text = append(text, s...)
		text = append(text, 0)
		lengths[seqID] = uint64(len(s))
	}

	return text, lengths, nil
}

// reverseAll returns a copy of seqs with every sequence reversed.
// Sequence order is preserved.
func reverseAll(seqs [][]byte) [][]byte {
	out := make([][]byte, len(seqs))

	for i, s := range seqs {
		r := make([]byte, len(s))
		for j, b := range s {
			r[len(s)-1-j] = b
		}

		out[i] = r
	}

	return out
}

// bwtOf computes the Burrows-Wheeler transform L[i] = T[(SA[i]-1) mod n].
func bwtOf(text []byte, sa []int64) []byte {
	n := int64(len(text))
	bwt := make([]byte, n)

	for i, v := range sa {
		if v == 0 {
			bwt[i] = text[n-1]
		} else {
			bwt[i] = text[v-1]
		}
	}

	return bwt
}
