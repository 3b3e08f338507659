package bitvec

import "fmt"

// Paired is a single-level rank bitvector where adjacent blocks share one
// counter. The counter holds the rank at the pair midpoint; a query in
// the first block subtracts a backward scan, a query in the second block
// adds a forward scan. Either way at most one block of words is touched.
type Paired struct {
	n      uint64
	blockW uint64   // width of one block; a pair spans 2*blockW bits
	words  []uint64 // padded to whole pairs
	counts []uint64 // counts[p] = rank at bit (2p+1)*blockW
}

// NewPaired builds a Paired vector of length n with the given block
// width. bit is called once per position in order.
func NewPaired(n uint64, blockWidth int, bit func(uint64) bool) (*Paired, error) {
	if !blockWidths[blockWidth] {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, blockWidth)
	}

	bw := uint64(blockWidth)
	pairW := 2 * bw
	nPairs := n/pairW + 1
	words := collectWords(n, nPairs*pairW/64, bit)

	counts := make([]uint64, nPairs)

	var acc uint64

	for p := uint64(0); p < nPairs; p++ {
		// Rank at the pair midpoint. Padding bits are zero, so scanning
		// past n is harmless.
		acc += popRange(words, p*pairW, (2*p+1)*bw)
		counts[p] = acc
		acc += popRange(words, (2*p+1)*bw, (p+1)*pairW)
	}

	return &Paired{n: n, blockW: bw, words: words, counts: counts}, nil
}

// Len returns the number of bits.
func (v *Paired) Len() uint64 { return v.n }

// Symbol reports the bit at position i.
func (v *Paired) Symbol(i uint64) bool { return wordBit(v.words, i) }

// Rank returns the number of 1-bits in [0, i).
func (v *Paired) Rank(i uint64) uint64 {
	p := i / (2 * v.blockW)
	mid := (2*p + 1) * v.blockW
	if i <= mid {
		return v.counts[p] - popRange(v.words, i, mid)
	}

	return v.counts[p] + popRange(v.words, mid, i)
}

// SpaceUsage returns the memory footprint in bytes.
func (v *Paired) SpaceUsage() uint64 {
	return uint64(len(v.words)+len(v.counts))*8 + 24
}
