package fmindex

import (
	mathbits "math/bits"
	"sort"

	"github.com/calvinalkan/fmindex/pkg/bitvec"
)

// csaBlockWidth is the block width of the presence bitvector.
const csaBlockWidth = 256

// csa is the compressed suffix array: a presence bitvector over SA rows
// plus one packed (seqID, position) sample per present row.
//
// A row is sampled when its SA value is a multiple of the sampling rate
// or a sequence start, so a backward walk from any row reaches a sample
// within samplingRate steps.
type csa struct {
	present      bitvec.Bitvector
	samples      []uint64
	samplingRate uint64
	bitsForPos   uint32
	posMask      uint64
}

// bitsForPosition computes the sample bit split for n sequences:
// seqID occupies max(1, ceil(log2(n))) high bits, the position the rest.
func bitsForPosition(numSeqs int) uint32 {
	bitsForSeq := uint32(mathbits.Len64(uint64(numSeqs) - 1))
	if bitsForSeq == 0 {
		bitsForSeq = 1
	}

	return 64 - bitsForSeq
}

// buildCSA samples the suffix array. lengths holds per-sequence lengths
// without sentinels. When reverse is set, stored offsets are flipped
// into the forward coordinate system of each input sequence.
func buildCSA(sa []int64, samplingRate uint64, lengths []uint64, reverse bool) *csa {
	// Cumulative start of each sequence's block (sequence plus
	// sentinel) in the concatenated text.
	starts := make([]uint64, len(lengths)+1)
	for i, l := range lengths {
		starts[i+1] = starts[i] + l + 1
	}

	isStart := make(map[uint64]bool, len(lengths))
	for _, s := range starts[:len(lengths)] {
		isStart[s] = true
	}

	sampled := func(v uint64) bool {
		return v%samplingRate == 0 || isStart[v]
	}

	bitsForPos := bitsForPosition(len(lengths))

	c := &csa{
		samplingRate: samplingRate,
		bitsForPos:   bitsForPos,
		posMask:      1<<bitsForPos - 1,
	}

	present, err := bitvec.NewBlocked(uint64(len(sa)), csaBlockWidth, func(i uint64) bool {
		return sampled(uint64(sa[i]))
	})
	if err != nil {
		panic(err) // csaBlockWidth is always a valid width
	}

	c.present = present

	for _, row := range sa {
		v := uint64(row)
		if !sampled(v) {
			continue
		}

		// Find the sequence containing text position v.
		seqID := uint64(sort.Search(len(starts), func(k int) bool {
			return starts[k] > v
		}) - 1)
		pos := v - starts[seqID]

		if reverse {
			length := lengths[seqID]
			if pos < length {
				pos = length - pos
			} else {
				pos = length + 1
			}
		}

		c.samples = append(c.samples, seqID<<bitsForPos|pos)
	}

	return c
}

// value returns the sampled coordinate at SA row i, if any.
func (c *csa) value(i uint64) (seqID, pos uint64, ok bool) {
	if !c.present.Symbol(i) {
		return 0, 0, false
	}

	v := c.samples[c.present.Rank(i)]

	return v >> c.bitsForPos, v & c.posMask, true
}

// spaceUsage returns the memory footprint in bytes.
func (c *csa) spaceUsage() uint64 {
	return c.present.SpaceUsage() + uint64(len(c.samples))*8 + 32
}
