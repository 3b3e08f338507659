package fmindex

import (
	"fmt"
	"sync"

	"github.com/calvinalkan/fmindex/internal/suffixarr"
	"github.com/calvinalkan/fmindex/pkg/rankstr"
)

// BiIndex is a bidirectional FM-index: a forward FM-index plus a
// rank-string over the BWT of the reversed text. Cursors extend on both
// ends. Immutable after construction; safe for concurrent reads.
//
// Only the forward side carries a sampled suffix array; locate always
// resolves forward text coordinates.
type BiIndex struct {
	core
	rev rankstr.String
}

// NewBi builds a bidirectional FM-index over seqs. With Threads > 1 the
// forward and reverse transforms are built concurrently.
func NewBi(seqs [][]byte, opts Options) (*BiIndex, error) {
	opts = opts.withDefaults()
	if err := opts.validate(seqs); err != nil {
		return nil, err
	}

	text, lengths, err := flatten(seqs, opts.Sigma)
	if err != nil {
		return nil, err
	}

	revText, _, err := flatten(reverseAll(seqs), opts.Sigma)
	if err != nil {
		return nil, err
	}

	var (
		sa, saRev   []int64
		bwt, bwtRev []byte
	)

	if opts.Threads > 1 {
		var wg sync.WaitGroup

		wg.Add(1)

		go func() {
			defer wg.Done()

			saRev = suffixarr.Sort(revText)
			bwtRev = bwtOf(revText, saRev)
		}()

		sa = suffixarr.Sort(text)
		bwt = bwtOf(text, sa)

		wg.Wait()
	} else {
		sa = suffixarr.Sort(text)
		bwt = bwtOf(text, sa)
		saRev = suffixarr.Sort(revText)
		bwtRev = bwtOf(revText, saRev)
	}

	str, err := opts.NewString(bwt, opts.Sigma)
	if err != nil {
		return nil, err
	}

	rev, err := opts.NewString(bwtRev, opts.Sigma)
	if err != nil {
		return nil, err
	}

	c, err := deriveC(str, opts.Sigma)
	if err != nil {
		return nil, err
	}

	if err := checkSymmetric(str, rev, opts.Sigma); err != nil {
		return nil, err
	}

	return &BiIndex{
		core: core{
			str:   str,
			c:     c,
			csa:   buildCSA(sa, uint64(opts.SamplingRate), lengths, false),
			sigma: opts.Sigma,
		},
		rev: rev,
	}, nil
}

// checkSymmetric verifies that the forward and reverse transforms hold
// the same symbol multiset.
func checkSymmetric(str, rev rankstr.String, sigma int) error {
	if str.Len() != rev.Len() {
		return fmt.Errorf("%w: forward length %d, reverse length %d",
			ErrInconsistentBuild, str.Len(), rev.Len())
	}

	n := str.Len()

	for sym := 0; sym < sigma; sym++ {
		f := str.Rank(n, uint8(sym))
		r := rev.Rank(n, uint8(sym))

		if f != r {
			return fmt.Errorf("%w: symbol %d occurs %d times forward, %d reverse",
				ErrInconsistentBuild, sym, f, r)
		}
	}

	return nil
}

// Size returns the length of the indexed text including sentinels.
func (bi *BiIndex) Size() uint64 { return bi.size() }

// Sigma returns the alphabet size.
func (bi *BiIndex) Sigma() int { return bi.sigma }

// SamplingRate returns the suffix-array sampling distance.
func (bi *BiIndex) SamplingRate() int { return int(bi.csa.samplingRate) }

// SpaceUsage returns the memory footprint in bytes.
func (bi *BiIndex) SpaceUsage() uint64 {
	return bi.str.SpaceUsage() + bi.rev.SpaceUsage() +
		uint64(len(bi.c))*8 + bi.csa.spaceUsage()
}

// Count returns the number of occurrences of pattern in the indexed
// collection.
func (bi *BiIndex) Count(pattern []byte) uint64 {
	cur := bi.Root()

	for i := len(pattern) - 1; i >= 0; i-- {
		cur = cur.ExtendLeft(pattern[i])
		if cur.Empty() {
			return 0
		}
	}

	return cur.Count()
}
