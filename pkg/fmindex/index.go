package fmindex

import (
	"fmt"

	"github.com/calvinalkan/fmindex/internal/suffixarr"
	"github.com/calvinalkan/fmindex/pkg/rankstr"
)

// Options configure index construction.
type Options struct {
	// Sigma is the alphabet size including the 0 sentinel. User symbols
	// occupy [1, Sigma).
	Sigma int

	// SamplingRate is the suffix-array sampling distance. Every
	// SamplingRate-th text position plus every sequence start is
	// sampled. Defaults to 16.
	SamplingRate int

	// Threads bounds build-time parallelism. 1 gives a deterministic
	// single-threaded build. Defaults to 1.
	Threads int

	// NewString builds the rank-string over the BWT. Defaults to
	// rankstr.NewEPR16.
	NewString func(data []byte, sigma int) (rankstr.String, error)
}

func (o Options) withDefaults() Options {
	if o.SamplingRate == 0 {
		o.SamplingRate = 16
	}

	if o.Threads == 0 {
		o.Threads = 1
	}

	if o.NewString == nil {
		o.NewString = func(data []byte, sigma int) (rankstr.String, error) {
			return rankstr.NewEPR16(data, sigma)
		}
	}

	return o
}

func (o Options) validate(seqs [][]byte) error {
	switch {
	case o.Sigma < 2 || o.Sigma > 256:
		return fmt.Errorf("%w: sigma %d", ErrInvalidOptions, o.Sigma)
	case o.SamplingRate < 1:
		return fmt.Errorf("%w: sampling rate %d", ErrInvalidOptions, o.SamplingRate)
	case o.Threads < 1:
		return fmt.Errorf("%w: threads %d", ErrInvalidOptions, o.Threads)
	case len(seqs) == 0:
		return fmt.Errorf("%w: no sequences", ErrInvalidOptions)
	}

	return nil
}

// core holds the parts shared by Index and BiIndex: the rank-string
// over the BWT, the first-column table and the sampled suffix array.
type core struct {
	str   rankstr.String
	c     []uint64 // len sigma+1, c[k] = symbols < k in the text
	csa   *csa
	sigma int
}

// deriveC reads per-symbol counts out of the rank-string and verifies
// the first-column invariants.
func deriveC(str rankstr.String, sigma int) ([]uint64, error) {
	n := str.Len()
	c := make([]uint64, sigma+1)

	for sym := 0; sym < sigma; sym++ {
		c[sym+1] = c[sym] + str.Rank(n, uint8(sym))
	}

	if c[sigma] != n {
		return nil, fmt.Errorf("%w: C[sigma]=%d, text length %d",
			ErrInconsistentBuild, c[sigma], n)
	}

	return c, nil
}

// size returns the length of the indexed text including sentinels.
func (co *core) size() uint64 { return co.str.Len() }

// locateRow walks row i backward through the BWT until it hits a
// sampled row, then offsets by the number of steps taken.
func (co *core) locateRow(i uint64) (seqID, pos uint64) {
	var steps uint64

	for {
		if s, p, ok := co.csa.value(i); ok {
			return s, p + steps
		}

		sym := co.str.Symbol(i)
		i = co.c[sym] + co.str.Rank(i, sym)
		steps++
	}
}

// Index is a unidirectional FM-index over a collection of sequences.
// Immutable after construction; safe for concurrent reads.
type Index struct {
	core
}

// New builds an FM-index over seqs.
func New(seqs [][]byte, opts Options) (*Index, error) {
	opts = opts.withDefaults()
	if err := opts.validate(seqs); err != nil {
		return nil, err
	}

	text, lengths, err := flatten(seqs, opts.Sigma)
	if err != nil {
		return nil, err
	}

	sa := suffixarr.Sort(text)
	bwt := bwtOf(text, sa)

	str, err := opts.NewString(bwt, opts.Sigma)
	if err != nil {
		return nil, err
	}

	c, err := deriveC(str, opts.Sigma)
	if err != nil {
		return nil, err
	}

	return &Index{core: core{
		str:   str,
		c:     c,
		csa:   buildCSA(sa, uint64(opts.SamplingRate), lengths, false),
		sigma: opts.Sigma,
	}}, nil
}

// Size returns the length of the indexed text including sentinels.
func (idx *Index) Size() uint64 { return idx.size() }

// Sigma returns the alphabet size.
func (idx *Index) Sigma() int { return idx.sigma }

// SamplingRate returns the suffix-array sampling distance.
func (idx *Index) SamplingRate() int { return int(idx.csa.samplingRate) }

// SpaceUsage returns the memory footprint in bytes.
func (idx *Index) SpaceUsage() uint64 {
	return idx.str.SpaceUsage() + uint64(len(idx.c))*8 + idx.csa.spaceUsage()
}

// Count returns the number of occurrences of pattern in the indexed
// collection.
func (idx *Index) Count(pattern []byte) uint64 {
	cur := idx.Root()

	for i := len(pattern) - 1; i >= 0; i-- {
		cur = cur.ExtendLeft(pattern[i])
		if cur.Empty() {
			return 0
		}
	}

	return cur.Count()
}
