package bitvec

import "sort"

// SparseBLE is a two-layer encoding for bitvectors with long runs.
//
// A marker vector of length n flags every position where the bit value
// changes (run starts). A payload vector holds one value bit per run.
// Rank resolves the enclosing run with one rank on the marker and then
// extends the per-run prefix count.
type SparseBLE struct {
	n          uint64
	marker     Bitvector
	payload    Bitvector
	starts     []uint64 // start position of each run
	onesBefore []uint64 // 1-bits before each run start
}

// NewInner builds an inner layer for SparseBLE. The default, used when
// nil is passed to NewSparseBLE, is a Blocked vector with 256-bit blocks.
type NewInner func(n uint64, bit func(uint64) bool) Bitvector

func defaultInner(n uint64, bit func(uint64) bool) Bitvector {
	v, err := NewBlocked(n, 256, bit)
	if err != nil {
		panic(err) // 256 is always a valid width
	}

	return v
}

// NewSparseBLE builds a SparseBLE vector of length n. bit is called once
// per position in order. inner selects the layer implementation.
func NewSparseBLE(n uint64, bit func(uint64) bool, inner NewInner) *SparseBLE {
	if inner == nil {
		inner = defaultInner
	}

	starts, values, onesBefore := splitRuns(n, bit)

	isStart := make(map[uint64]bool, len(starts))
	for _, s := range starts {
		isStart[s] = true
	}

	marker := inner(n, func(i uint64) bool { return isStart[i] })
	payload := inner(uint64(len(values)), func(i uint64) bool { return values[i] })

	return &SparseBLE{
		n:          n,
		marker:     marker,
		payload:    payload,
		starts:     starts,
		onesBefore: onesBefore,
	}
}

// splitRuns decomposes bit(0..n-1) into maximal runs, returning the run
// start positions, the value of each run, and the cumulative 1-count
// before each run.
func splitRuns(n uint64, bit func(uint64) bool) (starts []uint64, values []bool, onesBefore []uint64) {
	var ones uint64

	for i := uint64(0); i < n; i++ {
		v := bit(i)
		if i == 0 || v != values[len(values)-1] {
			starts = append(starts, i)
			values = append(values, v)
			onesBefore = append(onesBefore, ones)
		}

		if v {
			ones++
		}
	}

	return starts, values, onesBefore
}

// Len returns the number of bits.
func (v *SparseBLE) Len() uint64 { return v.n }

// Symbol reports the bit at position i.
func (v *SparseBLE) Symbol(i uint64) bool {
	run := v.marker.Rank(i+1) - 1

	return v.payload.Symbol(run)
}

// Rank returns the number of 1-bits in [0, i).
func (v *SparseBLE) Rank(i uint64) uint64 {
	if i == 0 {
		return 0
	}

	run := v.marker.Rank(i) - 1
	ones := v.onesBefore[run]

	if v.payload.Symbol(run) {
		ones += i - v.starts[run]
	}

	return ones
}

// SpaceUsage returns the memory footprint in bytes.
func (v *SparseBLE) SpaceUsage() uint64 {
	return v.marker.SpaceUsage() + v.payload.SpaceUsage() +
		uint64(len(v.starts)+len(v.onesBefore))*8 + 24
}

// RB is a run-boundary encoding that collapses maximal runs of length two
// or more into a single token. A run of exactly two bits is encoded as a
// run, not as two singletons. Lossless; answers the same API by binary
// search over token boundaries.
type RB struct {
	n          uint64
	tokenStart []uint64
	runFlag    Bitvector // 1 if the token covers two or more bits
	values     Bitvector // bit value per token
	onesBefore []uint64
}

// NewRB builds an RB vector of length n. bit is called once per position
// in order.
func NewRB(n uint64, bit func(uint64) bool) *RB {
	starts, values, onesBefore := splitRuns(n, bit)

	runFlags := make([]bool, len(starts))

	for t := range starts {
		end := n
		if t+1 < len(starts) {
			end = starts[t+1]
		}

		runFlags[t] = end-starts[t] >= 2
	}

	nTokens := uint64(len(starts))
	valVec := defaultInner(nTokens, func(i uint64) bool { return values[i] })
	flagVec := defaultInner(nTokens, func(i uint64) bool { return runFlags[i] })

	return &RB{
		n:          n,
		tokenStart: starts,
		runFlag:    flagVec,
		values:     valVec,
		onesBefore: onesBefore,
	}
}

// token returns the index of the token containing position i.
func (v *RB) token(i uint64) uint64 {
	t := sort.Search(len(v.tokenStart), func(k int) bool {
		return v.tokenStart[k] > i
	})

	return uint64(t - 1)
}

// Len returns the number of bits.
func (v *RB) Len() uint64 { return v.n }

// Symbol reports the bit at position i.
func (v *RB) Symbol(i uint64) bool {
	return v.values.Symbol(v.token(i))
}

// Rank returns the number of 1-bits in [0, i).
func (v *RB) Rank(i uint64) uint64 {
	if i == 0 {
		return 0
	}

	t := v.token(i - 1)
	ones := v.onesBefore[t]

	if v.values.Symbol(t) {
		ones += i - v.tokenStart[t]
	}

	return ones
}

// SpaceUsage returns the memory footprint in bytes.
func (v *RB) SpaceUsage() uint64 {
	return v.values.SpaceUsage() + v.runFlag.SpaceUsage() +
		uint64(len(v.tokenStart)+len(v.onesBefore))*8 + 24
}
