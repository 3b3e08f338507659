package rankstr

import (
	mathbits "math/bits"
)

// Counter is the per-block counter width of an interleaved string.
// Narrower counters shrink the blocks but force more frequent
// superblocks.
type Counter interface {
	uint8 | uint16 | uint32
}

// EPR is an interleaved rank-string: per-block bit planes plus
// occurrence and prefix counters for every symbol stored alongside the
// bits, so a rank query touches a single block region.
//
// Blocks cover 64 symbols. Block counters are relative to the enclosing
// superblock; superblock counters are global 64-bit values.
type EPR[C Counter] struct {
	n      uint64
	sigma  int
	planes int

	bits        []uint64 // nBlocks * planes plane words
	blocks      []C      // nBlocks * sigma occurrence counts
	blockPrefix []C      // nBlocks * sigma prefix counts
	supers      []uint64 // nSupers * sigma occurrence counts
	superPrefix []uint64 // nSupers * sigma prefix counts
}

// EPR8, EPR16 and EPR32 name the supported counter widths.
type (
	EPR8  = EPR[uint8]
	EPR16 = EPR[uint16]
	EPR32 = EPR[uint32]
)

// NewEPR8 builds an interleaved string with 8-bit block counters.
func NewEPR8(data []byte, sigma int) (*EPR8, error) { return newEPR[uint8](data, sigma) }

// NewEPR16 builds an interleaved string with 16-bit block counters.
func NewEPR16(data []byte, sigma int) (*EPR16, error) { return newEPR[uint16](data, sigma) }

// NewEPR32 builds an interleaved string with 32-bit block counters.
func NewEPR32(data []byte, sigma int) (*EPR32, error) { return newEPR[uint32](data, sigma) }

// superSpacing returns the superblock width in symbols for counter C.
// Relative counts stay below the counter maximum because the last block
// of a superblock starts 64 symbols early.
func superSpacing[C Counter]() uint64 {
	switch any(C(0)).(type) {
	case uint8:
		return 256
	case uint16:
		return 65536
	default:
		return 1 << 32
	}
}

func newEPR[C Counter](data []byte, sigma int) (*EPR[C], error) {
	if err := validate(data, sigma); err != nil {
		return nil, err
	}

	n := uint64(len(data))
	planes := planesFor(sigma)
	super := superSpacing[C]()
	nBlocks := n/64 + 1
	nSupers := n/super + 1

	e := &EPR[C]{
		n:           n,
		sigma:       sigma,
		planes:      planes,
		bits:        make([]uint64, nBlocks*uint64(planes)),
		blocks:      make([]C, nBlocks*uint64(sigma)),
		blockPrefix: make([]C, nBlocks*uint64(sigma)),
		supers:      make([]uint64, nSupers*uint64(sigma)),
		superPrefix: make([]uint64, nSupers*uint64(sigma)),
	}

	occ := make([]uint64, sigma)
	rel := make([]uint64, sigma)

	for b := uint64(0); b < nBlocks; b++ {
		pos := b * 64

		if pos%super == 0 {
			s := pos / super

			var accOcc uint64

			for c := 0; c < sigma; c++ {
				e.supers[s*uint64(sigma)+uint64(c)] = occ[c]
				accOcc += occ[c]
				e.superPrefix[s*uint64(sigma)+uint64(c)] = accOcc

				rel[c] = 0
			}
		}

		var acc uint64

		for c := 0; c < sigma; c++ {
			e.blocks[b*uint64(sigma)+uint64(c)] = C(rel[c])
			acc += rel[c]
			e.blockPrefix[b*uint64(sigma)+uint64(c)] = C(acc)
		}

		for k := uint64(0); k < 64 && pos+k < n; k++ {
			sym := data[pos+k]

			for t := 0; t < planes; t++ {
				if sym>>t&1 == 1 {
					e.bits[b*uint64(planes)+uint64(t)] |= 1 << k
				}
			}

			occ[sym]++
			rel[sym]++
		}
	}

	return e, nil
}

// Len returns the number of symbols.
func (e *EPR[C]) Len() uint64 { return e.n }

// Sigma returns the alphabet size.
func (e *EPR[C]) Sigma() int { return e.sigma }

// Extension identifies the layout for serialization.
func (e *EPR[C]) Extension() string {
	switch any(C(0)).(type) {
	case uint8:
		return "epr8"
	case uint16:
		return "epr16"
	default:
		return "epr32"
	}
}

// Symbol returns the symbol at position i, packed from the plane bits.
func (e *EPR[C]) Symbol(i uint64) uint8 {
	b := i / 64
	k := i & 63

	var sym uint8

	for t := 0; t < e.planes; t++ {
		sym |= uint8(e.bits[b*uint64(e.planes)+uint64(t)]>>k&1) << t
	}

	return sym
}

// eqMask returns a word whose bit k is set iff block b holds symbol c at
// offset k.
func (e *EPR[C]) eqMask(b uint64, c uint8) uint64 {
	m := ^uint64(0)

	for t := 0; t < e.planes; t++ {
		w := e.bits[b*uint64(e.planes)+uint64(t)]
		if c>>t&1 == 1 {
			m &= w
		} else {
			m &= ^w
		}
	}

	return m
}

// leMask returns a word whose bit k is set iff block b holds a symbol
// <= c at offset k.
func (e *EPR[C]) leMask(b uint64, c uint8) uint64 {
	res := uint64(0)
	eq := ^uint64(0)

	for t := e.planes - 1; t >= 0; t-- {
		w := e.bits[b*uint64(e.planes)+uint64(t)]
		if c>>t&1 == 1 {
			res |= eq &^ w
			eq &= w
		} else {
			eq &= ^w
		}
	}

	return res | eq
}

func lowMask(r uint64) uint64 {
	return 1<<r - 1
}

// Rank returns the number of occurrences of c in [0, i).
func (e *EPR[C]) Rank(i uint64, c uint8) uint64 {
	b := i / 64
	s := i / superSpacing[C]()

	inBlock := uint64(mathbits.OnesCount64(e.eqMask(b, c) & lowMask(i&63)))

	return e.supers[s*uint64(e.sigma)+uint64(c)] +
		uint64(e.blocks[b*uint64(e.sigma)+uint64(c)]) +
		inBlock
}

// PrefixRank returns the number of symbols c' <= c in [0, i).
func (e *EPR[C]) PrefixRank(i uint64, c uint8) uint64 {
	b := i / 64
	s := i / superSpacing[C]()

	inBlock := uint64(mathbits.OnesCount64(e.leMask(b, c) & lowMask(i&63)))

	return e.superPrefix[s*uint64(e.sigma)+uint64(c)] +
		uint64(e.blockPrefix[b*uint64(e.sigma)+uint64(c)]) +
		inBlock
}

// AllRanks returns ranks and prefix ranks for every symbol at position i.
func (e *EPR[C]) AllRanks(i uint64) (ranks, prefixes []uint64) {
	b := i / 64
	s := i / superSpacing[C]()
	sigma := uint64(e.sigma)

	ranks = make([]uint64, e.sigma)
	prefixes = make([]uint64, e.sigma)

	for c := uint64(0); c < sigma; c++ {
		ranks[c] = e.supers[s*sigma+c] + uint64(e.blocks[b*sigma+c])
	}

	for k := uint64(0); k < i&63; k++ {
		var sym uint8

		for t := 0; t < e.planes; t++ {
			sym |= uint8(e.bits[b*uint64(e.planes)+uint64(t)]>>k&1) << t
		}

		ranks[sym]++
	}

	var acc uint64

	for c := uint64(0); c < sigma; c++ {
		acc += ranks[c]
		prefixes[c] = acc
	}

	return ranks, prefixes
}

// SpaceUsage returns the memory footprint in bytes.
func (e *EPR[C]) SpaceUsage() uint64 {
	var c C

	cw := uint64(1)

	switch any(c).(type) {
	case uint16:
		cw = 2
	case uint32:
		cw = 4
	}

	return uint64(len(e.bits))*8 +
		uint64(len(e.blocks)+len(e.blockPrefix))*cw +
		uint64(len(e.supers)+len(e.superPrefix))*8 + 32
}
