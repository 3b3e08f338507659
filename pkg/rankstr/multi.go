package rankstr

import (
	"github.com/calvinalkan/fmindex/pkg/bitvec"
)

// Multi is the baseline rank-string: one bitvector per symbol. Rank is a
// single bitvector rank; PrefixRank and AllRanks touch up to sigma
// vectors.
type Multi struct {
	n     uint64
	sigma int
	vecs  []bitvec.Bitvector
}

// multiBlockWidth is the block width of the per-symbol bitvectors.
const multiBlockWidth = 512

// NewMulti builds a Multi over data with the given alphabet size.
func NewMulti(data []byte, sigma int) (*Multi, error) {
	if err := validate(data, sigma); err != nil {
		return nil, err
	}

	n := uint64(len(data))
	vecs := make([]bitvec.Bitvector, sigma)

	for c := 0; c < sigma; c++ {
		v, err := bitvec.NewBlocked(n, multiBlockWidth, func(i uint64) bool {
			return data[i] == uint8(c)
		})
		if err != nil {
			return nil, err
		}

		vecs[c] = v
	}

	return &Multi{n: n, sigma: sigma, vecs: vecs}, nil
}

// Len returns the number of symbols.
func (m *Multi) Len() uint64 { return m.n }

// Sigma returns the alphabet size.
func (m *Multi) Sigma() int { return m.sigma }

// Extension identifies the layout for serialization.
func (m *Multi) Extension() string { return "multi" }

// Symbol returns the symbol at position i.
func (m *Multi) Symbol(i uint64) uint8 {
	for c := 0; c < m.sigma; c++ {
		if m.vecs[c].Symbol(i) {
			return uint8(c)
		}
	}

	// Unreachable on a well-formed structure: exactly one plane holds
	// each position.
	return 0
}

// Rank returns the number of occurrences of c in [0, i).
func (m *Multi) Rank(i uint64, c uint8) uint64 {
	return m.vecs[c].Rank(i)
}

// PrefixRank returns the number of symbols c' <= c in [0, i).
func (m *Multi) PrefixRank(i uint64, c uint8) uint64 {
	var total uint64

	for s := 0; s <= int(c); s++ {
		total += m.vecs[s].Rank(i)
	}

	return total
}

// AllRanks returns ranks and prefix ranks for every symbol at position i.
func (m *Multi) AllRanks(i uint64) (ranks, prefixes []uint64) {
	ranks = make([]uint64, m.sigma)
	prefixes = make([]uint64, m.sigma)

	var acc uint64

	for c := 0; c < m.sigma; c++ {
		ranks[c] = m.vecs[c].Rank(i)
		acc += ranks[c]
		prefixes[c] = acc
	}

	return ranks, prefixes
}

// SpaceUsage returns the memory footprint in bytes.
func (m *Multi) SpaceUsage() uint64 {
	var total uint64

	for _, v := range m.vecs {
		total += v.SpaceUsage()
	}

	return total + 24
}
