package rankstr

import (
	mathbits "math/bits"
)

// Wavelet is a multiary wavelet tree. Each node is an interleaved string
// over the tree arity; Rank descends one node per digit of the symbol.
//
// The tree is a full k-ary tree of fixed depth; empty nodes carry
// zero-length strings so descent needs no shape checks.
type Wavelet struct {
	n      uint64
	sigma  int
	arity  int
	digits int // tree depth, ceil(log_arity(sigma))
	nodes  []*EPR16
}

// NewWavelet builds a wavelet tree over data with the given alphabet
// size and arity. Arity must be one of 2, 4, 8 or 16.
func NewWavelet(data []byte, sigma, arity int) (*Wavelet, error) {
	if arity != 2 && arity != 4 && arity != 8 && arity != 16 {
		return nil, ErrInvalidArity
	}

	if err := validate(data, sigma); err != nil {
		return nil, err
	}

	digitBits := mathbits.TrailingZeros(uint(arity))

	digits := 1
	for pow := arity; pow < sigma; pow *= arity {
		digits++
	}

	w := &Wavelet{
		n:      uint64(len(data)),
		sigma:  sigma,
		arity:  arity,
		digits: digits,
	}

	// Build level by level: level l splits on digit (digits-1-l). The
	// node list is laid out level by level, arity^l nodes per level.
	level := [][]byte{data}

	for l := 0; l < digits; l++ {
		shift := (digits - 1 - l) * digitBits
		next := make([][]byte, len(level)*arity)

		for nodeIdx, seq := range level {
			digitSeq := make([]byte, len(seq))

			for i, sym := range seq {
				digitSeq[i] = sym >> shift & uint8(arity-1)
			}

			node, err := NewEPR16(digitSeq, arity)
			if err != nil {
				return nil, err
			}

			w.nodes = append(w.nodes, node)

			if l+1 < digits {
				for i, sym := range seq {
					d := int(digitSeq[i])
					next[nodeIdx*arity+d] = append(next[nodeIdx*arity+d], sym)
				}
			}
		}

		level = next
	}

	return w, nil
}

// Len returns the number of symbols.
func (w *Wavelet) Len() uint64 { return w.n }

// Sigma returns the alphabet size.
func (w *Wavelet) Sigma() int { return w.sigma }

// Extension identifies the layout for serialization.
func (w *Wavelet) Extension() string { return "wavelet" }

// node returns the tree node at the given level holding the symbol path,
// where path is the node index within its level.
func (w *Wavelet) node(level, path int) *EPR16 {
	// Levels 0..level-1 hold 1 + k + ... + k^(level-1) nodes.
	offset := 0
	pow := 1

	for l := 0; l < level; l++ {
		offset += pow
		pow *= w.arity
	}

	return w.nodes[offset+path]
}

func (w *Wavelet) digitBits() int {
	return mathbits.TrailingZeros(uint(w.arity))
}

// Symbol returns the symbol at position i.
func (w *Wavelet) Symbol(i uint64) uint8 {
	db := w.digitBits()

	var sym uint8

	path := 0

	for l := 0; l < w.digits; l++ {
		node := w.node(l, path)
		d := node.Symbol(i)
		sym = sym<<db | d
		i = node.Rank(i, d)
		path = path*w.arity + int(d)
	}

	return sym
}

// Rank returns the number of occurrences of c in [0, i).
func (w *Wavelet) Rank(i uint64, c uint8) uint64 {
	db := w.digitBits()
	path := 0

	for l := 0; l < w.digits; l++ {
		shift := (w.digits - 1 - l) * db
		d := c >> shift & uint8(w.arity-1)
		node := w.node(l, path)
		i = node.Rank(i, d)
		path = path*w.arity + int(d)
	}

	return i
}

// PrefixRank returns the number of symbols c' <= c in [0, i).
func (w *Wavelet) PrefixRank(i uint64, c uint8) uint64 {
	db := w.digitBits()
	path := 0

	var acc uint64

	for l := 0; l < w.digits; l++ {
		shift := (w.digits - 1 - l) * db
		d := c >> shift & uint8(w.arity-1)
		node := w.node(l, path)

		if l == w.digits-1 {
			return acc + node.PrefixRank(i, d)
		}

		if d > 0 {
			acc += node.PrefixRank(i, d-1)
		}

		i = node.Rank(i, d)
		path = path*w.arity + int(d)
	}

	return acc
}

// AllRanks returns ranks and prefix ranks for every symbol at position i.
func (w *Wavelet) AllRanks(i uint64) (ranks, prefixes []uint64) {
	ranks = make([]uint64, w.sigma)
	prefixes = make([]uint64, w.sigma)

	var acc uint64

	for c := 0; c < w.sigma; c++ {
		ranks[c] = w.Rank(i, uint8(c))
		acc += ranks[c]
		prefixes[c] = acc
	}

	return ranks, prefixes
}

// SpaceUsage returns the memory footprint in bytes.
func (w *Wavelet) SpaceUsage() uint64 {
	var total uint64

	for _, node := range w.nodes {
		total += node.SpaceUsage()
	}

	return total + 40
}
