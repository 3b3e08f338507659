// Package testutil holds shared helpers for index tests: deterministic
// sequence generators and naive scanning oracles the real structures are
// compared against.
package testutil

import (
	"bytes"
	"math/rand"

	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

// RandomSeqs produces count sequences with lengths in [minLen, maxLen]
// and symbols in [1, sigma).
func RandomSeqs(rng *rand.Rand, count, minLen, maxLen, sigma int) [][]byte {
	seqs := make([][]byte, count)

	for i := range seqs {
		n := minLen
		if maxLen > minLen {
			n += rng.Intn(maxLen - minLen + 1)
		}

		s := make([]byte, n)
		for j := range s {
			s[j] = uint8(1 + rng.Intn(sigma-1))
		}

		seqs[i] = s
	}

	return seqs
}

// RandomPattern draws a pattern of length m over [1, sigma).
func RandomPattern(rng *rand.Rand, m, sigma int) []byte {
	p := make([]byte, m)
	for i := range p {
		p[i] = uint8(1 + rng.Intn(sigma-1))
	}

	return p
}

// ExactOccurrences scans for every exact occurrence of pattern.
func ExactOccurrences(seqs [][]byte, pattern []byte) []fmindex.Position {
	var out []fmindex.Position

	for seqID, s := range seqs {
		for p := 0; p+len(pattern) <= len(s); p++ {
			if bytes.Equal(s[p:p+len(pattern)], pattern) {
				out = append(out, fmindex.Position{SeqID: uint64(seqID), Pos: uint64(p)})
			}
		}
	}

	return out
}

// HammingStarts returns every position where pattern matches with at
// most maxErrors substitutions.
func HammingStarts(seqs [][]byte, pattern []byte, maxErrors int) map[fmindex.Position]struct{} {
	out := make(map[fmindex.Position]struct{})

	for seqID, s := range seqs {
		for p := 0; p+len(pattern) <= len(s); p++ {
			mismatches := 0
			for j, b := range pattern {
				if s[p+j] != b {
					mismatches++
				}
			}

			if mismatches <= maxErrors {
				out[fmindex.Position{SeqID: uint64(seqID), Pos: uint64(p)}] = struct{}{}
			}
		}
	}

	return out
}

// EditStarts returns every position p where some prefix-anchored
// substring s[p:end] is within maxErrors unit-cost edit distance of
// pattern.
func EditStarts(seqs [][]byte, pattern []byte, maxErrors int) map[fmindex.Position]struct{} {
	out := make(map[fmindex.Position]struct{})
	m := len(pattern)

	for seqID, s := range seqs {
		for p := 0; p < len(s); p++ {
			// row[j] = edit distance of pattern[:j] against the text
			// consumed so far.
			row := make([]int, m+1)
			for j := range row {
				row[j] = j
			}

			best := row[m]

			for t := p; t < len(s); t++ {
				next := make([]int, m+1)
				next[0] = row[0] + 1

				for j := 1; j <= m; j++ {
					cost := 1
					if pattern[j-1] == s[t] {
						cost = 0
					}

					next[j] = min(row[j-1]+cost, min(row[j]+1, next[j-1]+1))
				}

				row = next
				best = min(best, row[m])

				stuck := true
				for _, v := range row {
					if v <= maxErrors {
						stuck = false

						break
					}
				}

				if stuck {
					break
				}
			}

			if best <= maxErrors {
				out[fmindex.Position{SeqID: uint64(seqID), Pos: uint64(p)}] = struct{}{}
			}
		}
	}

	return out
}

// PositionSet collects located positions into a set.
func PositionSet(positions []fmindex.Position) map[fmindex.Position]struct{} {
	out := make(map[fmindex.Position]struct{}, len(positions))
	for _, p := range positions {
		out[p] = struct{}{}
	}

	return out
}

// FullSearch returns the single-search scheme consuming the query left
// to right with a flat error window [0, maxErrors] at every step.
func FullSearch(m, maxErrors int) fmindex.Scheme {
	s := fmindex.Search{
		Pi: make([]int, m),
		L:  make([]int, m),
		U:  make([]int, m),
	}

	for i := 0; i < m; i++ {
		s.Pi[i] = i
		s.U[i] = maxErrors
	}

	return fmindex.Scheme{s}
}

// Pigeon2 returns the two-search pigeonhole scheme for one error over a
// query of length m split at m/2: each search keeps one half exact.
func Pigeon2(m int) fmindex.Scheme {
	half := m / 2

	s1 := fmindex.Search{Pi: make([]int, m), L: make([]int, m), U: make([]int, m)}
	for i := 0; i < m; i++ {
		s1.Pi[i] = i
		if i >= half {
			s1.U[i] = 1
		}
	}

	s2 := fmindex.Search{Pi: make([]int, m), L: make([]int, m), U: make([]int, m)}
	for i := 0; i < m-half; i++ {
		s2.Pi[i] = half + i
	}

	for i := m - half; i < m; i++ {
		s2.Pi[i] = m - 1 - i
		s2.U[i] = 1
	}

	return fmindex.Scheme{s1, s2}
}
