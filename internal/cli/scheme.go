package cli

import "github.com/calvinalkan/fmindex/pkg/fmindex"

// pigeonScheme expands a pigeonhole search scheme for a query of length
// m with maxErrors errors: the query splits into maxErrors+1 parts and
// each search keeps one part error-free, extending right from that part
// and then left over the remainder.
//
// Scheme generation is a CLI concern; the index core only consumes the
// expanded searches.
func pigeonScheme(m, maxErrors int) fmindex.Scheme {
	if maxErrors == 0 {
		s := fmindex.Search{Pi: make([]int, m), L: make([]int, m), U: make([]int, m)}
		for i := range s.Pi {
			s.Pi[i] = i
		}

		return fmindex.Scheme{s}
	}

	parts := maxErrors + 1
	if parts > m {
		parts = m
	}

	bounds := make([]int, parts+1)
	for p := 0; p <= parts; p++ {
		bounds[p] = p * m / parts
	}

	scheme := make(fmindex.Scheme, 0, parts)

	for p := 0; p < parts; p++ {
		s := fmindex.Search{Pi: make([]int, 0, m), L: make([]int, m), U: make([]int, m)}

		// Anchor part p, then the suffix parts to the right, then the
		// prefix parts leftward.
		for q := bounds[p]; q < m; q++ {
			s.Pi = append(s.Pi, q)
		}

		for q := bounds[p] - 1; q >= 0; q-- {
			s.Pi = append(s.Pi, q)
		}

		anchorLen := bounds[p+1] - bounds[p]
		for i := range s.U {
			if i >= anchorLen {
				s.U[i] = maxErrors
			}
		}

		scheme = append(scheme, s)
	}

	return scheme
}
