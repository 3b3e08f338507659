// Package suffixarr computes suffix arrays of byte texts.
//
// The index core treats this package as an external collaborator: any
// implementation satisfying the standard suffix-array definition can be
// swapped in. This one uses prefix doubling over byte ranks.
package suffixarr

import (
	"cmp"
	"slices"
)

// Sort returns the suffix array of text: the permutation sa of [0, n)
// such that the suffixes text[sa[i]:] are in ascending lexicographic
// order.
func Sort(text []byte) []int64 {
	n := len(text)
	sa := make([]int64, n)
	rank := make([]int64, n)
	next := make([]int64, n)

	for i := 0; i < n; i++ {
		sa[i] = int64(i)
		rank[i] = int64(text[i])
	}

	for k := 1; n > 1; k *= 2 {
		rankAt := func(i int64) int64 {
			if i < int64(n) {
				return rank[i]
			}

			return -1
		}

		compare := func(a, b int64) int {
			if c := cmp.Compare(rank[a], rank[b]); c != 0 {
				return c
			}

			return cmp.Compare(rankAt(a+int64(k)), rankAt(b+int64(k)))
		}

		slices.SortFunc(sa, compare)

		next[sa[0]] = 0
		for i := 1; i < n; i++ {
			next[sa[i]] = next[sa[i-1]]
			if compare(sa[i-1], sa[i]) < 0 {
				next[sa[i]]++
			}
		}

		copy(rank, next)

		if rank[sa[n-1]] == int64(n-1) {
			break
		}
	}

	return sa
}
