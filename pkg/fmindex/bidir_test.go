package fmindex_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/fmindex/internal/testutil"
	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

func extendBi(idx *fmindex.BiIndex, left, right []byte) fmindex.BiCursor {
	cur := idx.Root()

	for _, b := range right {
		cur = cur.ExtendRight(b)
	}

	for i := len(left) - 1; i >= 0; i-- {
		cur = cur.ExtendLeft(left[i])
	}

	return cur
}

func Test_BiIndex_Extension_Order_Is_Irrelevant_For_3Mers(t *testing.T) {
	t.Parallel()

	mapping := map[byte]byte{'A': 1, 'C': 2, 'G': 3, 'T': 4}
	seq := mapDNA("ACGTACGT", mapping)

	idx, err := fmindex.NewBi([][]byte{seq}, fmindex.Options{Sigma: 5, SamplingRate: 1})
	require.NoError(t, err)

	for p := 0; p+3 <= len(seq); p++ {
		kmer := seq[p : p+3]

		leftToRight := idx.Root()
		for _, b := range kmer {
			leftToRight = leftToRight.ExtendRight(b)
		}

		rightToLeft := idx.Root()
		for i := len(kmer) - 1; i >= 0; i-- {
			rightToLeft = rightToLeft.ExtendLeft(kmer[i])
		}

		lb1, n1 := leftToRight.Range()
		lb2, n2 := rightToLeft.Range()

		require.Equal(t, lb1, lb2, "kmer at %d", p)
		require.Equal(t, n1, n2, "kmer at %d", p)
		require.Positive(t, n1, "kmer at %d", p)
	}
}

func Test_BiIndex_Every_Split_Yields_The_Same_Cursor(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	sigma := 5
	seqs := testutil.RandomSeqs(rng, 3, 30, 80, sigma)

	idx, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma})
	require.NoError(t, err)

	for q := 0; q < 40; q++ {
		pattern := testutil.RandomPattern(rng, 2+rng.Intn(6), sigma)

		for split := 0; split <= len(pattern); split++ {
			left, right := pattern[:split], pattern[split:]

			// Right part first, then left, against left-then-right.
			a := extendBi(idx, left, right)

			b := idx.Root()
			for i := len(left) - 1; i >= 0; i-- {
				b = b.ExtendLeft(left[i])
			}

			for _, sym := range right {
				b = b.ExtendRight(sym)
			}

			require.Equal(t, a, b, "pattern %v split %d", pattern, split)
		}
	}
}

func Test_BiIndex_Count_Matches_Unidirectional_Index(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(23))
	sigma := 6
	seqs := testutil.RandomSeqs(rng, 2, 40, 100, sigma)

	uni, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma})
	require.NoError(t, err)

	bi, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma})
	require.NoError(t, err)

	for q := 0; q < 40; q++ {
		pattern := testutil.RandomPattern(rng, 1+rng.Intn(6), sigma)
		require.Equal(t, uni.Count(pattern), bi.Count(pattern), "pattern %v", pattern)
	}
}

func Test_BiIndex_ExtendAll_Agrees_With_Single_Extensions(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(29))
	sigma := 5
	seqs := testutil.RandomSeqs(rng, 2, 30, 60, sigma)

	idx, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma})
	require.NoError(t, err)

	cursors := []fmindex.BiCursor{idx.Root()}

	// Walk a few levels of the cursor tree and compare the batched
	// extension against one-symbol extensions at every node.
	for depth := 0; depth < 3; depth++ {
		var next []fmindex.BiCursor

		for _, cur := range cursors {
			if cur.Empty() {
				continue
			}

			lefts := cur.ExtendLeftAll()
			rights := cur.ExtendRightAll()

			require.Len(t, lefts, sigma)
			require.Len(t, rights, sigma)

			for sym := 1; sym < sigma; sym++ {
				require.Equal(t, cur.ExtendLeft(uint8(sym)), lefts[sym],
					"extendLeft(%d)", sym)
				require.Equal(t, cur.ExtendRight(uint8(sym)), rights[sym],
					"extendRight(%d)", sym)

				next = append(next, lefts[sym])
			}
		}

		cursors = next
	}
}

func Test_BiIndex_Parallel_Build_Equals_Serial_Build(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(37))
	sigma := 5
	seqs := testutil.RandomSeqs(rng, 3, 50, 120, sigma)

	serial, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma, Threads: 1})
	require.NoError(t, err)

	parallel, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma, Threads: 4})
	require.NoError(t, err)

	require.Equal(t, serial.Encode(), parallel.Encode())
}
