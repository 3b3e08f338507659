package fmindex_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/fmindex/internal/testutil"
	"github.com/calvinalkan/fmindex/pkg/fmindex"
	"github.com/calvinalkan/fmindex/pkg/rankstr"
)

// mapDNA translates an ASCII string using the given symbol mapping.
func mapDNA(s string, mapping map[byte]byte) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = mapping[s[i]]
	}

	return out
}

func sortPositions(ps []fmindex.Position) []fmindex.Position {
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].SeqID != ps[b].SeqID {
			return ps[a].SeqID < ps[b].SeqID
		}

		return ps[a].Pos < ps[b].Pos
	})

	return ps
}

func extendPattern(idx *fmindex.Index, pattern []byte) fmindex.Cursor {
	cur := idx.Root()
	for i := len(pattern) - 1; i >= 0; i-- {
		cur = cur.ExtendLeft(pattern[i])
	}

	return cur
}

func Test_New_Returns_Error_When_Input_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		seqs [][]byte
		opts fmindex.Options
		want error
	}{
		{
			name: "SymbolOutsideAlphabet",
			seqs: [][]byte{{1, 2, 5}},
			opts: fmindex.Options{Sigma: 4},
			want: fmindex.ErrInvalidAlphabet,
		},
		{
			name: "SentinelInsideSequence",
			seqs: [][]byte{{1, 0, 2}},
			opts: fmindex.Options{Sigma: 4},
			want: fmindex.ErrInvalidSentinel,
		},
		{
			name: "SigmaTooSmall",
			seqs: [][]byte{{1}},
			opts: fmindex.Options{Sigma: 1},
			want: fmindex.ErrInvalidOptions,
		},
		{
			name: "NoSequences",
			seqs: nil,
			opts: fmindex.Options{Sigma: 4},
			want: fmindex.ErrInvalidOptions,
		},
		{
			name: "NegativeSampling",
			seqs: [][]byte{{1}},
			opts: fmindex.Options{Sigma: 4, SamplingRate: -1},
			want: fmindex.ErrInvalidOptions,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := fmindex.New(testCase.seqs, testCase.opts)
			require.ErrorIs(t, err, testCase.want)

			_, err = fmindex.NewBi(testCase.seqs, testCase.opts)
			require.ErrorIs(t, err, testCase.want)
		})
	}
}

func Test_Search_Finds_Exact_Matches_In_Single_Sequence(t *testing.T) {
	t.Parallel()

	// "AAACAAACAAA" with A=1, C=2; pattern "AC" occurs at 2 and 6.
	mapping := map[byte]byte{'A': 1, 'C': 2}
	seqs := [][]byte{mapDNA("AAACAAACAAA", mapping)}

	idx, err := fmindex.New(seqs, fmindex.Options{Sigma: 3, SamplingRate: 1})
	require.NoError(t, err)

	pattern := mapDNA("AC", mapping)
	require.Equal(t, uint64(2), idx.Count(pattern))

	got := sortPositions(idx.Locate(extendPattern(idx, pattern)))
	want := []fmindex.Position{{SeqID: 0, Pos: 2}, {SeqID: 0, Pos: 6}}
	require.Equal(t, want, got)
}

func Test_Search_Counts_Across_Multiple_Sequences(t *testing.T) {
	t.Parallel()

	mapping := map[byte]byte{'A': 1, 'B': 2, 'C': 3}
	seqs := [][]byte{
		mapDNA("AAACAAACAAA", mapping),
		mapDNA("AAABAAABAAA", mapping),
	}

	idx, err := fmindex.New(seqs, fmindex.Options{Sigma: 4, SamplingRate: 1})
	require.NoError(t, err)

	pattern := mapDNA("A", mapping)
	require.Equal(t, uint64(18), idx.Count(pattern))

	hits := idx.Locate(extendPattern(idx, pattern))
	require.Len(t, hits, 18)

	perSeq := map[uint64]int{}
	for _, h := range hits {
		perSeq[h.SeqID]++
	}

	require.Equal(t, map[uint64]int{0: 9, 1: 9}, perSeq)
}

func Test_Count_Matches_Naive_Scan_On_Random_Collections(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(21))

	for trial := 0; trial < 10; trial++ {
		sigma := 3 + rng.Intn(6)
		seqs := testutil.RandomSeqs(rng, 1+rng.Intn(4), 10, 120, sigma)

		idx, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma, SamplingRate: 1 + rng.Intn(8)})
		require.NoError(t, err)

		for q := 0; q < 20; q++ {
			pattern := testutil.RandomPattern(rng, 1+rng.Intn(5), sigma)
			want := testutil.ExactOccurrences(seqs, pattern)

			require.Equal(t, uint64(len(want)), idx.Count(pattern),
				"trial %d pattern %v", trial, pattern)

			cur := extendPattern(idx, pattern)
			got := sortPositions(idx.Locate(cur))

			require.Equal(t, sortPositions(want), got,
				"trial %d pattern %v", trial, pattern)
		}
	}
}

func Test_Locate_Positions_Spell_The_Pattern(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(8))
	sigma := 5
	seqs := testutil.RandomSeqs(rng, 3, 40, 90, sigma)

	idx, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma, SamplingRate: 4})
	require.NoError(t, err)

	for q := 0; q < 30; q++ {
		pattern := testutil.RandomPattern(rng, 3, sigma)

		for _, hit := range idx.Locate(extendPattern(idx, pattern)) {
			s := seqs[hit.SeqID]
			require.LessOrEqual(t, hit.Pos+uint64(len(pattern)), uint64(len(s)))
			require.Equal(t, pattern, s[hit.Pos:hit.Pos+uint64(len(pattern))])
		}
	}
}

func Test_Locate_Is_Independent_Of_Sampling_Rate(t *testing.T) {
	t.Parallel()

	// Ten A's over sigma=2; query "AAA" hits positions 0 through 7.
	seq := make([]byte, 10)
	for i := range seq {
		seq[i] = 1
	}

	dense, err := fmindex.New([][]byte{seq}, fmindex.Options{Sigma: 2, SamplingRate: 1})
	require.NoError(t, err)

	sparse, err := fmindex.New([][]byte{seq}, fmindex.Options{Sigma: 2, SamplingRate: 4})
	require.NoError(t, err)

	pattern := []byte{1, 1, 1}

	want := make([]fmindex.Position, 0, 8)
	for p := uint64(0); p < 8; p++ {
		want = append(want, fmindex.Position{SeqID: 0, Pos: p})
	}

	denseHits := sortPositions(dense.Locate(extendPattern(dense, pattern)))
	sparseHits := sortPositions(sparse.Locate(extendPattern(sparse, pattern)))

	require.Equal(t, want, denseHits)
	require.Equal(t, want, sparseHits)
}

func Test_LocateFMTree_Matches_Linear_Locate(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(17))
	sigma := 4
	seqs := testutil.RandomSeqs(rng, 2, 50, 150, sigma)

	for _, rate := range []int{1, 4, 16} {
		idx, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma, SamplingRate: rate})
		require.NoError(t, err)

		for q := 0; q < 20; q++ {
			pattern := testutil.RandomPattern(rng, 1+rng.Intn(4), sigma)
			cur := extendPattern(idx, pattern)

			linear := sortPositions(idx.Locate(cur))

			for _, depth := range []int{0, 1, 2, rate} {
				tree := sortPositions(idx.LocateFMTree(cur, depth))
				if diff := cmp.Diff(linear, tree); diff != "" {
					t.Fatalf("rate %d depth %d (-linear +tree):\n%s", rate, depth, diff)
				}
			}
		}
	}
}

func Test_Index_Works_With_Every_RankString_Family(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	sigma := 5
	seqs := testutil.RandomSeqs(rng, 2, 30, 60, sigma)

	builders := map[string]func(data []byte, s int) (rankstr.String, error){
		"EPR8":  func(d []byte, s int) (rankstr.String, error) { return rankstr.NewEPR8(d, s) },
		"EPR32": func(d []byte, s int) (rankstr.String, error) { return rankstr.NewEPR32(d, s) },
		"Multi": func(d []byte, s int) (rankstr.String, error) { return rankstr.NewMulti(d, s) },
		"Wavelet": func(d []byte, s int) (rankstr.String, error) {
			return rankstr.NewWavelet(d, s, 4)
		},
	}

	reference, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma})
	require.NoError(t, err)

	patterns := make([][]byte, 15)
	for q := range patterns {
		patterns[q] = testutil.RandomPattern(rng, 1+q%4, sigma)
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			idx, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma, NewString: build})
			require.NoError(t, err)

			for _, pattern := range patterns {
				assert.Equal(t, reference.Count(pattern), idx.Count(pattern))
			}
		})
	}
}

func Test_SpaceUsage_Is_Positive(t *testing.T) {
	t.Parallel()

	idx, err := fmindex.New([][]byte{{1, 2, 3, 1, 2}}, fmindex.Options{Sigma: 4})
	require.NoError(t, err)

	assert.Positive(t, idx.SpaceUsage())
	assert.Equal(t, uint64(6), idx.Size())
	assert.Equal(t, 16, idx.SamplingRate())
	assert.Equal(t, 4, idx.Sigma())
}
