package fmindex_test

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/fmindex/internal/testutil"
	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

func Test_Serialize_Round_Trip_Answers_Queries_Identically(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(71))
	sigma := 5
	seqs := [][]byte{testutil.RandomPattern(rng, 1000, sigma)}

	idx, err := fmindex.New(seqs, fmindex.Options{Sigma: sigma, SamplingRate: 8})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	restored, err := fmindex.Load(&buf)
	require.NoError(t, err)

	for q := 0; q < 1000; q++ {
		pattern := testutil.RandomPattern(rng, 20, sigma)

		require.Equal(t, idx.Count(pattern), restored.Count(pattern), "query %d", q)

		cur := extendPattern(idx, pattern)
		curRestored := extendPattern(restored, pattern)

		require.Equal(t,
			sortPositions(idx.Locate(cur)),
			sortPositions(restored.Locate(curRestored)),
			"query %d", q)
	}
}

func Test_Serialize_BiIndex_Round_Trip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(73))
	sigma := 4
	seqs := testutil.RandomSeqs(rng, 3, 50, 150, sigma)

	idx, err := fmindex.NewBi(seqs, fmindex.Options{Sigma: sigma, SamplingRate: 4})
	require.NoError(t, err)

	restored, err := fmindex.DecodeBi(idx.Encode())
	require.NoError(t, err)

	for q := 0; q < 50; q++ {
		query := testutil.RandomPattern(rng, 6, sigma)

		fnA, gotA := locateAll(idx)
		idx.SearchScheme(query, testutil.Pigeon2(len(query)), fmindex.ModeEdit, fnA)

		fnB, gotB := locateAll(restored)
		restored.SearchScheme(query, testutil.Pigeon2(len(query)), fmindex.ModeEdit, fnB)

		require.Equal(t, gotA, gotB, "query %v", query)
	}
}

func Test_Serialize_Is_Idempotent_Across_Builds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(79))
	sigma := 6
	seqs := testutil.RandomSeqs(rng, 4, 30, 100, sigma)

	opts := fmindex.Options{Sigma: sigma, SamplingRate: 16}

	first, err := fmindex.New(seqs, opts)
	require.NoError(t, err)

	second, err := fmindex.New(seqs, opts)
	require.NoError(t, err)

	require.Equal(t, first.Encode(), second.Encode())

	// Encoding a decoded index is byte-identical too.
	restored, err := fmindex.Decode(first.Encode())
	require.NoError(t, err)
	require.Equal(t, first.Encode(), restored.Encode())

	firstBi, err := fmindex.NewBi(seqs, opts)
	require.NoError(t, err)

	secondBi, err := fmindex.NewBi(seqs, opts)
	require.NoError(t, err)

	require.Equal(t, firstBi.Encode(), secondBi.Encode())
}

func Test_Deserialize_Rejects_Corrupt_Streams(t *testing.T) {
	t.Parallel()

	idx, err := fmindex.New([][]byte{{1, 2, 3, 2, 1, 3, 3}}, fmindex.Options{Sigma: 4})
	require.NoError(t, err)

	blob := idx.Encode()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "Empty", data: nil},
		{name: "WrongFormatTag", data: append([]byte{9}, blob[1:]...)},
		{name: "Truncated", data: blob[:len(blob)/2]},
		{name: "TrailingGarbage", data: append(append([]byte(nil), blob...), 0xAB)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := fmindex.Decode(testCase.data)
			require.ErrorIs(t, err, fmindex.ErrDeserialize)
		})
	}

	// A unidirectional stream is not a valid bidirectional one.
	_, err = fmindex.DecodeBi(blob)
	require.Error(t, err)
}

func Test_SaveFile_LoadFile_Round_Trip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.fmi")

	idx, err := fmindex.NewBi([][]byte{{1, 2, 1, 2, 3}}, fmindex.Options{Sigma: 4})
	require.NoError(t, err)

	require.NoError(t, idx.SaveFile(path))

	restored, err := fmindex.LoadBiFile(path)
	require.NoError(t, err)
	require.Equal(t, idx.Encode(), restored.Encode())
}
