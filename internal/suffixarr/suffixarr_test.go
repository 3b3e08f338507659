package suffixarr_test

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/fmindex/internal/suffixarr"
)

// naiveSA sorts suffix indexes by comparing the suffixes directly.
func naiveSA(text []byte) []int64 {
	sa := make([]int64, len(text))
	for i := range sa {
		sa[i] = int64(i)
	}

	sort.Slice(sa, func(a, b int) bool {
		return bytes.Compare(text[sa[a]:], text[sa[b]:]) < 0
	})

	return sa
}

func Test_Sort_Matches_Naive_Suffix_Sort(t *testing.T) {
	t.Parallel()

	fixed := []struct {
		name string
		text []byte
	}{
		{name: "Empty", text: nil},
		{name: "Single", text: []byte{1}},
		{name: "Banana", text: []byte("banana\x00")},
		{name: "AllEqual", text: bytes.Repeat([]byte{1}, 100)},
		{name: "TwoSentinels", text: []byte{1, 2, 0, 1, 2, 0}},
	}

	for _, testCase := range fixed {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, naiveSA(testCase.text), suffixarr.Sort(testCase.text))
		})
	}
}

func Test_Sort_Matches_Naive_On_Random_Texts(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))

	for trial := 0; trial < 25; trial++ {
		n := rng.Intn(500)
		sigma := 2 + rng.Intn(8)

		text := make([]byte, n)
		for i := range text {
			text[i] = uint8(rng.Intn(sigma))
		}

		require.Equal(t, naiveSA(text), suffixarr.Sort(text), "trial %d", trial)
	}
}
