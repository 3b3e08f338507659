// Package rankstr provides rank-supporting strings over small alphabets.
//
// A rank-string answers Rank(i, c) — the number of occurrences of symbol
// c in the prefix of length i — and PrefixRank(i, c) — the number of
// symbols less than or equal to c — in constant time per query. Strings
// are immutable after construction and safe for concurrent reads.
//
// Three families are provided:
//
//   - [EPR8], [EPR16], [EPR32]: interleaved bit planes with per-symbol
//     block counters sharing the block, so one rank touches one block.
//     The three types differ only in counter width and superblock
//     spacing.
//   - [Multi]: one bitvector per symbol. The baseline; AllRanks touches
//     sigma cache lines.
//   - [Wavelet]: a multiary wavelet tree whose nodes are interleaved
//     strings over the tree arity.
//
// Each implementation carries an Extension tag used to dispatch
// deserialization; see [Encode] and [Decode].
package rankstr
