// Package bitvec provides static bit sequences with constant-time rank.
//
// All vectors are immutable after construction and safe for concurrent
// reads. Rank(i) returns the number of 1-bits in the prefix of length i,
// for i in [0, Len()]. Access outside that range is a programming error.
//
// # Variants
//
//   - [Blocked]: packed words plus one global counter per block. Block
//     widths of 64 to 2048 bits trade space against the number of words
//     scanned per query.
//   - [TwoLevel]: 16-bit block counters relative to a 65536-bit superblock
//     plus 64-bit superblock counters. Smaller than [Blocked] for the same
//     block width.
//   - [Paired]: adjacent blocks share a counter stored at the pair
//     midpoint; a rank reads one counter and scans at most one block.
//   - [SparseBLE]: two-layer run encoding for vectors with long runs. A
//     marker vector flags run boundaries, a payload vector holds one value
//     bit per run.
//   - [RB]: run-boundary encoding that collapses maximal runs of length
//     two or more into a single token.
//
// Every variant serializes to a self-describing block via [Encode] and is
// restored with [Decode].
package bitvec
