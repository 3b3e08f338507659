package bitvec

import (
	"encoding/binary"
	"fmt"
)

// Serialization tags, one per concrete variant.
const (
	tagBlocked  = 0x01
	tagTwoLevel = 0x02
	tagPaired   = 0x03
	tagSparse   = 0x04
	tagRB       = 0x05
)

// Encode serializes v into a self-describing block.
func Encode(v Bitvector) []byte {
	return appendEncoded(nil, v)
}

func appendEncoded(buf []byte, v Bitvector) []byte {
	switch t := v.(type) {
	case *Blocked:
		buf = append(buf, tagBlocked)
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.blockW))
		buf = appendU64s(buf, t.words)
		buf = appendU64s(buf, t.counts)
	case *TwoLevel:
		buf = append(buf, tagTwoLevel)
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.blockW))
		buf = appendU64s(buf, t.words)
		buf = appendU16s(buf, t.l0)
		buf = appendU64s(buf, t.l1)
	case *Paired:
		buf = append(buf, tagPaired)
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.blockW))
		buf = appendU64s(buf, t.words)
		buf = appendU64s(buf, t.counts)
	case *SparseBLE:
		buf = append(buf, tagSparse)
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = appendEncoded(buf, t.marker)
		buf = appendEncoded(buf, t.payload)
		buf = appendU64s(buf, t.starts)
		buf = appendU64s(buf, t.onesBefore)
	case *RB:
		buf = append(buf, tagRB)
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = appendU64s(buf, t.tokenStart)
		buf = appendEncoded(buf, t.runFlag)
		buf = appendEncoded(buf, t.values)
		buf = appendU64s(buf, t.onesBefore)
	default:
		panic(fmt.Sprintf("bitvec: cannot encode %T", v))
	}

	return buf
}

// Decode restores a Bitvector from the front of data. It returns the
// vector and the number of bytes consumed.
func Decode(data []byte) (Bitvector, int, error) {
	r := &reader{data: data}

	v := decodeFrom(r)
	if r.err != nil {
		return nil, 0, r.err
	}

	return v, r.off, nil
}

func decodeFrom(r *reader) Bitvector {
	tag := r.byte()
	if r.err != nil {
		return nil
	}

	switch tag {
	case tagBlocked:
		n := r.u64()
		bw := uint64(r.u32())
		words := r.u64s()
		counts := r.u64s()

		if r.err != nil {
			return nil
		}

		if !blockWidths[int(bw)] || uint64(len(words)) != (n/bw+1)*bw/64 ||
			uint64(len(counts)) != n/bw+1 {
			r.fail("blocked lengths")

			return nil
		}

		return &Blocked{n: n, blockW: bw, words: words, counts: counts}
	case tagTwoLevel:
		n := r.u64()
		bw := uint64(r.u32())
		words := r.u64s()
		l0 := r.u16s()
		l1 := r.u64s()

		if r.err != nil {
			return nil
		}

		if !blockWidths[int(bw)] || uint64(len(words)) != (n/bw+1)*bw/64 ||
			uint64(len(l0)) != n/bw+1 || uint64(len(l1)) != n/superWidth+1 {
			r.fail("twolevel lengths")

			return nil
		}

		return &TwoLevel{n: n, blockW: bw, words: words, l0: l0, l1: l1}
	case tagPaired:
		n := r.u64()
		bw := uint64(r.u32())
		words := r.u64s()
		counts := r.u64s()

		if r.err != nil {
			return nil
		}

		nPairs := n/(2*bw) + 1
		if !blockWidths[int(bw)] || uint64(len(words)) != nPairs*2*bw/64 ||
			uint64(len(counts)) != nPairs {
			r.fail("paired lengths")

			return nil
		}

		return &Paired{n: n, blockW: bw, words: words, counts: counts}
	case tagSparse:
		n := r.u64()
		marker := decodeFrom(r)
		payload := decodeFrom(r)
		starts := r.u64s()
		onesBefore := r.u64s()

		if r.err != nil {
			return nil
		}

		if marker.Len() != n || len(starts) != len(onesBefore) ||
			payload.Len() != uint64(len(starts)) {
			r.fail("sparse lengths")

			return nil
		}

		return &SparseBLE{n: n, marker: marker, payload: payload, starts: starts, onesBefore: onesBefore}
	case tagRB:
		n := r.u64()
		tokenStart := r.u64s()
		runFlag := decodeFrom(r)
		values := decodeFrom(r)
		onesBefore := r.u64s()

		if r.err != nil {
			return nil
		}

		if len(tokenStart) != len(onesBefore) ||
			values.Len() != uint64(len(tokenStart)) ||
			runFlag.Len() != uint64(len(tokenStart)) {
			r.fail("rb lengths")

			return nil
		}

		return &RB{n: n, tokenStart: tokenStart, runFlag: runFlag, values: values, onesBefore: onesBefore}
	default:
		r.fail(fmt.Sprintf("unknown tag 0x%02x", tag))

		return nil
	}
}

func appendU64s(buf []byte, vs []uint64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	return buf
}

func appendU16s(buf []byte, vs []uint16) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint16(buf, v)
	}

	return buf
}

// reader is a cursor over a serialized block with a sticky error.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s at offset %d", ErrCorrupt, what, r.off)
	}
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}

	if r.off+n > len(r.data) {
		r.fail("truncated")

		return false
	}

	return true
}

func (r *reader) byte() byte {
	if !r.need(1) {
		return 0
	}

	b := r.data[r.off]
	r.off++

	return b
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}

	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4

	return v
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}

	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8

	return v
}

func (r *reader) u64s() []uint64 {
	count := r.u64()
	if r.err != nil || count > uint64(len(r.data))/8 || !r.need(int(count)*8) {
		r.fail("u64 slice length")

		return nil
	}

	vs := make([]uint64, count)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint64(r.data[r.off:])
		r.off += 8
	}

	return vs
}

func (r *reader) u16s() []uint16 {
	count := r.u64()
	if r.err != nil || count > uint64(len(r.data))/2 || !r.need(int(count)*2) {
		r.fail("u16 slice length")

		return nil
	}

	vs := make([]uint16, count)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint16(r.data[r.off:])
		r.off += 2
	}

	return vs
}
