package rankstr

import (
	"encoding/binary"
	"fmt"

	"github.com/calvinalkan/fmindex/pkg/bitvec"
)

// Encode serializes s into a self-describing block: a length-prefixed
// extension tag followed by the layout-specific payload.
func Encode(s String) []byte {
	ext := s.Extension()

	buf := append([]byte{uint8(len(ext))}, ext...)

	switch t := s.(type) {
	case *EPR8:
		buf = appendEPR(buf, t, appendC8)
	case *EPR16:
		buf = appendEPR(buf, t, appendC16)
	case *EPR32:
		buf = appendEPR(buf, t, appendC32)
	case *Multi:
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.sigma))

		for _, v := range t.vecs {
			buf = append(buf, bitvec.Encode(v)...)
		}
	case *Wavelet:
		buf = binary.LittleEndian.AppendUint64(buf, t.n)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.sigma))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.arity))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.digits))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.nodes)))

		for _, node := range t.nodes {
			buf = appendEPR(buf, node, appendC16)
		}
	default:
		panic(fmt.Sprintf("rankstr: cannot encode %T", s))
	}

	return buf
}

// Decode restores a String from the front of data. It returns the string
// and the number of bytes consumed.
func Decode(data []byte) (String, int, error) {
	r := &reader{data: data}

	extLen := int(r.byte())
	if !r.need(extLen) {
		return nil, 0, r.err
	}

	ext := string(r.data[r.off : r.off+extLen])
	r.off += extLen

	var s String

	switch ext {
	case "epr8":
		s = readEPR[uint8](r, readC8)
	case "epr16":
		s = readEPR[uint16](r, readC16)
	case "epr32":
		s = readEPR[uint32](r, readC32)
	case "multi":
		s = readMulti(r)
	case "wavelet":
		s = readWavelet(r)
	default:
		r.fail(fmt.Sprintf("unknown extension %q", ext))
	}

	if r.err != nil {
		return nil, 0, r.err
	}

	return s, r.off, nil
}

func appendEPR[C Counter](buf []byte, e *EPR[C], appendCs func([]byte, []C) []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, e.n)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(e.sigma))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(e.planes))
	buf = appendU64s(buf, e.bits)
	buf = appendCs(buf, e.blocks)
	buf = appendCs(buf, e.blockPrefix)
	buf = appendU64s(buf, e.supers)
	buf = appendU64s(buf, e.superPrefix)

	return buf
}

func readEPR[C Counter](r *reader, readCs func(*reader) []C) *EPR[C] {
	e := &EPR[C]{}
	e.n = r.u64()
	e.sigma = int(r.u32())
	e.planes = int(r.u32())
	e.bits = r.u64s()
	e.blocks = readCs(r)
	e.blockPrefix = readCs(r)
	e.supers = r.u64s()
	e.superPrefix = r.u64s()

	if r.err != nil {
		return nil
	}

	if e.sigma < 2 || e.sigma > maxSigma || e.planes != planesFor(e.sigma) {
		r.fail("epr header")

		return nil
	}

	nBlocks := e.n/64 + 1
	nSupers := e.n/superSpacing[C]() + 1

	if uint64(len(e.bits)) != nBlocks*uint64(e.planes) ||
		uint64(len(e.blocks)) != nBlocks*uint64(e.sigma) ||
		uint64(len(e.blockPrefix)) != nBlocks*uint64(e.sigma) ||
		uint64(len(e.supers)) != nSupers*uint64(e.sigma) ||
		uint64(len(e.superPrefix)) != nSupers*uint64(e.sigma) {
		r.fail("epr lengths")

		return nil
	}

	return e
}

func readMulti(r *reader) *Multi {
	n := r.u64()
	sigma := int(r.u32())

	if r.err != nil {
		return nil
	}

	if sigma < 2 || sigma > maxSigma {
		r.fail("multi sigma")

		return nil
	}

	vecs := make([]bitvec.Bitvector, sigma)

	for c := 0; c < sigma; c++ {
		v, consumed, err := bitvec.Decode(r.data[r.off:])
		if err != nil {
			r.fail(fmt.Sprintf("multi plane %d: %v", c, err))

			return nil
		}

		if v.Len() != n {
			r.fail("multi plane length")

			return nil
		}

		vecs[c] = v
		r.off += consumed
	}

	return &Multi{n: n, sigma: sigma, vecs: vecs}
}

func readWavelet(r *reader) *Wavelet {
	w := &Wavelet{}
	w.n = r.u64()
	w.sigma = int(r.u32())
	w.arity = int(r.u32())
	w.digits = int(r.u32())
	count := r.u64()

	if r.err != nil {
		return nil
	}

	if w.sigma < 2 || w.sigma > maxSigma ||
		(w.arity != 2 && w.arity != 4 && w.arity != 8 && w.arity != 16) {
		r.fail("wavelet header")

		return nil
	}

	want := uint64(0)
	pow := uint64(1)

	for l := 0; l < w.digits; l++ {
		want += pow
		pow *= uint64(w.arity)
	}

	if count != want {
		r.fail("wavelet node count")

		return nil
	}

	w.nodes = make([]*EPR16, count)

	for i := range w.nodes {
		w.nodes[i] = readEPR[uint16](r, readC16)
		if r.err != nil {
			return nil
		}
	}

	return w
}

func appendU64s(buf []byte, vs []uint64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	return buf
}

func appendC8(buf []byte, vs []uint8) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))

	return append(buf, vs...)
}

func appendC16(buf []byte, vs []uint16) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint16(buf, v)
	}

	return buf
}

func appendC32(buf []byte, vs []uint32) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}

	return buf
}

func readC8(r *reader) []uint8 {
	count := r.u64()
	if r.err != nil || count > uint64(len(r.data)) || !r.need(int(count)) {
		r.fail("u8 slice length")

		return nil
	}

	vs := make([]uint8, count)
	copy(vs, r.data[r.off:])
	r.off += int(count)

	return vs
}

func readC16(r *reader) []uint16 {
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

func readC32(r *reader) []uint32 {
	count := r.u64()
	if r.err != nil || count > uint64(len(r.data))/4 || !r.need(int(count)*4) {
		r.fail("u32 slice length")

		return nil
	}

	vs := make([]uint32, count)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint32(r.data[r.off:])
		r.off += 4
	}

	return vs
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

	if n < 0 || r.off+n > len(r.data) {
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
