package fmindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/fmindex/pkg/bitvec"
	"github.com/calvinalkan/fmindex/pkg/rankstr"
)

// formatVersion is the serialization format tag.
const formatVersion = 1

// Encode serializes the index: format tag, rank-string block with C
// table, CSA block.
func (idx *Index) Encode() []byte {
	buf := []byte{formatVersion}
	buf = appendCore(buf, &idx.core)

	return buf
}

// Encode serializes the bidirectional index: the unidirectional layout
// followed by the reverse rank-string block.
func (bi *BiIndex) Encode() []byte {
	buf := []byte{formatVersion}
	buf = appendCore(buf, &bi.core)
	buf = append(buf, rankstr.Encode(bi.rev)...)

	return buf
}

// Save writes the serialized index to w.
func (idx *Index) Save(w io.Writer) error {
	_, err := w.Write(idx.Encode())

	return err
}

// Save writes the serialized index to w.
func (bi *BiIndex) Save(w io.Writer) error {
	_, err := w.Write(bi.Encode())

	return err
}

// SaveFile writes the serialized index to path atomically: the file is
// replaced whole or not at all.
func (idx *Index) SaveFile(path string) error {
	return atomic.WriteFile(path, bytes.NewReader(idx.Encode()))
}

// SaveFile writes the serialized index to path atomically.
func (bi *BiIndex) SaveFile(path string) error {
	return atomic.WriteFile(path, bytes.NewReader(bi.Encode()))
}

// Decode restores an Index from data.
func Decode(data []byte) (*Index, error) {
	d := &decoder{data: data}

	co, err := d.readCore()
	if err != nil {
		return nil, err
	}

	if d.off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDeserialize, len(data)-d.off)
	}

	return &Index{core: *co}, nil
}

// DecodeBi restores a BiIndex from data.
func DecodeBi(data []byte) (*BiIndex, error) {
	d := &decoder{data: data}

	co, err := d.readCore()
	if err != nil {
		return nil, err
	}

	rev, consumed, err := rankstr.Decode(data[d.off:])
	if err != nil {
		return nil, fmt.Errorf("%w: reverse rank-string: %v", ErrDeserialize, err)
	}

	d.off += consumed

	if d.off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDeserialize, len(data)-d.off)
	}

	if err := checkSymmetric(co.str, rev, co.sigma); err != nil {
		return nil, err
	}

	return &BiIndex{core: *co, rev: rev}, nil
}

// Load restores an Index from r.
func Load(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// LoadBi restores a BiIndex from r.
func LoadBi(r io.Reader) (*BiIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return DecodeBi(data)
}

// LoadFile restores an Index from the file at path.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// LoadBiFile restores a BiIndex from the file at path.
func LoadBiFile(path string) (*BiIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return DecodeBi(data)
}

func appendCore(buf []byte, co *core) []byte {
	buf = append(buf, rankstr.Encode(co.str)...)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(co.c)))
	for _, v := range co.c {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	buf = append(buf, bitvec.Encode(co.csa.present)...)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(co.csa.samples)))
	for _, v := range co.csa.samples {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	buf = binary.LittleEndian.AppendUint64(buf, co.csa.samplingRate)
	buf = binary.LittleEndian.AppendUint32(buf, co.csa.bitsForPos)

	return buf
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) fail(what string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrDeserialize, what, d.off)
}

func (d *decoder) u64() (uint64, error) {
	if d.off+8 > len(d.data) {
		return 0, d.fail("truncated")
	}

	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8

	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if d.off+4 > len(d.data) {
		return 0, d.fail("truncated")
	}

	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4

	return v, nil
}

func (d *decoder) u64s() ([]uint64, error) {
	count, err := d.u64()
	if err != nil {
		return nil, err
	}

	if count > uint64(len(d.data))/8 {
		return nil, d.fail("slice length")
	}

	vs := make([]uint64, count)
	for i := range vs {
		vs[i], err = d.u64()
		if err != nil {
			return nil, err
		}
	}

	return vs, nil
}

func (d *decoder) readCore() (*core, error) {
	if len(d.data) == 0 {
		return nil, d.fail("empty stream")
	}

	tag := d.data[d.off]
	d.off++

	if tag != formatVersion {
		return nil, fmt.Errorf("%w: format tag %d, want %d", ErrDeserialize, tag, formatVersion)
	}

	str, consumed, err := rankstr.Decode(d.data[d.off:])
	if err != nil {
		return nil, fmt.Errorf("%w: rank-string: %v", ErrDeserialize, err)
	}

	d.off += consumed

	c, err := d.u64s()
	if err != nil {
		return nil, err
	}

	// The C table is redundant with the rank-string; recomputing it is
	// cheap and catches corrupt counters.
	derived, err := deriveC(str, str.Sigma())
	if err != nil {
		return nil, err
	}

	if len(c) != len(derived) {
		return nil, d.fail("c table length")
	}

	for i := range c {
		if c[i] != derived[i] {
			return nil, d.fail("c table mismatch")
		}
	}

	present, consumed, err := bitvec.Decode(d.data[d.off:])
	if err != nil {
		return nil, fmt.Errorf("%w: csa presence: %v", ErrDeserialize, err)
	}

	d.off += consumed

	samples, err := d.u64s()
	if err != nil {
		return nil, err
	}

	samplingRate, err := d.u64()
	if err != nil {
		return nil, err
	}

	bitsForPos, err := d.u32()
	if err != nil {
		return nil, err
	}

	switch {
	case present.Len() != str.Len():
		return nil, d.fail("csa presence length")
	case uint64(len(samples)) != present.Rank(present.Len()):
		return nil, d.fail("csa sample count")
	case samplingRate < 1:
		return nil, d.fail("sampling rate")
	case bitsForPos < 1 || bitsForPos > 63:
		return nil, d.fail("position bit split")
	}

	return &core{
		str: str,
		c:   c,
		csa: &csa{
			present:      present,
			samples:      samples,
			samplingRate: samplingRate,
			bitsForPos:   bitsForPos,
			posMask:      1<<bitsForPos - 1,
		},
		sigma: str.Sigma(),
	}, nil
}
