// Package pmm implements the physical frame pool: a fixed set of 4096-byte
// frames, a free/used list, a shared zero frame and aligned little-endian
// typed access to a frame's payload.
package pmm

import (
	"encoding/binary"

	"github.com/achilleasa/vmemsim/kernel/mem"
)

// Frame is a 4096-byte physical memory page tagged with a physical page
// number and a reference count. It owns its payload directly, since the
// simulator has no physical RAM to index into.
type Frame struct {
	// PPN is this frame's physical page number, unique and nonzero for
	// every frame returned by Pool.Alloc. The shared zero frame has PPN 0.
	PPN uint32

	// RefCount is the number of address-space entries currently pointing
	// at this frame. It is irrelevant for the zero frame.
	RefCount int

	payload [mem.PageSize]byte
}

// IsZero reports whether this is the shared, all-zeros frame.
func (f *Frame) IsZero() bool {
	return f.PPN == 0
}

// Address returns the simulated physical address of this frame: its PPN
// shifted into the high bits, matching the PTE's PPN encoding.
func (f *Frame) Address() uint32 {
	return f.PPN << mem.PageShift
}

// CopyFrom overwrites f's payload with a byte-for-byte copy of src's,
// leaving PPN and RefCount untouched. Used by vmm.AddressSpace.Fork to
// duplicate page-table and directory frames, and by its copy-on-write
// fault path to clone a shared data frame.
func (f *Frame) CopyFrom(src *Frame) {
	f.payload = src.payload
}

func alignedRange(index, size int) (int, int) {
	start := index - (index % size)
	return start, start + size
}

// ReadBytes returns a size-byte slice read at the natural alignment of
// size starting at or before index. Reading the zero frame always yields
// zero bytes regardless of index.
func (f *Frame) ReadBytes(index, size int) []byte {
	out := make([]byte, size)
	if f.IsZero() {
		return out
	}
	start, end := alignedRange(index, size)
	copy(out, f.payload[start:end])
	return out
}

// WriteBytes writes up to size bytes of data at the natural alignment of
// size starting at or before index. Extra source bytes are dropped;
// missing source bytes leave the destination unchanged. Writing to the
// zero frame is a programmer error: the caller must have allocated a
// private frame first.
func (f *Frame) WriteBytes(index, size int, data []byte) {
	if f.IsZero() {
		panic("pmm: write to the shared zero frame")
	}
	start, end := alignedRange(index, size)
	copy(f.payload[start:end], data)
}

// Integer is the set of integer kinds the simulator's typed frame access
// supports.
type Integer interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// ReadValue decodes a little-endian value of type T from the frame at the
// natural alignment of T.
func ReadValue[T Integer](f *Frame, index int) T {
	size := sizeOf[T]()
	return decode[T](f.ReadBytes(index, size))
}

// WriteValue encodes value as little-endian bytes and writes it into the
// frame at the natural alignment of T.
func WriteValue[T Integer](f *Frame, index int, value T) {
	size := sizeOf[T]()
	buf := make([]byte, size)
	encode(buf, value)
	f.WriteBytes(index, size, buf)
}

func sizeOf[T Integer]() int {
	var zero T
	switch any(zero).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32:
		return 4
	default:
		return 8
	}
}

func encode[T Integer](buf []byte, value T) {
	switch len(buf) {
	case 1:
		buf[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(value))
	default:
		binary.LittleEndian.PutUint64(buf, uint64(value))
	}
}

func decode[T Integer](buf []byte) T {
	switch len(buf) {
	case 1:
		return T(buf[0])
	case 2:
		return T(binary.LittleEndian.Uint16(buf))
	case 4:
		return T(binary.LittleEndian.Uint32(buf))
	default:
		return T(binary.LittleEndian.Uint64(buf))
	}
}
