package pmm

import "testing"

func TestFrameAddress(t *testing.T) {
	f := &Frame{PPN: 7}
	if exp, got := uint32(7<<12), f.Address(); got != exp {
		t.Fatalf("expected Address() to return %x; got %x", exp, got)
	}
}

func TestZeroFrameAlwaysReadsZero(t *testing.T) {
	zero := &Frame{PPN: 0}
	zero.payload[10] = 0xFF // should never happen, but prove IsZero short-circuits reads

	got := zero.ReadBytes(8, 4)
	for _, b := range got {
		if b != 0 {
			t.Fatalf("expected zero frame reads to be all-zero; got %v", got)
		}
	}
}

func TestZeroFrameWritePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected write to the zero frame to panic")
		}
	}()
	zero := &Frame{PPN: 0}
	zero.WriteBytes(0, 4, []byte{1, 2, 3, 4})
}

func TestReadWriteValueRoundTrip(t *testing.T) {
	f := &Frame{PPN: 1}

	WriteValue[uint32](f, 100, 0xDEADBEEF)
	if got := ReadValue[uint32](f, 100); got != 0xDEADBEEF {
		t.Fatalf("expected round-trip uint32 read to return 0xDEADBEEF; got %#x", got)
	}

	WriteValue[int32](f, 200, -1)
	if got := ReadValue[int32](f, 200); got != -1 {
		t.Fatalf("expected round-trip int32 read to return -1; got %d", got)
	}
}

func TestWriteValueAlignment(t *testing.T) {
	f := &Frame{PPN: 1}

	// Index 3 should align down to 0 for a 4-byte write.
	WriteValue[uint32](f, 3, 0x11223344)
	if got := ReadValue[uint32](f, 0); got != 0x11223344 {
		t.Fatalf("expected aligned write at index 3 to land at offset 0; got %#x", got)
	}
}

func TestWriteBytesTruncatesAndPreservesExtra(t *testing.T) {
	f := &Frame{PPN: 1}

	WriteValue[uint32](f, 0, 0xAABBCCDD)
	// Write only 2 bytes worth of data through the raw byte path; the
	// remaining 2 bytes of the aligned 4-byte window should be untouched.
	f.WriteBytes(0, 4, []byte{0x11, 0x22})

	got := f.ReadBytes(0, 4)
	want := []byte{0x11, 0x22, 0xBB, 0xAA}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v at offset %d; got %v", want, i, got)
		}
	}
}
