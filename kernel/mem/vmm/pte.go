package vmm

import "github.com/achilleasa/vmemsim/kernel/mem"

// Flag is a single-bit flag that can be set on a page-directory or
// page-table entry: the standard Present/Writable/User/WriteThrough/
// CacheDisable/Accessed/Dirty family, plus Protected and Zero for
// modelling demand paging and copy-on-write bookkeeping.
type Flag uint32

const (
	Present Flag = 1 << iota
	Writable
	User
	WriteThrough
	CacheDisable
	Accessed
	Dirty
	Protected
	Zero
)

// PTE is a 32-bit packed page-directory or page-table entry: 12 flag bits
// (bits 0..11) and a 20-bit page number (bits 12..31). For a directory
// entry the page number indexes the owning process's table vector; for a
// table entry it is the PPN of a data frame.
type PTE uint32

// NewPTE returns a PTE referencing ppn with every flag cleared.
func NewPTE(ppn uint32) PTE {
	return PTE(ppn << mem.PageShift)
}

// GetFlag reports whether f is set.
func (p PTE) GetFlag(f Flag) bool {
	return uint32(p)&uint32(f) != 0
}

// SetFlag sets f.
func (p *PTE) SetFlag(f Flag) {
	*p = PTE(uint32(*p) | uint32(f))
}

// ClearFlag clears f.
func (p *PTE) ClearFlag(f Flag) {
	*p = PTE(uint32(*p) &^ uint32(f))
}

// PPN returns the 20-bit page-number field.
func (p PTE) PPN() uint32 {
	return uint32(p) >> mem.PageShift
}

// SetAddress masks address down to its page-aligned page-number field and
// ORs in the given flags, replacing both the page-number field and the
// specified flags in one step. The low 12 bits of address are always
// masked off before the flags are OR-ed in.
func (p *PTE) SetAddress(address uint32, flags Flag) {
	*p = PTE((address &^ mem.OffsetMask) | uint32(flags))
}

// Address returns the page-aligned address encoded by this entry: its
// page-number field shifted back into address form.
func (p PTE) Address() uint32 {
	return p.PPN() << mem.PageShift
}

// Raw returns the packed 32-bit word.
func (p PTE) Raw() uint32 {
	return uint32(p)
}

// DirIndex extracts the 10-bit page-directory index (bits 22..31) from a
// 32-bit virtual address.
func DirIndex(va uint32) uint32 {
	return (va >> 22) & 0x3FF
}

// TableIndex extracts the 10-bit page-table index (bits 12..21) from a
// 32-bit virtual address.
func TableIndex(va uint32) uint32 {
	return (va >> 12) & 0x3FF
}

// Offset extracts the 12-bit in-page offset (bits 0..11) from a 32-bit
// virtual address.
func Offset(va uint32) uint32 {
	return va & mem.OffsetMask
}
