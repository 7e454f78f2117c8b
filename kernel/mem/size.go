// Package mem defines the fixed-size page constants shared by the frame
// pool and the page-table walker. The simulator models a single page size
// only; there is no variable-order allocation and no PageOrder concept
// here.
package mem

// PageShift is log2(PageSize); used to convert between a frame/page index
// and the byte offset it addresses.
const PageShift = 12

// PageSize is the size in bytes of every frame and page in the simulator.
const PageSize = 1 << PageShift

// PPNMask masks the 20-bit physical/table page-number field of a 32-bit
// address or PTE word.
const PPNMask = 0xFFFFF

// OffsetMask masks the 12-bit in-page offset of a 32-bit virtual address;
// 12 bits is the mask that actually matches a 4096-byte page, not the
// 10-bit mask a quarter-page offset would imply.
const OffsetMask = 0xFFF
