package vmm

import "github.com/achilleasa/vmemsim/kernel/mem"

// Page describes a virtual memory page: the page-aligned base address that
// identifies it. AddressSpace keys its owned-frame map by Page.
type Page uint32

// PageFromAddress returns the Page that contains virtAddr, rounding down
// to the nearest page boundary if virtAddr is not itself page-aligned.
func PageFromAddress(virtAddr uint32) Page {
	return Page(virtAddr &^ (mem.PageSize - 1))
}

// Address returns the page-aligned virtual address of this page.
func (p Page) Address() uint32 {
	return uint32(p)
}
