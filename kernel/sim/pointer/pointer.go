// Package pointer is the "pointer shim" external collaborator: it
// fabricates a monotonically increasing simulated virtual address for
// each host variable a driver registers, pairing it with an opaque
// host-side payload the core never dereferences.
//
// Source is an owned counter rather than a mutable global, so a driver
// program can run multiple independent sessions without interference.
package pointer

import "github.com/achilleasa/vmemsim/kernel/mem/vmm"

// Pointer pairs a fabricated virtual address with the host-side value it
// stands in for. Only VAddr influences simulator behaviour; Raw is
// carried through for diagnostics and is never dereferenced by the core.
type Pointer struct {
	VAddr uint32
	Raw   any
}

// Source is a counter starting at vmm.KernBase, incremented by 4 on every
// Next call (one instance per driver session, never shared globally).
type Source struct {
	next uint32
}

// NewSource constructs a counter primed to yield vmm.KernBase+4 on its
// first Next call.
func NewSource() *Source {
	return &Source{next: vmm.KernBase}
}

// Next fabricates the next virtual address and wraps raw alongside it.
func (s *Source) Next(raw any) Pointer {
	s.next += 4
	return Pointer{VAddr: s.next, Raw: raw}
}
