package pmm

import "github.com/achilleasa/vmemsim/kernel"

// FrameCount is the default number of allocatable frames in a Pool: PPNs
// 1..31, 31 frames total.
const FrameCount = 31

// Pool is a fixed pool of physical frames with a free list, an allocation
// journal (the "used list") and the shared zero frame. There is a single
// pool with no hardware memory-map or boot-time reservations to track.
type Pool struct {
	free []*Frame
	used []*Frame

	// zero is the single shared all-zeros frame. It is never placed on
	// either list and never returned to the free list by Free.
	zero Frame
}

// NewPool constructs and initializes a Pool with n allocatable frames,
// PPNs 1..n, with PPN n on top of the free list.
func NewPool(n int) *Pool {
	p := &Pool{}
	p.Init(n)
	return p
}

// Init resets the pool to n fresh, unused frames.
func (p *Pool) Init(n int) {
	p.free = make([]*Frame, 0, n)
	p.used = p.used[:0]
	for ppn := 1; ppn <= n; ppn++ {
		p.free = append(p.free, &Frame{PPN: uint32(ppn)})
	}
}

// Alloc pops the top of the free list, zeroes its payload, resets its
// refcount to 1, and moves it to the used list. It returns
// kernel.ErrOutOfMemory when the free list is empty.
func (p *Pool) Alloc() (*Frame, *kernel.Error) {
	if len(p.free) == 0 {
		return nil, kernel.ErrOutOfMemory
	}

	last := len(p.free) - 1
	f := p.free[last]
	p.free = p.free[:last]

	f.payload = [4096]byte{}
	f.RefCount = 1
	p.used = append(p.used, f)

	return f, nil
}

// Free is a no-op for the shared zero frame. Otherwise it moves f from the
// used list back to the free list; its payload is re-zeroed on the next
// Alloc. It is undefined behaviour to Free a frame whose refcount is not
// exactly 1 at the call site (the caller must have already decremented it).
func (p *Pool) Free(f *Frame) {
	if f.IsZero() {
		return
	}

	for i, candidate := range p.used {
		if candidate == f {
			p.used = append(p.used[:i], p.used[i+1:]...)
			break
		}
	}
	p.free = append(p.free, f)
}

// ZeroFrame returns the shared zero frame handle.
func (p *Pool) ZeroFrame() *Frame {
	return &p.zero
}

// FreeCount reports the number of frames currently on the free list.
func (p *Pool) FreeCount() int {
	return len(p.free)
}

// UsedCount reports the number of frames currently allocated.
func (p *Pool) UsedCount() int {
	return len(p.used)
}
