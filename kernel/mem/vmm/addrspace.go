package vmm

import (
	"fmt"
	"log/slog"

	"github.com/achilleasa/vmemsim/kernel"
	"github.com/achilleasa/vmemsim/kernel/mem"
	"github.com/achilleasa/vmemsim/kernel/mem/pmm"
)

// AddressSpace is a process's private two-level page table plus the set of
// data frames it currently owns. It is the heart of the simulator: every
// Map, Read and Write call walks the directory and table it holds, and
// Fork produces a sibling AddressSpace sharing data frames under
// copy-on-write.
type AddressSpace struct {
	pool   *pmm.Pool
	logger *slog.Logger
	debug  bool

	dir    *pmm.Frame
	tables []*pmm.Frame

	// pages maps a page base to the frame this address space currently
	// owns or shares for it. Pages backed by the shared zero frame are
	// never present here; they are identified purely by the Zero PTE
	// flag.
	pages map[Page]*pmm.Frame
}

// NewAddressSpace allocates a fresh directory frame and returns an empty
// AddressSpace. logger receives the "Invalid address", "PGZERO" and
// "PGCOPY" trace lines; debug gates the PGZERO and PGCOPY lines, which are
// considered debug-level detail.
func NewAddressSpace(pool *pmm.Pool, logger *slog.Logger, debug bool) (*AddressSpace, *kernel.Error) {
	dir, err := pool.Alloc()
	if err != nil {
		return nil, err
	}

	return &AddressSpace{
		pool:   pool,
		logger: logger,
		debug:  debug,
		dir:    dir,
		pages:  make(map[Page]*pmm.Frame),
	}, nil
}

// Directory returns the address space's page directory frame. Exposed so
// proc.Process can free it on Kill.
func (as *AddressSpace) Directory() *pmm.Frame {
	return as.dir
}

// Tables returns the address space's page table frames, in allocation
// order. Exposed so proc.Process can free them on Kill.
func (as *AddressSpace) Tables() []*pmm.Frame {
	return as.tables
}

// OwnedFrames returns the data frames this address space currently owns
// or shares, keyed by page base. Exposed so proc.Process can release them
// (refcount-aware) on Kill.
func (as *AddressSpace) OwnedFrames() map[Page]*pmm.Frame {
	return as.pages
}

// ClearTables drops this address space's directory, table-frame vector and
// owned-frame map. Called after proc.Process.Kill has returned every frame
// to the pool, so no stale handle here can observe a frame that has since
// been reallocated to a different, live process.
func (as *AddressSpace) ClearTables() {
	as.dir = nil
	as.tables = nil
	as.pages = make(map[Page]*pmm.Frame)
}

func (as *AddressSpace) pdeAt(pdx uint32) PTE {
	return PTE(pmm.ReadValue[uint32](as.dir, int(pdx*4)))
}

func (as *AddressSpace) setPDE(pdx uint32, pte PTE) {
	pmm.WriteValue[uint32](as.dir, int(pdx*4), pte.Raw())
}

func (as *AddressSpace) pteAt(table *pmm.Frame, ptx uint32) PTE {
	return PTE(pmm.ReadValue[uint32](table, int(ptx*4)))
}

func (as *AddressSpace) setPTE(table *pmm.Frame, ptx uint32, pte PTE) {
	pmm.WriteValue[uint32](table, int(ptx*4), pte.Raw())
}

// walk resolves va down to its PTE without allocating anything. ok is
// false when the directory entry or the table entry is not Present.
func (as *AddressSpace) walk(va uint32) (table *pmm.Frame, ptx uint32, pte PTE, ok bool) {
	pdx := DirIndex(va)
	ptx = TableIndex(va)

	pde := as.pdeAt(pdx)
	if !pde.GetFlag(Present) {
		return nil, ptx, PTE(0), false
	}

	table = as.tables[pde.PPN()]
	pte = as.pteAt(table, ptx)
	return table, ptx, pte, pte.GetFlag(Present)
}

// Mapped reports whether va resolves to a Present PTE.
func (as *AddressSpace) Mapped(va uint32) bool {
	_, _, _, ok := as.walk(va)
	return ok
}

// Map installs a PTE for va pointing at physical address pa with the given
// flags, allocating a new page-table frame on demand when va's directory
// entry is not yet Present. Present and Accessed are always forced on,
// regardless of flags.
func (as *AddressSpace) Map(va, pa uint32, flags Flag) *kernel.Error {
	pdx := DirIndex(va)
	ptx := TableIndex(va)

	pde := as.pdeAt(pdx)
	if !pde.GetFlag(Present) {
		table, err := as.pool.Alloc()
		if err != nil {
			return err
		}
		as.tables = append(as.tables, table)

		var newPDE PTE
		newPDE.SetAddress(uint32(len(as.tables)-1)<<mem.PageShift, Present|Protected|Writable|Accessed)
		as.setPDE(pdx, newPDE)
		pde = newPDE
	}

	table := as.tables[pde.PPN()]
	pte := as.pteAt(table, ptx)
	pte.SetAddress(pa, flags)
	pte.SetFlag(Present | Accessed)
	as.setPTE(table, ptx, pte)

	return nil
}

// Read resolves va and decodes the word stored there as kind. ok is false
// when va is not mapped, in which case an "Invalid address" trace line is
// emitted and the caller should treat the access as a no-op.
func (as *AddressSpace) Read(va uint32, kind ValueKind) (Value, bool) {
	_, _, pte, ok := as.walk(va)
	if !ok {
		as.traceInvalidAddress(va)
		return Value{}, false
	}

	if pte.GetFlag(Zero) {
		return ZeroValue(kind), true
	}

	frame := as.pages[PageFromAddress(va)]
	raw := pmm.ReadValue[uint32](frame, int(Offset(va)))
	return valueFromRaw(kind, raw), true
}

// Write resolves va and stores value there, handling the lazy-zero fault
// and the copy-on-write fault. It returns a fatal *kernel.Error on
// frame-pool exhaustion or on a write to a non-User page, and nil (after
// emitting a trace line) for every recoverable outcome.
func (as *AddressSpace) Write(va uint32, value Value) *kernel.Error {
	for {
		table, ptx, pte, ok := as.walk(va)
		if !ok {
			as.traceInvalidAddress(va)
			return nil
		}

		page := PageFromAddress(va)

		switch {
		case pte.GetFlag(Zero):
			frame, err := as.pool.Alloc()
			if err != nil {
				return err
			}

			var fresh PTE
			fresh.SetAddress(frame.Address(), Present|Writable|User|Accessed)
			as.setPTE(table, ptx, fresh)
			as.pages[page] = frame

			if as.debug {
				as.logger.Debug(fmt.Sprintf("PGZERO: 0x%x", page.Address()))
			}
			continue

		case pte.GetFlag(Writable):
			if !pte.GetFlag(User) {
				return kernel.ErrKernelPageWrite
			}

			frame := as.pages[page]
			pmm.WriteValue[uint32](frame, int(Offset(va)), value.Raw())

			pte.SetFlag(Dirty)
			as.setPTE(table, ptx, pte)
			return nil

		default:
			frame := as.pages[page]

			if frame.RefCount > 1 {
				frame.RefCount--

				fresh, err := as.pool.Alloc()
				if err != nil {
					return err
				}
				fresh.CopyFrom(frame)

				var newPTE PTE
				newPTE.SetAddress(fresh.Address(), Present|Writable|User|Accessed)
				as.setPTE(table, ptx, newPTE)
				as.pages[page] = fresh

				if as.debug {
					as.logger.Debug(fmt.Sprintf("PGCOPY: 0x%x", page.Address()))
				}
				continue
			}

			pte.SetFlag(Writable)
			pte.ClearFlag(Dirty)
			as.setPTE(table, ptx, pte)
			continue
		}
	}
}

func (as *AddressSpace) traceInvalidAddress(va uint32) {
	as.logger.Info(fmt.Sprintf("Invalid address 0x%x", va))
}

// Fork duplicates this address space for a child process: the directory
// and every page-table frame are deep-copied (they are never shared), and
// every data frame this address space owns has its refcount incremented
// and its Writable bit cleared on both sides, deferring the actual copy
// to the next write against either side.
func (as *AddressSpace) Fork() (*AddressSpace, *kernel.Error) {
	childDir, err := as.pool.Alloc()
	if err != nil {
		return nil, err
	}
	childDir.CopyFrom(as.dir)

	childTables := make([]*pmm.Frame, len(as.tables))
	for i, t := range as.tables {
		ct, err := as.pool.Alloc()
		if err != nil {
			return nil, err
		}
		ct.CopyFrom(t)
		childTables[i] = ct
	}

	child := &AddressSpace{
		pool:   as.pool,
		logger: as.logger,
		debug:  as.debug,
		dir:    childDir,
		tables: childTables,
		pages:  make(map[Page]*pmm.Frame, len(as.pages)),
	}

	for page, frame := range as.pages {
		va := page.Address()
		pdx := DirIndex(va)
		ptx := TableIndex(va)

		pde := as.pdeAt(pdx)
		parentTable := as.tables[pde.PPN()]
		parentPTE := as.pteAt(parentTable, ptx)
		if !parentPTE.GetFlag(Present) || parentPTE.GetFlag(Zero) {
			continue
		}

		frame.RefCount++

		parentPTE.ClearFlag(Writable)
		as.setPTE(parentTable, ptx, parentPTE)

		childTable := child.tables[pde.PPN()]
		childPTE := child.pteAt(childTable, ptx)
		childPTE.ClearFlag(Writable)
		child.setPTE(childTable, ptx, childPTE)

		child.pages[page] = frame
	}

	return child, nil
}
