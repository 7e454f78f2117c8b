// Package proc implements process lifecycle on top of a vmm.AddressSpace:
// the Sleeping/Running/Terminated state machine, the "ZOMBIE pid" trace
// for operations against a terminated process, and fork/kill's frame
// bookkeeping.
package proc

import (
	"fmt"
	"log/slog"

	"github.com/achilleasa/vmemsim/kernel"
	"github.com/achilleasa/vmemsim/kernel/mem/pmm"
	"github.com/achilleasa/vmemsim/kernel/mem/vmm"
)

// State is a Process's position in its Sleeping/Running/Terminated
// lifecycle.
type State int

const (
	// Sleeping is the state of a newly-created process and of any
	// process not currently scheduled.
	Sleeping State = iota
	// Running is the state of the single process the simulator is
	// currently dispatching operations to.
	Running
	// Terminated is the final state after Kill; every subsequent
	// operation against the process is a ZOMBIE no-op.
	Terminated
)

func (s State) String() string {
	switch s {
	case Sleeping:
		return "Sleeping"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Process is one simulated user process: a PID, a lifecycle state and the
// address space it owns. Embedding *vmm.AddressSpace promotes Mapped/Map
// directly; Read/Write are overridden here to gate them on State first,
// since both require the process to be Running.
type Process struct {
	PID   uint32
	State State
	Debug bool

	pool   *pmm.Pool
	logger *slog.Logger

	*vmm.AddressSpace
}

// New allocates a fresh, empty address space for pid and returns it
// Sleeping.
func New(pid uint32, pool *pmm.Pool, logger *slog.Logger, debug bool) (*Process, *kernel.Error) {
	as, err := vmm.NewAddressSpace(pool, logger, debug)
	if err != nil {
		return nil, err
	}

	return &Process{
		PID:          pid,
		State:        Sleeping,
		Debug:        debug,
		pool:         pool,
		logger:       logger,
		AddressSpace: as,
	}, nil
}

// WakeUp transitions Sleeping to Running.
func (p *Process) WakeUp() {
	p.State = Running
}

// Yield transitions Running to Sleeping.
func (p *Process) Yield() {
	p.State = Sleeping
}

func (p *Process) traceZombie() {
	p.logger.Info(fmt.Sprintf("ZOMBIE %d", p.PID))
}

// Write gates the embedded AddressSpace.Write behind the Running
// precondition: a process that is not Running emits a ZOMBIE trace and
// no-ops.
func (p *Process) Write(va uint32, value vmm.Value) *kernel.Error {
	if p.State != Running {
		p.traceZombie()
		return nil
	}
	return p.AddressSpace.Write(va, value)
}

// Read gates the embedded AddressSpace.Read behind the Running
// precondition: a process that is not Running emits a ZOMBIE trace and
// returns (Value{}, false).
func (p *Process) Read(va uint32, kind vmm.ValueKind) (vmm.Value, bool) {
	if p.State != Running {
		p.traceZombie()
		return vmm.Value{}, false
	}
	return p.AddressSpace.Read(va, kind)
}

// Fork produces a Sleeping child with the given PID sharing this
// process's data frames under copy-on-write, and puts this process to
// sleep (the parent yields and a Sleeping child is returned).
func (p *Process) Fork(childPID uint32) (*Process, *kernel.Error) {
	childAS, err := p.AddressSpace.Fork()
	if err != nil {
		return nil, err
	}

	p.Yield()

	return &Process{
		PID:          childPID,
		State:        Sleeping,
		Debug:        p.Debug,
		pool:         p.pool,
		logger:       p.logger,
		AddressSpace: childAS,
	}, nil
}

// Kill transitions the process to Terminated, releasing every owned data
// frame (decrementing shared refcounts, freeing sole-owned ones),
// unconditionally freeing the directory and every table frame, and
// clearing the table vector so no stale frame handle survives the kill.
func (p *Process) Kill() {
	for _, frame := range p.AddressSpace.OwnedFrames() {
		if frame.RefCount > 1 {
			frame.RefCount--
		} else {
			p.pool.Free(frame)
		}
	}

	p.pool.Free(p.AddressSpace.Directory())
	for _, table := range p.AddressSpace.Tables() {
		p.pool.Free(table)
	}

	p.AddressSpace.ClearTables()
	p.State = Terminated
}
