// Package sim is the simulator front end: the process table, the
// current-process selector, and the register/read/write/fork/switch/kill
// operations a driver program calls.
package sim

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/achilleasa/vmemsim/kernel"
	"github.com/achilleasa/vmemsim/kernel/mem/pmm"
	"github.com/achilleasa/vmemsim/kernel/mem/vmm"
	"github.com/achilleasa/vmemsim/kernel/proc"
	"github.com/achilleasa/vmemsim/kernel/sim/pointer"
	"github.com/achilleasa/vmemsim/kernel/trace"
)

// Value, ValueKind and their constructors are re-exported from vmm so
// driver code never needs to import the paging internals directly.
type (
	Value     = vmm.Value
	ValueKind = vmm.ValueKind
)

const (
	Unsigned = vmm.Unsigned
	Signed   = vmm.Signed
)

// NewUnsigned constructs an Unsigned-tagged Value.
func NewUnsigned(u uint32) Value { return vmm.NewUnsigned(u) }

// NewSigned constructs a Signed-tagged Value.
func NewSigned(s int32) Value { return vmm.NewSigned(s) }

// Simulator holds the process list and the current-process index. At
// most one process is Running at a time, except transiently during
// Fork/Kill/Switch.
type Simulator struct {
	pool      *pmm.Pool
	logger    *slog.Logger
	debug     bool
	processes []*proc.Process
	current   int
}

type config struct {
	debug      bool
	frameCount int
	out        io.Writer
}

// Option configures Begin. This mirrors a parameterized Init function
// rather than a config struct, since there is no persisted configuration
// to parse.
type Option func(*config)

// WithDebug toggles the PGZERO/PGCOPY debug trace lines.
func WithDebug(debug bool) Option {
	return func(c *config) { c.debug = debug }
}

// WithFrameCount overrides the default 31-frame pool size.
func WithFrameCount(n int) Option {
	return func(c *config) { c.frameCount = n }
}

// WithOutput redirects the trace stream; it defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// Begin initializes the frame pool, constructs PID 0, wakes it, and
// installs it as the current process.
func Begin(opts ...Option) (*Simulator, *kernel.Error) {
	cfg := config{frameCount: pmm.FrameCount, out: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	pool := pmm.NewPool(cfg.frameCount)
	logger := trace.NewLogger(cfg.out, cfg.debug)

	p0, err := proc.New(0, pool, logger, cfg.debug)
	if err != nil {
		return nil, err
	}
	p0.WakeUp()

	return &Simulator{
		pool:      pool,
		logger:    logger,
		debug:     cfg.debug,
		processes: []*proc.Process{p0},
		current:   0,
	}, nil
}

func (s *Simulator) currentProcess() *proc.Process {
	if len(s.processes) == 0 {
		kernel.Fatal(s.logger, "no current process: every process has been killed")
	}
	return s.processes[s.current]
}

// Logger returns the simulator's trace logger, for a driver that wants to
// emit its own "Value of <name>: <n>" lines through the same stream.
func (s *Simulator) Logger() *slog.Logger {
	return s.logger
}

// Register idempotently maps ptr's virtual address to the shared zero
// frame: a second Register of an already-mapped page traces and no-ops
// instead of allocating.
func (s *Simulator) Register(ptr pointer.Pointer) {
	cur := s.currentProcess()
	if cur.Mapped(ptr.VAddr) {
		s.logger.Info(fmt.Sprintf("Mapping already registered for 0x%x.", ptr.VAddr))
		return
	}

	if err := cur.Map(ptr.VAddr, s.pool.ZeroFrame().Address(), vmm.User|vmm.Zero); err != nil {
		kernel.Fatal(s.logger, err)
	}
}

// Write dispatches to the current process.
func (s *Simulator) Write(ptr pointer.Pointer, value Value) {
	if err := s.currentProcess().Write(ptr.VAddr, value); err != nil {
		kernel.Fatal(s.logger, err)
	}
}

// Read dispatches to the current process.
func (s *Simulator) Read(ptr pointer.Pointer, kind ValueKind) (Value, bool) {
	return s.currentProcess().Read(ptr.VAddr, kind)
}

// Fork clones the current process with PID equal to the current length of
// the process list, makes the clone Running and current, and leaves the
// parent Sleeping.
func (s *Simulator) Fork() {
	parent := s.currentProcess()
	childPID := uint32(len(s.processes))

	child, err := parent.Fork(childPID)
	if err != nil {
		kernel.Fatal(s.logger, err)
		return
	}

	child.WakeUp()
	s.processes = append(s.processes, child)
	s.current = len(s.processes) - 1
}

// Switch yields the current process, sets the current-process index to n,
// and wakes the new current process.
func (s *Simulator) Switch(n int) {
	s.currentProcess().Yield()
	s.current = n
	s.currentProcess().WakeUp()
}

// Kill terminates the current process and removes it from the list. If
// the list becomes empty nothing is woken. Otherwise a current index
// greater than zero is decremented, an index of zero stays at zero, and
// the process now occupying that slot is woken.
func (s *Simulator) Kill() {
	k := s.current
	s.currentProcess().Kill()
	s.processes = append(s.processes[:k], s.processes[k+1:]...)

	if len(s.processes) == 0 {
		return
	}

	if k > 0 {
		s.current = k - 1
	} else {
		s.current = 0
	}
	s.currentProcess().WakeUp()
}

// Print returns a diagnostic dump of every process's directory, tables
// and owned frames.
func (s *Simulator) Print() string {
	out := ""
	for _, p := range s.processes {
		out += fmt.Sprintf(
			"process %d (%s): directory=0x%x tables=%d owned-frames=%d\n",
			p.PID, p.State, p.Directory().Address(), len(p.Tables()), len(p.OwnedFrames()),
		)
	}
	return out
}

// ProcessCount reports the number of live processes.
func (s *Simulator) ProcessCount() int {
	return len(s.processes)
}

// FreeFrameCount reports the number of frames still on the pool's free
// list.
func (s *Simulator) FreeFrameCount() int {
	return s.pool.FreeCount()
}

// CurrentPID reports the PID of the process at the current-process index.
func (s *Simulator) CurrentPID() uint32 {
	return s.currentProcess().PID
}
