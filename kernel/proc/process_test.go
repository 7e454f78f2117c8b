package proc

import (
	"io"
	"log/slog"
	"testing"

	"github.com/achilleasa/vmemsim/kernel/mem/pmm"
	"github.com/achilleasa/vmemsim/kernel/mem/vmm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProcess(t *testing.T, pid uint32, pool *pmm.Pool) *Process {
	t.Helper()
	p, err := New(pid, pool, testLogger(), true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewProcessStartsSleeping(t *testing.T) {
	pool := pmm.NewPool(pmm.FrameCount)
	p := newProcess(t, 0, pool)
	if p.State != Sleeping {
		t.Fatalf("expected a new process to start Sleeping; got %v", p.State)
	}
}

func TestWakeUpAndYield(t *testing.T) {
	pool := pmm.NewPool(pmm.FrameCount)
	p := newProcess(t, 0, pool)

	p.WakeUp()
	if p.State != Running {
		t.Fatalf("expected WakeUp to set Running; got %v", p.State)
	}

	p.Yield()
	if p.State != Sleeping {
		t.Fatalf("expected Yield to set Sleeping; got %v", p.State)
	}
}

// A terminated process emits ZOMBIE traces and no-ops on read/write.
func TestKillProducesZombieBehavior(t *testing.T) {
	pool := pmm.NewPool(pmm.FrameCount)
	p := newProcess(t, 0, pool)
	p.WakeUp()

	const va = vmm.KernBase
	if err := p.Map(va, 0, vmm.Present|vmm.Zero|vmm.User); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := p.Write(va, vmm.NewUnsigned(7)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	usedBefore := pool.UsedCount()
	p.Kill()

	if p.State != Terminated {
		t.Fatalf("expected Kill to set Terminated; got %v", p.State)
	}
	if pool.UsedCount() >= usedBefore {
		t.Fatalf("expected Kill to free this process's frames back to the pool")
	}

	if err := p.Write(va, vmm.NewUnsigned(9)); err != nil {
		t.Fatalf("expected Write on a terminated process to return nil, not an error: %v", err)
	}
	if _, ok := p.Read(va, vmm.Unsigned); ok {
		t.Fatal("expected Read on a terminated process to report not-ok")
	}
}

// Kill must decrement, not free, a data frame still shared with a forked
// sibling.
func TestKillRespectsSharedFrameRefcount(t *testing.T) {
	pool := pmm.NewPool(pmm.FrameCount)
	parent := newProcess(t, 0, pool)
	parent.WakeUp()

	const va = vmm.KernBase
	if err := parent.Map(va, 0, vmm.Present|vmm.Zero|vmm.User); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := parent.Write(va, vmm.NewUnsigned(1)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	child, err := parent.Fork(1)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	child.WakeUp()

	sharedFrame := parent.OwnedFrames()[vmm.PageFromAddress(va)]
	if sharedFrame.RefCount != 2 {
		t.Fatalf("expected shared refcount 2 before kill; got %d", sharedFrame.RefCount)
	}

	parent.Kill()
	if sharedFrame.RefCount != 1 {
		t.Fatalf("expected Kill to decrement, not free, a shared frame; got refcount %d", sharedFrame.RefCount)
	}

	v, ok := child.Read(va, vmm.Unsigned)
	if !ok || v.Unsigned() != 1 {
		t.Fatalf("expected the child to still read the shared value after the parent's death; got %+v ok=%v", v, ok)
	}
}

func TestForkParentSleepsChildSleeps(t *testing.T) {
	pool := pmm.NewPool(pmm.FrameCount)
	parent := newProcess(t, 0, pool)
	parent.WakeUp()

	child, err := parent.Fork(1)
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	if parent.State != Sleeping {
		t.Fatalf("expected fork to put the parent to sleep; got %v", parent.State)
	}
	if child.State != Sleeping {
		t.Fatalf("expected a forked child to start Sleeping; got %v", child.State)
	}
	if child.PID != 1 {
		t.Fatalf("expected child PID 1; got %d", child.PID)
	}
}
