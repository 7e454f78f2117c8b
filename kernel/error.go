// Package kernel holds the types and failure-handling primitives shared by
// every subsystem of the simulator: the frame pool, the page-table walker,
// process lifecycle and the simulator front end.
package kernel

// Kind classifies an Error by its recovery policy: fatal kinds halt the
// simulation, recoverable kinds are traced and otherwise no-op.
type Kind int

const (
	// KindOutOfMemory signals frame-pool exhaustion. Fatal.
	KindOutOfMemory Kind = iota
	// KindInvalidAddress signals a walk that reached an unmapped page. Recoverable.
	KindInvalidAddress
	// KindZombieAccess signals an operation against a Terminated process. Recoverable.
	KindZombieAccess
	// KindDuplicateRegistration signals a repeated Register call for the same page. Recoverable.
	KindDuplicateRegistration
	// KindKernelPageWrite signals a write to a non-User page from the user path. Fatal.
	KindKernelPageWrite
)

// Fatal reports whether errors of this kind terminate the simulation
// immediately.
func (k Kind) Fatal() bool {
	return k == KindOutOfMemory || k == KindKernelPageWrite
}

// Error describes a simulator error. Every error is declared once as a
// package-level variable that is a pointer to this structure, avoiding
// ad-hoc errors.New allocations scattered across call sites.
type Error struct {
	// Module is the subsystem that raised the error.
	Module string

	// Message is the human-readable description.
	Message string

	// Kind classifies the error for the recoverable/fatal policy.
	Kind Kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Declared sentinel errors, one per failure mode the simulator can report.
var (
	ErrOutOfMemory = &Error{
		Module:  "pmm",
		Message: "frame pool exhausted",
		Kind:    KindOutOfMemory,
	}
	ErrInvalidAddress = &Error{
		Module:  "vmm",
		Message: "virtual address does not point to a mapped physical page",
		Kind:    KindInvalidAddress,
	}
	ErrZombieAccess = &Error{
		Module:  "proc",
		Message: "operation attempted on a terminated process",
		Kind:    KindZombieAccess,
	}
	ErrDuplicateRegistration = &Error{
		Module:  "sim",
		Message: "virtual page already registered",
		Kind:    KindDuplicateRegistration,
	}
	ErrKernelPageWrite = &Error{
		Module:  "vmm",
		Message: "write to a non-user page from the user path",
		Kind:    KindKernelPageWrite,
	}
)
