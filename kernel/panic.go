package kernel

import "log/slog"

// haltFn is mocked by tests; it is the action taken after a fatal error has
// been logged. Outside of tests it calls panic so a driver program can
// recover() at its outermost boundary if it chooses to.
var haltFn = func(err *Error) { panic(err) }

// Fatal logs the supplied error and then halts the simulation. Fatal never
// returns (in the default configuration it panics). Fatal conditions stop
// the simulator immediately rather than leaving state half-updated.
func Fatal(logger *slog.Logger, e any) {
	var err *Error

	switch t := e.(type) {
	case *Error:
		err = t
	case string:
		err = &Error{Module: "rt", Message: t, Kind: KindOutOfMemory}
	case error:
		err = &Error{Module: "rt", Message: t.Error(), Kind: KindOutOfMemory}
	default:
		err = &Error{Module: "rt", Message: "unknown cause", Kind: KindOutOfMemory}
	}

	if logger != nil {
		logger.Error("unrecoverable error", "module", err.Module, "message", err.Message)
	}

	haltFn(err)
}
