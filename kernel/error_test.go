package kernel

import "testing"

func TestErrorImplementsErrorInterface(t *testing.T) {
	err := &Error{
		Module:  "foo",
		Message: "error message",
		Kind:    KindInvalidAddress,
	}

	if err.Error() != err.Message {
		t.Fatalf("expected err.Error() to return %q; got %q", err.Message, err.Error())
	}
}

func TestKindFatal(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindOutOfMemory, true},
		{KindKernelPageWrite, true},
		{KindInvalidAddress, false},
		{KindZombieAccess, false},
		{KindDuplicateRegistration, false},
	}

	for _, tt := range tests {
		if got := tt.kind.Fatal(); got != tt.want {
			t.Fatalf("Kind(%d).Fatal(): expected %v; got %v", tt.kind, tt.want, got)
		}
	}
}

func TestSentinelErrorsCarryExpectedKind(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{ErrOutOfMemory, KindOutOfMemory},
		{ErrInvalidAddress, KindInvalidAddress},
		{ErrZombieAccess, KindZombieAccess},
		{ErrDuplicateRegistration, KindDuplicateRegistration},
		{ErrKernelPageWrite, KindKernelPageWrite},
	}

	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Fatalf("expected %q to carry kind %d; got %d", tt.err.Message, tt.kind, tt.err.Kind)
		}
	}
}
