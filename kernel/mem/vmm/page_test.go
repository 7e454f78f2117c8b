package vmm

import "testing"

func TestPageFromAddressRoundsDown(t *testing.T) {
	tests := []struct {
		addr uint32
		want Page
	}{
		{0x80000000, Page(0x80000000)},
		{0x80000FFF, Page(0x80000000)},
		{0x80001000, Page(0x80001000)},
		{0x80001ABC, Page(0x80001000)},
	}

	for _, tt := range tests {
		if got := PageFromAddress(tt.addr); got != tt.want {
			t.Fatalf("PageFromAddress(%#x): expected %#x; got %#x", tt.addr, tt.want, got)
		}
	}
}

func TestPageAddress(t *testing.T) {
	p := Page(0x80002000)
	if got := p.Address(); got != 0x80002000 {
		t.Fatalf("expected Address() to return %#x; got %#x", uint32(0x80002000), got)
	}
}
