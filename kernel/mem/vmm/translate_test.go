package vmm

import "testing"

func TestTranslateRoundTrip(t *testing.T) {
	addrs := []uint32{KernBase, KernBase + 4, KernBase + 0x1000, 0x80012340}
	for _, a := range addrs {
		if got := Untranslate(Translate(a)); got != a {
			t.Fatalf("Untranslate(Translate(%#x)): expected %#x; got %#x", a, a, got)
		}
	}
}
