package bitfield_test

import (
	"testing"

	"github.com/blessingchitra/lula-os/bitfield"
)

func TestPackPTERoundTrip(t *testing.T) {
	cases := []bitfield.PTE{
		{},
		{V: true},
		{V: true, R: true, W: true, X: true, PPN: 0xF_FFFF_FFFF},
		{V: true, U: true, G: true, A: true, D: true, PPN: 0x1234},
		{V: true, Reserved: 3, PPN: 0},
	}

	for _, want := range cases {
		packed, err := bitfield.PackPTE(want)
		if err != nil {
			t.Fatalf("PackPTE(%+v): %v", want, err)
		}
		got := bitfield.UnpackPTE(packed)
		if got != want {
			t.Errorf("round trip mismatch: packed %d, want %+v, got %+v", packed, want, got)
		}
	}
}

func TestPackPTEOverflowsPPN(t *testing.T) {
	_, err := bitfield.PackPTE(bitfield.PTE{V: true, PPN: 1 << 44})
	if err == nil {
		t.Fatal("expected an error packing a PPN that does not fit in 44 bits")
	}
}

func TestPackPTEBitLayout(t *testing.T) {
	// V|R|W with PPN=0x80000 packs to 0x20000007: bits 0-2 set, PPN
	// shifted left by 10 (the Reserved field's width plus the 8 flag
	// bits) PTE shape.
	packed, err := bitfield.PackPTE(bitfield.PTE{V: true, R: true, W: true, PPN: 0x80000})
	if err != nil {
		t.Fatal(err)
	}
	const want = 0x0000000020000007
	if packed != want {
		t.Fatalf("got 0x%x, want 0x%x", packed, want)
	}
}
