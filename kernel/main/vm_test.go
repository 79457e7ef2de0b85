package main

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/blessingchitra/lula-os/bitfield"
)

func TestVPNLevelsAreFullyParenthesised(t *testing.T) {
	// vpn's shift count must be 12+9*level as a whole, not 9*level
	// added onto the shifted value — a corrected form of a reference
	// macro that folded the addition into the shift count and
	// produced a wrong index at every level but 0. A va with distinct
	// bits at each level's slot pins down the difference.
	const va = uintptr(0x15<<30) | (0x0A << 21) | (0x03 << 12)
	if got := vpn(va, 2); got != 0x15 {
		t.Errorf("vpn(va, 2) = 0x%x, want 0x15", got)
	}
	if got := vpn(va, 1); got != 0x0A {
		t.Errorf("vpn(va, 1) = 0x%x, want 0x0a", got)
	}
	if got := vpn(va, 0); got != 0x03 {
		t.Errorf("vpn(va, 0) = 0x%x, want 0x03", got)
	}
}

func TestPTEPhysAddrRoundTrip(t *testing.T) {
	const pa = uintptr(0x8765_4000) // page-aligned
	packed := ptePPN(pa) | 1        // valid bit set, matching bitfield's layout
	if got := pteToPA(packed); got != pa {
		t.Fatalf("pteToPA(ptePPN(0x%x)) = 0x%x, want 0x%x", pa, got, pa)
	}
	if !pteValid(packed) {
		t.Fatal("a PTE with V set must report valid")
	}
	if pteValid(packed &^ 1) {
		t.Fatal("a PTE with V cleared must report invalid")
	}
}

// testPage stands in for a physical page: a 512-word table the test
// addresses through its own uintptr, exactly the shape tableAt expects.
type testPage struct {
	words [ptesPerTable]uint64
}

func (p *testPage) addr() uintptr { return uintptr(unsafe.Pointer(&p.words[0])) }

// alignedTestPages returns n testPages at 4 KiB-aligned addresses, as
// real page-table pages are: a PTE keeps only the address's page
// number, so a table the walker follows must start on a page boundary.
func alignedTestPages(t *testing.T, n int) []*testPage {
	t.Helper()
	backing := make([]byte, (n+1)*PageSize)
	t.Cleanup(func() { runtime.KeepAlive(backing) })
	base := unsafe.Pointer(&backing[0])
	off := alignUp(uintptr(base), PageSize) - uintptr(base)
	pages := make([]*testPage, n)
	for i := range pages {
		pages[i] = (*testPage)(unsafe.Add(base, off+uintptr(i)*PageSize))
	}
	return pages
}

func TestAddrDbgWalksThreeLevels(t *testing.T) {
	pages := alignedTestPages(t, 3)
	root, l1, leaf := pages[0], pages[1], pages[2]

	const va = uintptr(0x8010_3000)

	l1Packed, err := bitfield.PackPTE(bitfield.PTE{V: true, PPN: uint64(l1.addr() >> PageShift)})
	if err != nil {
		t.Fatal(err)
	}
	root.words[vpn(va, 2)] = l1Packed

	leafTablePacked, err := bitfield.PackPTE(bitfield.PTE{V: true, PPN: uint64(leaf.addr() >> PageShift)})
	if err != nil {
		t.Fatal(err)
	}
	l1.words[vpn(va, 1)] = leafTablePacked

	const leafPA = uintptr(0x9000_0000)
	leafPacked, err := bitfield.PackPTE(bitfield.PTE{V: true, R: true, W: true, PPN: uint64(leafPA >> PageShift)})
	if err != nil {
		t.Fatal(err)
	}
	leaf.words[vpn(va, 0)] = leafPacked

	got := addrDbg(va, root.addr())
	want := AddrDbgResult{Valid: true, R: true, W: true, X: false}
	if got != want {
		t.Fatalf("addrDbg: got %+v, want %+v", got, want)
	}
}

func TestAddrDbgMissingIntermediateTable(t *testing.T) {
	var root testPage
	const va = uintptr(0x8020_4000)
	// root is all zero: the level-2 entry is invalid, so the walk must
	// stop there and report Valid=false rather than dereference a
	// garbage physical address.
	got := addrDbg(va, root.addr())
	if got.Valid {
		t.Fatalf("addrDbg over an empty root table should report Valid=false, got %+v", got)
	}
}
