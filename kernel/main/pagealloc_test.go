package main

import "testing"

func TestPageFrameAllocatorExhaustion(t *testing.T) {
	// 3-page arena: one bitmap word is plenty, pageCount caps it at 3
	// even though the word has 64 bits to give out.
	var bitmap [1]uint64
	const allocStart = 0x9000_0000
	a := newPageFrameAllocatorOverBitmap(bitmap[:], allocStart, 3)

	var got []uintptr
	for i := 0; i < 3; i++ {
		addr, ok := a.Allocate()
		if !ok {
			t.Fatalf("allocate %d: expected ok, got false", i)
		}
		got = append(got, addr)
	}

	if _, ok := a.Allocate(); ok {
		t.Fatal("4th allocate on a 3-page arena should fail")
	}

	for i, addr := range got {
		want := uintptr(allocStart) + uintptr(i)*PageSize
		if addr != want {
			t.Errorf("page %d: got 0x%x, want 0x%x", i, addr, want)
		}
		if !a.PageAllocated(addr) {
			t.Errorf("page %d: PageAllocated should report true", i)
		}
	}

	a.Deallocate(got[1])
	if a.PageAllocated(got[1]) {
		t.Fatal("page 1 should be free after Deallocate")
	}
	addr, ok := a.Allocate()
	if !ok || addr != got[1] {
		t.Fatalf("allocate after free: got (0x%x, %v), want (0x%x, true)", addr, ok, got[1])
	}
}

func TestPageFrameAllocatorDeallocateInvalidAddresses(t *testing.T) {
	var bitmap [1]uint64
	const allocStart = 0x9000_0000
	a := newPageFrameAllocatorOverBitmap(bitmap[:], allocStart, 3)

	// Misaligned and out-of-range addresses are logged no-ops, never a
	// fault or a panic.
	a.Deallocate(allocStart + 1)
	a.Deallocate(allocStart - PageSize)
	a.Deallocate(allocStart + 100*PageSize)

	// Deallocating an already-free page is idempotent.
	a.Deallocate(allocStart)
	a.Deallocate(allocStart)
	if a.PageAllocated(allocStart) {
		t.Fatal("page should remain free after repeated deallocate")
	}
}

func TestPageFrameAllocatorPageAllocatedBounds(t *testing.T) {
	var bitmap [1]uint64
	const allocStart = 0x9000_0000
	a := newPageFrameAllocatorOverBitmap(bitmap[:], allocStart, 3)

	if a.PageAllocated(allocStart - PageSize) {
		t.Fatal("address below the arena must never report allocated")
	}
	if a.PageAllocated(allocStart + 3*PageSize) {
		t.Fatal("address at/above the arena end must never report allocated")
	}
	if a.PageAllocated(allocStart + 1) {
		t.Fatal("misaligned address must never report allocated")
	}
}
