package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/bitfield"
)

// Perm is the permission bits a caller of vmMap passes for a mapping:
// a bare OR of permR/permW/permX.
type Perm uint64

const (
	permV Perm = 1 << 0
	permR Perm = 1 << 1
	permW Perm = 1 << 2
	permX Perm = 1 << 3
)

const ptesPerTable = 512

// vpn returns the page-table index for va at the given SV39 level (2,
// 1, or 0). The page-index macro is `(va >> (12 + 9*level)) & 0x1FF`,
// with the shift fully parenthesised calls this out by
// name as the corrected form of a reference macro that instead
// computed `addr >> (9*level) + PAGE_OFFSET`, folding the addition
// into the shift count and producing a different (wrong) index at
// every level but 0.
//
//go:nosplit
func vpn(va uintptr, level int) uintptr {
	return (va >> uint(12+9*level)) & 0x1FF
}

//go:nosplit
func ptePPN(pa uintptr) uint64 {
	return uint64(pa>>PageShift) << 10
}

//go:nosplit
func pteToPA(pteVal uint64) uintptr {
	return uintptr(pteVal>>10) << PageShift
}

//go:nosplit
func pteValid(pteVal uint64) bool {
	return pteVal&uint64(permV) != 0
}

// tableAt views the 4 KiB page at pa as 512 raw PTE words.
//
//go:nosplit
func tableAt(pa uintptr) *[ptesPerTable]uint64 {
	return (*[ptesPerTable]uint64)(unsafe.Pointer(pa))
}

// AddrDbgResult is addr_dbg's return shape: the leaf
// PTE's validity and permission bits, or valid=false if any
// intermediate table along the walk is missing. Never faults.
type AddrDbgResult struct {
	Valid   bool
	R, W, X bool
}

//go:nosplit
func addrDbg(va uintptr, root uintptr) AddrDbgResult {
	l1Entry := tableAt(root)[vpn(va, 2)]
	if !pteValid(l1Entry) {
		return AddrDbgResult{}
	}
	l0Entry := tableAt(pteToPA(l1Entry))[vpn(va, 1)]
	if !pteValid(l0Entry) {
		return AddrDbgResult{}
	}
	leafEntry := tableAt(pteToPA(l0Entry))[vpn(va, 0)]
	if !pteValid(leafEntry) {
		return AddrDbgResult{}
	}
	pte := bitfield.UnpackPTE(leafEntry)
	return AddrDbgResult{Valid: true, R: pte.R, W: pte.W, X: pte.X}
}
