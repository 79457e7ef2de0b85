//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/bitfield"
	"github.com/blessingchitra/lula-os/kernel/asm"
)

// walkOrAlloc returns the physical address of the next-level table
// reachable from entry idx of the table at tablePA, allocating and
// zero-initialising a fresh (V=1, R=W=X=0) table there if the entry is
// currently invalid. Returns ok=false if the page-frame allocator
// is out of pages.
//
//go:nosplit
func walkOrAlloc(tablePA uintptr, idx uintptr) (uintptr, bool) {
	table := tableAt(tablePA)
	if pteValid(table[idx]) {
		return pteToPA(table[idx]), true
	}
	childPA, ok := KernPgAllocator.Allocate()
	if !ok {
		return 0, false
	}
	asm.Bzero(unsafe.Pointer(childPA), PageSize)

	packed, err := bitfield.PackPTE(bitfield.PTE{V: true, PPN: uint64(childPA >> PageShift)})
	if err != nil {
		return 0, false
	}
	table[idx] = packed
	return childPA, true
}

// vmMap installs a mapping for every 4 KiB page in [va, va+size) to
// the matching page of [pa, pa+size), with the given permission bits,
// walking/allocating intermediate tables as needed.
// Both pa and va must already be page-aligned; size is rounded down
// to a whole number of pages. Returns false without completing the
// remaining pages if either alignment is wrong or the page-frame
// allocator runs out of pages partway through — the caller logs and
// treats the mapping as absent.
//
//go:nosplit
func vmMap(root uintptr, pa, va, size uintptr, perm Perm) bool {
	if !isAligned(pa, PageSize) || !isAligned(va, PageSize) {
		klogln("vm: vmMap of misaligned address, ignored")
		return false
	}
	pages := size / PageSize
	for i := uintptr(0); i < pages; i++ {
		curPA := pa + i*PageSize
		curVA := va + i*PageSize

		l1PA, ok := walkOrAlloc(root, vpn(curVA, 2))
		if !ok {
			klogln("vm: vmMap out of pages at level 2")
			return false
		}
		l0PA, ok := walkOrAlloc(l1PA, vpn(curVA, 1))
		if !ok {
			klogln("vm: vmMap out of pages at level 1")
			return false
		}

		leaf := tableAt(l0PA)
		packed, err := bitfield.PackPTE(bitfield.PTE{
			V:   true,
			R:   perm&permR != 0,
			W:   perm&permW != 0,
			X:   perm&permX != 0,
			PPN: uint64(curPA >> PageShift),
		})
		if err != nil {
			klogln("vm: vmMap PTE pack failed")
			return false
		}
		leaf[vpn(curVA, 0)] = packed
	}
	return true
}

// KernSATP mode field: Sv39, top 4 bits of satp = 8.
const satpModeSv39 = uint64(8) << 60

// installSATP installs root as the kernel's page table and turns
// paging on, bracketed by the two sfence.vma instructions required
// around the write so no hart observes a stale translation from
// before the root was published.
//
//go:nosplit
func installSATP(root uintptr) {
	asm.SfenceVMA()
	asm.WriteSatp(satpModeSv39 | uint64(root>>PageShift))
	asm.SfenceVMA()
}

// buildKernelPageTable allocates the root table from the page-frame
// allocator and installs the six identity mappings this kernel
// needs, in a fixed order. Called once, on the boot hart, after
// KernPgAllocator is constructed and before sys_initialised is
// published (boot.go).
func buildKernelPageTable() (uintptr, bool) {
	root, ok := KernPgAllocator.Allocate()
	if !ok {
		klogln("vm: out of pages building root table")
		return 0, false
	}
	asm.Bzero(unsafe.Pointer(root), PageSize)

	end := linkerSymbol(linkerSymEnd)
	etext := linkerSymbol(linkerSymEtext)
	dataStart := linkerSymbol(linkerSymDataStart)

	freeStart := alignUp(end, PageSize)
	if !vmMap(root, freeStart, freeStart, KernRserv-freeStart, permR|permW|permX) {
		return 0, false
	}
	if !vmMap(root, KernStart, KernStart, etext-KernStart, permR|permX) {
		return 0, false
	}
	if !vmMap(root, UART0Base, UART0Base, PageSize, permR|permW) {
		return 0, false
	}
	if !vmMap(root, VirtioMMIOBase, VirtioMMIOBase, VirtioMMIOSize, permR|permW) {
		return 0, false
	}
	if !vmMap(root, PlicBase, PlicBase, PlicSize, permR|permW) {
		return 0, false
	}
	if !vmMap(root, dataStart, dataStart, end-dataStart, permR|permW) {
		return 0, false
	}
	return root, true
}
