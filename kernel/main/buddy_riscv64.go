//go:build riscv64virt && riscv64

package main

// KernHeap is the process-wide buddy heap singleton: constructed once
// by sysInit (boot.go), over the region carved out above the
// page-frame allocator's arena, once the kernel page table is up.
var KernHeap *SpinLock[*BuddyHeap]

// kmalloc is the kernel's general-purpose allocation entry point,
// serialized through KernHeap's spinlock
//
//go:nosplit
func kmalloc(size uintptr) (uintptr, bool) {
	guard := KernHeap.Lock()
	defer guard.Unlock()
	return (*guard.Get()).Allocate(size)
}

//go:nosplit
func kfree(ptr, size uintptr) {
	guard := KernHeap.Lock()
	defer guard.Unlock()
	(*guard.Get()).Deallocate(ptr, size)
}
