//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// NewPageFrameAllocator places the bitmap at memStart and reserves the
// arena above it. Called once, on the boot hart, before any other hart
// can race it.
func NewPageFrameAllocator(memStart, size uintptr) *PageFrameAllocator {
	pageCount := int(size / PageSize)
	numWords := (pageCount + 63) / 64

	bitmapBytes := uintptr(numWords) * 8
	asm.Bzero(unsafe.Pointer(memStart), bitmapBytes)

	allocStart := alignUp(memStart+bitmapBytes, PageSize)

	return &PageFrameAllocator{
		bitmap:     unsafe.Slice((*uint64)(unsafe.Pointer(memStart)), numWords),
		allocStart: allocStart,
		pageCount:  pageCount,
	}
}

// KernPgAllocator is the process-wide singleton: constructed once by
// sysInit (boot.go) before buildKernelPageTable runs, read-only
// (modulo its own internal atomics) thereafter.
var KernPgAllocator *PageFrameAllocator
