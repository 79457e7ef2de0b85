//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// linkerSymbol resolves one of the four symbols the linker script
// provides. Unknown names return 0; callers in this
// kernel only ever pass the four constants in config.go, so 0 is unreachable
// in practice and exists only so this mirrors getLinkerSymbol's
// switch-with-default shape instead of panicking on a typo.
//
//go:nosplit
func linkerSymbol(name string) uintptr {
	switch name {
	case linkerSymEnd:
		return asm.LinkerEnd()
	case linkerSymEtext:
		return asm.LinkerEtext()
	case linkerSymDataStart:
		return asm.LinkerDataStart()
	case linkerSymStack0:
		return asm.LinkerStack0()
	default:
		return 0
	}
}

// pointerToUintptr and addToPointer hide the unsafe.Pointer <->
// uintptr conversions the allocator and mapper code need to do
// pointer arithmetic on physical addresses.
//
//go:nosplit
func pointerToUintptr(ptr unsafe.Pointer) uintptr {
	return uintptr(ptr)
}

//go:nosplit
func addToPointer(ptr unsafe.Pointer, offset uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(ptr) + offset)
}
