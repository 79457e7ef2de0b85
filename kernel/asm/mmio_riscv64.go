//go:build riscv64virt && riscv64

package asm

import "unsafe"

// MmioRead8/32/64 and MmioWrite8/32/64 are volatile loads and
// stores: ordinary Go loads/stores are not guaranteed not to be
// reordered or elided by the compiler relative to other MMIO accesses
// ("implementers must ensure these accesses are not
// reordered past dependent MMIO"), so these go through assembly
// exactly the way the CSR accessors do, giving the compiler a call it
// cannot reorder around or merge.

//go:noescape
func MmioRead8(addr uintptr) uint8

//go:noescape
func MmioWrite8(addr uintptr, val uint8)

//go:noescape
func MmioRead32(addr uintptr) uint32

//go:noescape
func MmioWrite32(addr uintptr, val uint32)

//go:noescape
func MmioRead64(addr uintptr) uint64

//go:noescape
func MmioWrite64(addr uintptr, val uint64)

// Bzero zeroes n bytes starting at ptr. Used on freshly allocated
// pages before they are handed out, and to clear new page-table
// pages before they are linked into the walk.
//
//go:noescape
func Bzero(ptr unsafe.Pointer, n uintptr)

// Memcpy copies n bytes from src to dst. Used by the user-payload
// loader to copy the instruction blob into its mapped page.
//
//go:noescape
func Memcpy(dst, src unsafe.Pointer, n uintptr)
