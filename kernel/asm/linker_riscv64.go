//go:build riscv64virt && riscv64

package asm

// Linker-provided symbols: end of the kernel image,
// end of .text, start of .data, and the base of the per-hart boot
// stacks. These are declared by the linker script, not by Go, so each
// accessor is just `MOV $symbol(SB), Rd` in assembly — the Go
// compiler has no notion of these names.

//go:noescape
func LinkerEnd() uintptr

//go:noescape
func LinkerEtext() uintptr

//go:noescape
func LinkerDataStart() uintptr

//go:noescape
func LinkerStack0() uintptr
