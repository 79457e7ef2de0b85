//go:build riscv64virt && riscv64

package main

// trapEntryAddr returns the address of the naked trap entry defined in
// trap_riscv64.s, for installTrapVector to hand to WriteStvec — the
// same "fetch a raw symbol address through a tiny asm accessor" shape
// kernel/asm's LinkerEnd and friends already use for linker symbols.
//
//go:noescape
func trapEntryAddr() uintptr
