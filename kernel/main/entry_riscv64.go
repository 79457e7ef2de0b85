//go:build riscv64virt && riscv64

package main

// kernExecEntryAddr returns the address of the landing pad mret
// targets (entry_riscv64.s), the same "raw symbol address through a
// tiny accessor" shape trapEntryAddr already uses.
//
//go:noescape
func kernExecEntryAddr() uintptr
