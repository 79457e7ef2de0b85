//go:build riscv64virt && riscv64

package main

import "github.com/blessingchitra/lula-os/kernel/asm"

// sstatus.SIE is bit 1
const sstatusSIE = 1 << 1

// intrOn enables supervisor interrupts (sets sstatus.SIE).
//
//go:nosplit
func intrOn() {
	asm.SstatusSet(sstatusSIE)
}

// intrOff disables supervisor interrupts (clears sstatus.SIE).
//
//go:nosplit
func intrOff() {
	asm.SstatusClear(sstatusSIE)
}

// intrGet reports whether supervisor interrupts are currently enabled.
//
//go:nosplit
func intrGet() bool {
	return asm.ReadSstatus()&sstatusSIE != 0
}
