//go:build riscv64virt && riscv64

package main

import "github.com/blessingchitra/lula-os/kernel/asm"

// PLIC register offsets. Grounded on original_source's
// plic.rs, whose plic_enable!/plic_spriority!/plic_sclaim_r!/
// plic_sclaim_w! macros hardcode the same four offsets this package
// expresses as ordinary functions instead of macros, since Go has no
// macro layer — the same plain-function-over-computed-address shape
// the deleted gic_qemu.go used for its own MMIO accessors (this
// platform has a PLIC, not a GICv2).
const (
	plicPriorityBase  = PlicBase + 0x0
	plicEnableBase    = PlicBase + 0x2080
	plicEnableStride  = 0x100
	plicThreshBase    = PlicBase + 0x20_1000
	plicClaimBase     = PlicBase + 0x20_1004
	plicContextStride = 0x2000
)

//go:nosplit
func plicSetPriority(irq uint32, priority uint32) {
	asm.MmioWrite32(plicPriorityBase+uintptr(irq)*4, priority)
}

//go:nosplit
func plicSetEnable(hart uint32, mask uint32) {
	asm.MmioWrite32(plicEnableBase+uintptr(hart)*plicEnableStride, mask)
}

//go:nosplit
func plicSetThreshold(hart uint32, threshold uint32) {
	asm.MmioWrite32(plicThreshBase+uintptr(hart)*plicContextStride, threshold)
}

// plicClaim reads the next pending IRQ id for hart, or 0 if none is
// pending.
//
//go:nosplit
func plicClaim(hart uint32) uint32 {
	return asm.MmioRead32(plicClaimBase + uintptr(hart)*plicContextStride)
}

// plicComplete signals hart's handling of irq is done.
//
//go:nosplit
func plicComplete(hart uint32, irq uint32) {
	asm.MmioWrite32(plicClaimBase+uintptr(hart)*plicContextStride, irq)
}

// plicInit is per-hart init: non-zero priority for
// UART0 (priority 0 disables an IRQ outright), UART0 enabled on this
// hart, threshold 0 so every non-zero-priority IRQ gets through.
func plicInit(hart uint32) {
	plicSetPriority(UART0IRQ, 1)
	plicSetEnable(hart, 1<<UART0IRQ)
	plicSetThreshold(hart, 0)
}
