//go:build riscv64virt && riscv64

package main

import "github.com/blessingchitra/lula-os/kernel/asm"

// scause's interrupt bit and cause codes,  Grounded on
// original_source's ktrap.rs, whose ktrap_isr this mirrors field for
// field; the naked entry/exit frame lives in trap_riscv64.s.
const (
	scauseInterruptBit = uint64(1) << 63
	scauseCodeMask     = 0xFFFF

	causeSoftwareIRQ = 1
	causeTimerIRQ    = 5
	causeExternalIRQ = 9

	excInstrMisaligned = 0
	excInstrAccessFault = 1
	excIllegalInstr     = 2
)

// installTrapVector points stvec at TrapEntry — called once per hart
// during sys_init (boot.go), before sie/sstatus interrupts are turned
// on for that hart.
func installTrapVector() {
	asm.WriteStvec(uint64(trapEntryAddr()))
}

// trapISR is Rust ISR, ported directly: it takes no
// arguments because the hardware delivers cause/faulting state
// through CSRs rather than registers, reading everything it needs
// itself exactly as ktrap_isr does. sepc is saved and restored around
// the whole handler so sret always returns to the instruction that
// trapped, even though nothing below currently advances it (this
// kernel never resolves an exception and resumes past it — it only
// logs and returns to the same PC, matching the original's behavior
// rather than inventing a different exception-recovery policy).
//
//go:nosplit
func trapISR() {
	sepc := asm.ReadSepc()
	cause := asm.ReadScause()
	isIntr := cause&scauseInterruptBit != 0
	code := cause & scauseCodeMask

	hart := uint32(asm.ReadTp())
	intrID := plicClaim(hart)

	if isIntr {
		switch code {
		case causeSoftwareIRQ:
			klogln("trap: software interrupt")
		case causeTimerIRQ:
			klogln("trap: timer interrupt")
		case causeExternalIRQ:
			if intrID == UART0IRQ {
				uartIsr()
			} else {
				klogln("trap: unknown external interrupt")
			}
		default:
			klogln("trap: unknown interrupt")
		}
	} else {
		klogln("trap: exception")
		switch code {
		case excInstrMisaligned:
			klogln("trap: instruction address misaligned")
		case excInstrAccessFault:
			klogln("trap: instruction access fault")
		case excIllegalInstr:
			klogln("trap: illegal instruction")
		default:
			klogln("trap: unknown/unhandled exception")
		}
	}

	plicComplete(hart, intrID)
	asm.WriteSepc(sepc)
}
