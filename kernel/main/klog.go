//go:build riscv64virt && riscv64

package main

import "github.com/blessingchitra/lula-os/kernel/asm"

// klog is the only logging sink this kernel has: there is no
// transport to hand a structured logger before the UART exists, and
// after that point the UART *is* the transport. Plain breadcrumb-style
// uartPuts calls during bring-up (see uart.go, boot.go), rather than a
// logging framework with nothing underneath it to write to.
//
//go:nosplit
func klog(s string) {
	uartPuts(s)
}

//go:nosplit
func klogln(s string) {
	uartPuts(s)
	uartPuts("\r\n")
}

const hexDigits = "0123456789abcdef"

// klogHex64 prints v as "0x" plus a fixed-width 16-digit lowercase hex
// string, used by the boot banner and the user-payload loader for
// values that must stay readable off a 38400-baud serial line without
// a printf.
//
//go:nosplit
func klogHex64(v uint64) {
	var buf [18]byte
	buf[0] = '0'
	buf[1] = 'x'
	for i := 0; i < 16; i++ {
		shift := uint(60 - 4*i)
		buf[2+i] = hexDigits[(v>>shift)&0xF]
	}
	uartWriteBytes(buf[:])
}

// panicHalt replaces Go's panic: there is no unwinder in a freestanding
// image. It prints the message and hangs.
//
//go:nosplit
func panicHalt(msg string) {
	klogln("")
	klog("PANIC: ")
	klogln(msg)
	for {
		haltSpin()
	}
}

// haltSpin is panicHalt's infinite-loop body: wfi rather than a bare
// spin, so a hung hart isn't burning power waiting for an interrupt
// that will never be acted on anyway.
//
//go:nosplit
func haltSpin() {
	asm.WaitForInterrupt()
}
