//go:build riscv64virt && riscv64

package main

import "github.com/blessingchitra/lula-os/kernel/asm"

// NS16550 register offsets and bits,  Grounded on
// original_source's uart.rs (same register names and offsets; that
// source reaches them through uartreg!/uartrd!/uartwt! macros over a
// raw pointer, which this package expresses as ordinary MMIO calls
// through the asm layer instead, the same substitution plic.go makes
// for the PLIC macros).
const (
	uartRHR = UART0Base + 0 // receive holding register
	uartTHR = UART0Base + 0 // transmit holding register
	uartIER = UART0Base + 1
	uartFCR = UART0Base + 2 // write: FIFO control
	uartLCR = UART0Base + 3
	uartLSR = UART0Base + 5

	uartIERRxEnable = 1 << 0
	uartIERTxEnable = 1 << 1

	uartFCRFIFOEnable = 1 << 0
	uartFCRFIFOClear  = 3 << 1

	uartLCREightBits = 3 << 0
	uartLCRBaudLatch = 1 << 7

	uartLSRRxReady = 1 << 0
	uartLSRTxIdle  = 1 << 5
)

// uartInit is init sequence: disable interrupts, enter
// baud-latch mode, program the 38.4k divisor, switch to 8N1, reset
// and enable the FIFOs, then enable only the receive interrupt — the
// transmit interrupt is turned on and off dynamically by the ISR as
// the ring buffer fills and drains (see uartIsr below).
func uartInit() {
	asm.MmioWrite8(uartIER, 0x00)
	asm.MmioWrite8(uartLCR, uartLCRBaudLatch)
	asm.MmioWrite8(UART0Base+0, 0x03) // divisor LSB, 38.4k
	asm.MmioWrite8(UART0Base+1, 0x00) // divisor MSB
	asm.MmioWrite8(uartLCR, uartLCREightBits)
	asm.MmioWrite8(uartFCR, uartFCRFIFOEnable|uartFCRFIFOClear)
	asm.MmioWrite8(uartIER, uartIERRxEnable)
}

// uartPutc is the non-blocking put: it writes if THR is free and
// reports whether it did.
//
//go:nosplit
func uartPutc(c byte) bool {
	if asm.MmioRead8(uartLSR)&uartLSRTxIdle == 0 {
		return false
	}
	asm.MmioWrite8(uartTHR, c)
	return true
}

// uartPutcBlock spins until THR is free, then writes. Used for klog
// breadcrumbs and the panic sink, which must never depend on the ring
// buffer or an enabled TX interrupt to reach the wire.
//
//go:nosplit
func uartPutcBlock(c byte) {
	for asm.MmioRead8(uartLSR)&uartLSRTxIdle == 0 {
		asm.SpinHint()
	}
	asm.MmioWrite8(uartTHR, c)
}

//go:nosplit
func uartPuts(s string) {
	for i := 0; i < len(s); i++ {
		uartPutcBlock(s[i])
	}
}

//go:nosplit
func uartWriteBytes(b []byte) {
	for i := range b {
		uartPutcBlock(b[i])
	}
}

//go:nosplit
func uartGetc() (byte, bool) {
	if asm.MmioRead8(uartLSR)&uartLSRRxReady == 0 {
		return 0, false
	}
	return asm.MmioRead8(uartRHR), true
}

// uartRxBuf is the process-wide receive ring buffer, guarded by its
// own lock so ISR runs on different harts never race on it.
var uartRxBuf = NewSpinLock(uartRingBuffer{})

// uartIsr is the receive ISR: drain RHR while data is
// ready, translating CR to LF and expanding backspace/DEL into the
// three-byte "\b \b" erase sequence before pushing into the ring
// buffer; then drain the ring buffer back out to THR with the
// non-blocking put, leaving TX_ENABLE set in IER while bytes remain
// so the transmit interrupt keeps firing, clearing it once empty.
// Runs with interrupts already masked by the trap entry, so the lock
// below never contends with itself.
//
//go:nosplit
func uartIsr() {
	guard := uartRxBuf.Lock()
	rb := guard.Get()

	for {
		c, ok := uartGetc()
		if !ok {
			break
		}
		if c == '\r' {
			c = '\n'
		}
		if c == 0x08 || c == 0x7F {
			rb.push('\b')
			rb.push(' ')
			rb.push('\b')
			continue
		}
		rb.push(c)
	}

	for !rb.isEmpty() {
		c := rb.buf[rb.rd]
		asm.MmioWrite8(uartIER, uartIERRxEnable|uartIERTxEnable)
		if !uartPutc(c) {
			break
		}
		rb.rd = (rb.rd + 1) % uartRingSize
	}
	if rb.isEmpty() {
		asm.MmioWrite8(uartIER, uartIERRxEnable)
	}

	guard.Unlock()
}
