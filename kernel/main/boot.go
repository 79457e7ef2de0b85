//go:build riscv64virt && riscv64

package main

import (
	"sync/atomic"

	"github.com/blessingchitra/lula-os/internal/cpu"
	"github.com/blessingchitra/lula-os/kernel/asm"
)

// mstatus.MPP is bits [12:11]; S is value 1.
const (
	mstatusMPPMask = uint64(3) << 11
	mstatusMPPS    = uint64(1) << 11

	sieSSIE = uint64(1) << 1
	sieSTIE = uint64(1) << 5
	sieSEIE = uint64(1) << 9

	pmpaddr0Full = uint64(0x3F_FFFF_FFFF_FFFF)
	pmpcfg0RWX   = uint64(0xF)
)

// kernRootPageTable is hart 0's page table, published to the other
// harts by sysInitialised.
var kernRootPageTable uintptr
var sysInitialised atomic.Bool

// sysInit is the machine-mode init routine, run by every hart:
// route exceptions/interrupts to supervisor mode, delegate everything,
// open PMP over all of memory, stash the hart id in tp, and — on hart
// 0 only — bring up the console and the PLIC, construct the
// page-frame allocator and kernel page table, then the buddy heap
// over the region above it, before publishing sysInitialised. Every
// hart then installs the (now-published) root page table and mrets
// into kernExec.
//
// Grounded on original_source's riscv.rs sys_init, translated CSR by
// CSR; Entry (entry_riscv64.s) is this function's caller and is never
// returned to.
//
//go:nosplit
func sysInit() {
	status := asm.ReadMstatus()
	status &^= mstatusMPPMask
	status |= mstatusMPPS
	asm.WriteMstatus(status)

	asm.WriteMepc(uint64(kernExecEntryAddr()))
	installTrapVector()

	asm.WriteMedeleg(0xFFFF)
	asm.WriteMideleg(0xFFFF)

	sie := asm.ReadSie()
	sie |= sieSEIE | sieSSIE | sieSTIE
	asm.WriteSie(sie)
	intrOn()

	asm.WritePmpaddr0(pmpaddr0Full)
	asm.WritePmpcfg0(pmpcfg0RWX)

	hart := asm.ReadMhartid()
	asm.WriteTp(hart)

	if hart == 0 {
		uartInit()
		plicInit(0)

		end := linkerSymbol(linkerSymEnd)
		freeStart := alignUp(end, PageSize)
		heapStart := alignDown(KernRserv-KernHeapSize, PageSize)
		KernPgAllocator = NewPageFrameAllocator(freeStart, heapStart-freeStart)

		root, ok := buildKernelPageTable()
		if !ok {
			panicHalt("boot: failed to build kernel page table")
		}
		kernRootPageTable = root

		heap, ok := NewBuddyHeap(BuddyConfig{Start: heapStart, Size: KernRserv - heapStart})
		if !ok {
			panicHalt("boot: failed to build kernel heap")
		}
		KernHeap = NewSpinLock(heap)

		sysInitialised.Store(true)
	} else {
		for !sysInitialised.Load() {
			asm.SpinHint()
		}
	}

	installSATP(kernRootPageTable)
	asm.Mret()
}

const bootBanner = "" +
	"| |         | |        / __ \\ / ____|\r\n" +
	"| |    _   _| | __ _  | |  | | (___  \r\n" +
	"| |   | | | | |/ _` | | |  | |\\___ \\ \r\n" +
	"| |___| |_| | | (_| | | |__| |____) |\r\n" +
	"|______\\__,_|_|\\__,_|  \\____/|_____/ \r\n" +
	"-------------------------------------\r\n"

// kernExec is the supervisor-mode entry, reached through
// KernExecEntry after mret. Only hart 0 (tp==0) prints the banner,
// attempts the best-effort GPU splash, and runs the one-shot
// user-payload demo — which never returns. Every other hart
// (and hart 0 too, if no GPU/payload path is taken) idles on wfi,
// servicing whatever interrupts the trap vector delivers.
//
//go:nosplit
func kernExec() {
	if asm.ReadTp() == 0 {
		uartPuts(bootBanner)
		klog("boot: ")
		klog(cpu.RV64.ISA)
		klog(", ")
		klogHex64(uint64(cpu.RV64.HartCount))
		klogln(" harts")
		if virtioGPUProbe() {
			splashInit()
		}
		usrLoadAndExec()
	}
	for {
		asm.WaitForInterrupt()
	}
}
