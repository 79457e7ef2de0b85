//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// usrProg is the literal 12-byte RV64I blob:
// li a0, 2 ; ecall ; j . — grounded on original_source's usr.rs,
// where the same byte sequence and the same "loop forever with a
// single ecall" shape appear as USR_PROG.
var usrProg = [12]byte{
	0x13, 0x05, 0x20, 0x00, // li a0, 2
	0x73, 0x00, 0x00, 0x00, // ecall
	0x6F, 0x00, 0x00, 0x00, // j .
}

// usrLoadAndExec allocates one frame from the page-frame allocator,
// maps it identity R|W|X, copies the blob in, and jumps to it with an
// indirect
// jump. Control never returns — the blob's own last instruction is an
// unconditional branch to itself. Runs once, on the boot hart, at the
// end of kernExec, after the console and (best-effort) splash are up.
func usrLoadAndExec() {
	frame, ok := KernPgAllocator.Allocate()
	if !ok {
		klogln("usr: out of pages, skipping user payload")
		return
	}
	if !vmMap(kernRootPageTable, frame, frame, PageSize, permR|permW|permX) {
		klogln("usr: failed to map user payload page")
		return
	}

	dbg := addrDbg(frame, kernRootPageTable)
	klog("usr: payload page ")
	klogHex64(uint64(frame))
	if !dbg.Valid || !dbg.R || !dbg.W || !dbg.X {
		klogln(" mapped with unexpected permissions, aborting")
		return
	}
	klogln(" mapped R|W|X")

	asm.Memcpy(unsafe.Pointer(frame), unsafe.Pointer(&usrProg[0]), uintptr(len(usrProg)))
	asm.UsrJump(frame)
}
