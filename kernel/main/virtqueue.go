//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// Split virtqueue per the VirtIO 1.2 specification: descriptor table,
// avail ring, used ring, and a free-descriptor list threaded through
// the table itself. Allocated through this kernel's own
// kmalloc(uintptr) (uintptr, bool) over the buddy heap (buddy.go)
// rather than a generic cast-and-allocate helper, since every caller
// here already deals in physical addresses, not typed pointers.
const (
	virtqDescFNext     = 1 << 0
	virtqDescFWrite    = 1 << 1
	virtqUsedFNoNotify = 1 << 0
)

type virtqDesc struct {
	Addr  uint64
	Len   uint32
	Flags uint16
	Next  uint16
}

type virtqUsedElem struct {
	ID  uint32
	Len uint32
}

// virtQueue holds the three split-ring regions and bookkeeping for a
// single virtio queue, allocated from the kernel heap once at device
// setup and never resized.
type virtQueue struct {
	queueSize   uint16
	descTable   uintptr
	availBase   uintptr
	usedBase    uintptr
	freeHead    uint16
	numFree     uint16
	lastUsedIdx uint16

	descAlloc, availAlloc, usedAlloc uintptr
	descSize, availSize, usedSize    uintptr
}

//go:nosplit
func virtqDescAt(base uintptr, i uint16) *virtqDesc {
	return (*virtqDesc)(unsafe.Pointer(base + uintptr(i)*unsafe.Sizeof(virtqDesc{})))
}

//go:nosplit
func virtqAvailFlags(base uintptr) *uint16 { return (*uint16)(unsafe.Pointer(base)) }

//go:nosplit
func virtqAvailIdx(base uintptr) *uint16 { return (*uint16)(unsafe.Pointer(base + 2)) }

//go:nosplit
func virtqAvailRing(base uintptr, i uint16) *uint16 {
	return (*uint16)(unsafe.Pointer(base + 4 + uintptr(i)*2))
}

//go:nosplit
func virtqUsedIdx(base uintptr) *uint16 { return (*uint16)(unsafe.Pointer(base + 2)) }

//go:nosplit
func virtqUsedRing(base uintptr, i uint16) *virtqUsedElem {
	return (*virtqUsedElem)(unsafe.Pointer(base + 4 + uintptr(i)*unsafe.Sizeof(virtqUsedElem{})))
}

// virtqueueInit allocates and wires a queue of queueSize descriptors
// (must be a power of two). Returns false if the heap can't satisfy
// any of the three allocations — the caller treats GPU splash setup
// as best-effort and moves on without one.
func virtqueueInit(vq *virtQueue, queueSize uint16) bool {
	if queueSize == 0 || queueSize&(queueSize-1) != 0 {
		klogln("virtqueue: queue size must be a power of two")
		return false
	}
	vq.queueSize = queueSize
	vq.descSize = uintptr(queueSize) * unsafe.Sizeof(virtqDesc{})
	vq.availSize = 4 + uintptr(queueSize)*2 + 2
	vq.usedSize = 4 + uintptr(queueSize)*unsafe.Sizeof(virtqUsedElem{}) + 2

	descAlloc, ok := kmalloc(vq.descSize)
	if !ok {
		klogln("virtqueue: out of heap for descriptor table")
		return false
	}
	availAlloc, ok := kmalloc(vq.availSize)
	if !ok {
		kfree(descAlloc, vq.descSize)
		klogln("virtqueue: out of heap for available ring")
		return false
	}
	usedAlloc, ok := kmalloc(vq.usedSize)
	if !ok {
		kfree(descAlloc, vq.descSize)
		kfree(availAlloc, vq.availSize)
		klogln("virtqueue: out of heap for used ring")
		return false
	}

	vq.descAlloc, vq.availAlloc, vq.usedAlloc = descAlloc, availAlloc, usedAlloc
	vq.descTable, vq.availBase, vq.usedBase = descAlloc, availAlloc, usedAlloc
	asm.Bzero(unsafe.Pointer(descAlloc), vq.descSize)
	asm.Bzero(unsafe.Pointer(availAlloc), vq.availSize)
	asm.Bzero(unsafe.Pointer(usedAlloc), vq.usedSize)

	for i := uint16(0); i < queueSize-1; i++ {
		virtqDescAt(vq.descTable, i).Next = i + 1
	}
	virtqDescAt(vq.descTable, queueSize-1).Next = 0xFFFF

	vq.freeHead = 0
	vq.numFree = queueSize
	vq.lastUsedIdx = 0
	return true
}

func virtqueueCleanup(vq *virtQueue) {
	if vq.descAlloc != 0 {
		kfree(vq.descAlloc, vq.descSize)
	}
	if vq.availAlloc != 0 {
		kfree(vq.availAlloc, vq.availSize)
	}
	if vq.usedAlloc != 0 {
		kfree(vq.usedAlloc, vq.usedSize)
	}
	*vq = virtQueue{}
}

// addDesc claims a free descriptor and fills it in; addr is the
// identity-mapped physical address of the buffer it describes.
//
//go:nosplit
func (vq *virtQueue) addDesc(addr uint64, length uint32, flags uint16, next uint16) uint16 {
	if vq.numFree == 0 {
		return 0xFFFF
	}
	idx := vq.freeHead
	d := virtqDescAt(vq.descTable, idx)
	vq.freeHead = d.Next
	vq.numFree--
	d.Addr, d.Len, d.Flags, d.Next = addr, length, flags, next
	return idx
}

//go:nosplit
func (vq *virtQueue) publish(headIdx uint16) {
	availIdx := *virtqAvailIdx(vq.availBase)
	*virtqAvailRing(vq.availBase, availIdx%vq.queueSize) = headIdx
	*virtqAvailIdx(vq.availBase) = availIdx + 1
}

//go:nosplit
func (vq *virtQueue) hasUsed() bool {
	return *virtqUsedIdx(vq.usedBase) != vq.lastUsedIdx
}

//go:nosplit
func (vq *virtQueue) popUsed() (uint16, bool) {
	if !vq.hasUsed() {
		return 0, false
	}
	elem := virtqUsedRing(vq.usedBase, vq.lastUsedIdx%vq.queueSize)
	vq.lastUsedIdx++
	return uint16(elem.ID), true
}

//go:nosplit
func (vq *virtQueue) freeChain(head uint16) {
	cur := head
	for {
		d := virtqDescAt(vq.descTable, cur)
		next, hasNext := d.Next, d.Flags&virtqDescFNext != 0
		d.Next = vq.freeHead
		vq.freeHead = cur
		vq.numFree++
		if !hasNext || next == 0xFFFF {
			break
		}
		cur = next
	}
}
