package main

import (
	"math/bits"
	"unsafe"
)

// Buddy order range: 32 B (1<<5) through 128 KiB (1<<17)
const (
	MinOrder = 5
	MaxOrder = 17
)

// BuddyHeap is the kernel's general-purpose allocator.
// Free-list heads per order, intrusive through the free block's own
// first 8 bytes; a per-min-block allocated bitmap; a split bitmap
// indexed by parent order/position.
//
// Rebuilt around power-of-two order/split/coalesce machinery on top
// of a free-list-per-order scheme (see DESIGN.md for what this
// replaces and why).
type BuddyHeap struct {
	start uintptr
	size  uintptr

	freeListHead [MaxOrder + 1]uintptr // 0 means empty
	allocated    []uint64              // one bit per MinOrder-sized block
	split        [MaxOrder + 1][]uint64
}

// BuddyConfig names the region a BuddyHeap manages.
type BuddyConfig struct {
	Start uintptr
	Size  uintptr
}

const maxHeapSize = 100 * 1024 * 1024

// NewBuddyHeap builds a heap over config.Start/Size: aligns Start up
// to 32 B, rounds Size down to 32 B, rejects sizes above 100 MiB, and
// greedily decomposes the region into the largest aligned blocks top
// order first — the binary representation of the (aligned) size does
// this automatically: at each order from MaxOrder down to MinOrder,
// as much of the remaining region as divides evenly at that order's
// alignment is consumed before moving to the next order down.
func NewBuddyHeap(config BuddyConfig) (*BuddyHeap, bool) {
	start := alignUp(config.Start, 1<<MinOrder)
	size := alignDown(config.Size, 1<<MinOrder)
	if size > maxHeapSize {
		return nil, false
	}

	numMinBlocks := int(size >> MinOrder)
	h := &BuddyHeap{
		start:     start,
		size:      size,
		allocated: make([]uint64, (numMinBlocks+63)/64),
	}
	for order := MinOrder; order <= MaxOrder; order++ {
		blocksAtOrder := blockCountAtOrder(size, order)
		h.split[order] = make([]uint64, (blocksAtOrder+63)/64)
	}

	cur := start
	remaining := size
	for order := MaxOrder; order >= MinOrder; order-- {
		blockSize := uintptr(1) << uint(order)
		for remaining >= blockSize && isAligned(cur, blockSize) {
			h.pushFree(order, cur)
			cur += blockSize
			remaining -= blockSize
		}
	}
	return h, true
}

func blockCountAtOrder(size uintptr, order int) int {
	return int(size >> uint(order))
}

//go:nosplit
func ceilLog2(size uintptr) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

//go:nosplit
func readNextFree(addr uintptr) uintptr {
	return uintptr(*(*uint64)(unsafe.Pointer(addr)))
}

//go:nosplit
func writeNextFree(addr uintptr, next uintptr) {
	*(*uint64)(unsafe.Pointer(addr)) = uint64(next)
}

//go:nosplit
func (h *BuddyHeap) pushFree(order int, addr uintptr) {
	writeNextFree(addr, h.freeListHead[order])
	h.freeListHead[order] = addr
}

//go:nosplit
func (h *BuddyHeap) popFree(order int) (uintptr, bool) {
	addr := h.freeListHead[order]
	if addr == 0 {
		return 0, false
	}
	h.freeListHead[order] = readNextFree(addr)
	return addr, true
}

// removeFree unlinks addr from free-list[order]; used when a buddy
// that is whole and free gets pulled back out to be coalesced.
//
//go:nosplit
func (h *BuddyHeap) removeFree(order int, addr uintptr) bool {
	cur := h.freeListHead[order]
	if cur == addr {
		h.freeListHead[order] = readNextFree(addr)
		return true
	}
	for cur != 0 {
		next := readNextFree(cur)
		if next == addr {
			writeNextFree(cur, readNextFree(addr))
			return true
		}
		cur = next
	}
	return false
}

//go:nosplit
func bitAt(bitmap []uint64, idx int) bool {
	return bitmap[idx/64]&(1<<uint(idx%64)) != 0
}

//go:nosplit
func setBit(bitmap []uint64, idx int, v bool) {
	if v {
		bitmap[idx/64] |= 1 << uint(idx%64)
	} else {
		bitmap[idx/64] &^= 1 << uint(idx%64)
	}
}

//go:nosplit
func (h *BuddyHeap) minBlockRange(addr uintptr, order int) (int, int) {
	startIdx := int((addr - h.start) >> MinOrder)
	count := 1 << uint(order-MinOrder)
	return startIdx, count
}

//go:nosplit
func (h *BuddyHeap) rangeAllocated(startIdx, count int, want bool) bool {
	for i := startIdx; i < startIdx+count; i++ {
		if bitAt(h.allocated, i) != want {
			return false
		}
	}
	return true
}

//go:nosplit
func (h *BuddyHeap) setRangeAllocated(startIdx, count int, v bool) {
	for i := startIdx; i < startIdx+count; i++ {
		setBit(h.allocated, i, v)
	}
}

//go:nosplit
func (h *BuddyHeap) orderIndex(addr uintptr, order int) int {
	return int((addr - h.start) >> uint(order))
}

// allocateOrder pops a free block of exactly order, splitting a
// higher-order block if none is free
func (h *BuddyHeap) allocateOrder(order int) (uintptr, bool) {
	if order > MaxOrder {
		return 0, false
	}
	if addr, ok := h.popFree(order); ok {
		return addr, true
	}
	parent, ok := h.allocateOrder(order + 1)
	if !ok {
		return 0, false
	}
	setBit(h.split[order+1], h.orderIndex(parent, order+1), true)
	half := uintptr(1) << uint(order)
	h.pushFree(order, parent+half)
	return parent, true
}

// Allocate rounds size up to an order in [MinOrder, MaxOrder] and
// returns a block of that order, or ok=false if size exceeds 128 KiB
// or the heap is exhausted.
//
//go:nosplit
func (h *BuddyHeap) Allocate(size uintptr) (uintptr, bool) {
	order := ceilLog2(size)
	if order < MinOrder {
		order = MinOrder
	}
	if order > MaxOrder {
		return 0, false
	}
	addr, ok := h.allocateOrder(order)
	if !ok {
		return 0, false
	}
	startIdx, count := h.minBlockRange(addr, order)
	h.setRangeAllocated(startIdx, count, true)
	return addr, true
}

// Deallocate returns a block of the given size (the same size passed
// to the Allocate call that produced ptr) to the heap, coalescing with
// its buddy wherever the whole buddy range is free
//
//go:nosplit
func (h *BuddyHeap) Deallocate(ptr uintptr, size uintptr) {
	order := ceilLog2(size)
	if order < MinOrder {
		order = MinOrder
	}
	startIdx, count := h.minBlockRange(ptr, order)
	if h.rangeAllocated(startIdx, count, false) {
		klogln("buddy: deallocate of already-free block, ignored")
		return
	}
	h.setRangeAllocated(startIdx, count, false)

	addr := ptr
	for order < MaxOrder {
		numMinBlocks := 1 << uint(order-MinOrder)
		minIdx, _ := h.minBlockRange(addr, order)
		buddyMinIdx := minIdx ^ numMinBlocks
		buddyAddr := h.start + uintptr(buddyMinIdx)<<MinOrder

		buddyOwnIdx := h.orderIndex(buddyAddr, order)
		buddySplit := order < MaxOrder && bitAt(h.split[order], buddyOwnIdx)
		if buddySplit || !h.rangeAllocated(buddyMinIdx, numMinBlocks, false) {
			break
		}
		if !h.removeFree(order, buddyAddr) {
			break
		}
		parentAddr := addr
		if buddyAddr < addr {
			parentAddr = buddyAddr
		}
		setBit(h.split[order+1], h.orderIndex(parentAddr, order+1), false)
		addr = parentAddr
		order++
	}
	h.pushFree(order, addr)
}
