//go:build riscv64virt && riscv64

package main

import (
	"sync/atomic"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// SpinLock is an interrupt-disabling mutual-exclusion
// primitive around a payload of type T. Grounded on the general
// shape of guarding shared state with an atomic key under raw asm
// spinning rather than a named type, given the name and generic
// parameter original_source's Rust SpinLock<T> has, since Go generics
// make that translation direct.
//
// Lock always disables interrupts before spinning and the guard
// restores them on release, so a hart can never be interrupted while
// holding its own lock — which is what prevents the UART ISR from
// deadlocking against the ring-buffer lock on the same hart.
type SpinLock[T any] struct {
	key     atomic.Uint32
	payload T
}

// SpinLockGuard is the live loan of a SpinLock's payload. It must not
// outlive the call that produced it; there is no finalizer to catch a
// forgotten Unlock in a freestanding image.
type SpinLockGuard[T any] struct {
	lock       *SpinLock[T]
	irqEnabled bool
}

// NewSpinLock wraps data in a lock. Used for package-scope singletons
// (the UART ring buffer, the buddy heap) that are constructed once on
// the boot hart and live for the rest of the kernel's lifetime.
func NewSpinLock[T any](data T) *SpinLock[T] {
	return &SpinLock[T]{payload: data}
}

// Lock disables interrupts, spins until the key is acquired, and
// returns a guard. Not reentrant: a hart that calls Lock while already
// holding the same lock will spin forever against itself.
//
//go:nosplit
func (l *SpinLock[T]) Lock() *SpinLockGuard[T] {
	irqEnabled := intrGet()
	intrOff()
	for !l.key.CompareAndSwap(0, 1) {
		asm.SpinHint()
	}
	return &SpinLockGuard[T]{lock: l, irqEnabled: irqEnabled}
}

// Get returns a pointer to the guarded payload.
//
//go:nosplit
func (g *SpinLockGuard[T]) Get() *T {
	return &g.lock.payload
}

// Unlock releases the key and restores the interrupt state observed
// at acquisition time. Must be called exactly once per Lock; there is
// no Drop to call it for us.
//
//go:nosplit
func (g *SpinLockGuard[T]) Unlock() {
	g.lock.key.Store(0)
	if g.irqEnabled {
		intrOn()
	}
}
