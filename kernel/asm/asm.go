// Package asm is the thin CSR/GPR/MMIO accessor layer underneath the
// rest of this kernel.
//
// Every exported function here is a single instruction or a short,
// non-reorderable sequence implemented in Go assembly (see
// csr_riscv64.s, mmio_riscv64.s). Nothing in this package allocates,
// calls back into Go, or touches the scheduler — it is safe to call
// from trap context and before the Go heap exists.
package asm
