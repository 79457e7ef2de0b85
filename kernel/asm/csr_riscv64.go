//go:build riscv64virt && riscv64

package asm

// Machine-mode CSRs. Each pair is a single csrr/csrw, implemented in
// csr_riscv64.s as raw WORD encodings — the Go assembler's riscv64
// backend has no csrr/csrw mnemonics, so the instruction bits are
// assembled by hand the way the ARM64 teacher package hand-assembles
// system-register moves it has no pseudo-op for.

//go:noescape
func ReadMstatus() uint64

//go:noescape
func WriteMstatus(v uint64)

//go:noescape
func ReadMepc() uint64

//go:noescape
func WriteMepc(v uint64)

//go:noescape
func ReadMhartid() uint64

//go:noescape
func ReadMie() uint64

//go:noescape
func WriteMie(v uint64)

//go:noescape
func WriteMedeleg(v uint64)

//go:noescape
func WriteMideleg(v uint64)

//go:noescape
func WriteMcounteren(v uint64)

//go:noescape
func WriteMenvcfg(v uint64)

//go:noescape
func WritePmpaddr0(v uint64)

//go:noescape
func WritePmpcfg0(v uint64)

// Supervisor-mode CSRs.

//go:noescape
func ReadSstatus() uint64

//go:noescape
func WriteSstatus(v uint64)

// SstatusSet and SstatusClear are atomic csrrs/csrrc set/clear-bits
// forms, used by intr_on/intr_off so toggling SIE never races a
// concurrent read-modify-write of the rest of sstatus.

//go:noescape
func SstatusSet(bits uint64)

//go:noescape
func SstatusClear(bits uint64)

//go:noescape
func ReadSepc() uint64

//go:noescape
func WriteSepc(v uint64)

//go:noescape
func ReadSie() uint64

//go:noescape
func WriteSie(v uint64)

//go:noescape
func ReadSip() uint64

//go:noescape
func WriteSip(v uint64)

//go:noescape
func ReadScause() uint64

//go:noescape
func ReadStval() uint64

//go:noescape
func WriteStvec(v uint64)

//go:noescape
func ReadSatp() uint64

//go:noescape
func WriteSatp(v uint64)

//go:noescape
func WriteStimecmp(v uint64)

// General-purpose register moves used only during early boot and the
// trap entry/exit sequence, before Go's own notion of SP/g is safe to
// disturb.

//go:noescape
func ReadTp() uint64

//go:noescape
func WriteTp(v uint64)

//go:noescape
func ReadRa() uint64

//go:noescape
func ReadSp() uint64

//go:noescape
func WriteSp(v uint64)

// SfenceVMA is `sfence.vma zero, zero` — flushes the entire TLB.
//
//go:noescape
func SfenceVMA()

// WaitForInterrupt executes `wfi`.
//
//go:noescape
func WaitForInterrupt()

// Mret executes `mret`, the exit of the boot sequencer's only
// privilege-level transition. Never returns to its caller.
//
//go:noescape
func Mret()

// SpinHint emits the spin-loop hint spinlock and UART
// blocking-put busy-waits are required to emit per iteration.
//
//go:noescape
func SpinHint()

// UsrJump transfers control to addr with an indirect jump and never
// returns — the user-payload loader's final step.
//
//go:noescape
func UsrJump(addr uintptr)
