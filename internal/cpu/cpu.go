// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu describes the processor this kernel image assumes,
// for bare-metal targets with no runtime feature detection.
package cpu

// RV64 is a static description of the RISC-V configuration this image
// is built for: no runtime CPUID-equivalent probe exists on RV64 the
// way cpuid does on x86, so — like the ARM64 HasATOMICS stub this
// package replaces — these are compile-time facts about the target,
// not something detected at boot.
var RV64 struct {
	_ CacheLinePad
	HartCount int    // hart count the boot banner reports
	ISA       string // base ISA + standard extension letters this image assumes
	_         CacheLinePad
}

// CacheLinePad avoids false sharing between RV64 and whatever other
// package-level state ends up adjacent to it in .data.
type CacheLinePad struct{ _ [64]byte }

func init() {
	RV64.HartCount = 2
	RV64.ISA = "rv64imac" // I+M+A+C: integer, mul/div, atomics, compressed
}
