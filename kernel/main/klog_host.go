//go:build !(riscv64virt && riscv64)

package main

import "log"

// klog, klogln and klogHex64 stand in for the UART-backed versions
// (klog.go) when this package is built for the host — under `go
// test` without the riscv64 target, there is no UART to write to, so
// the handful of breadcrumbs the portable allocator cores emit go to
// the test log instead.
func klog(s string) { log.Print(s) }

func klogln(s string) { log.Println(s) }

func klogHex64(v uint64) { log.Printf("0x%016x", v) }
