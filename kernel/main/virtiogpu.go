//go:build riscv64virt && riscv64

package main

import (
	"unsafe"

	"github.com/blessingchitra/lula-os/kernel/asm"
)

// VirtIO GPU over virtio-mmio — the boot-splash
// component. A prior GPU driver for this same device (virtio_gpu.go,
// deleted from this copy) spoke virtio-PCI instead; QEMU's "virt"
// board exposes the device over virtio-mmio, at the single fixed MMIO
// slot VirtioMMIOBase already names, so the transport layer below is
// new, while the GPU command structures (VirtIOGPUCtrlHdr and
// friends) are kept close to that driver's, since those describe the
// device's wire protocol, not its transport.
//
// Entirely best-effort: any failure here is logged and the kernel
// continues straight to uart-based console operation, never gating
// on it.
const (
	virtioMMIOMagic       = 0x000
	virtioMMIOVersion     = 0x004
	virtioMMIODeviceID    = 0x008
	virtioMMIODeviceFeat  = 0x010
	virtioMMIODeviceFeatS = 0x014
	virtioMMIODriverFeat  = 0x020
	virtioMMIODriverFeatS = 0x024
	virtioMMIOQueueSel    = 0x030
	virtioMMIOQueueNumMax = 0x034
	virtioMMIOQueueNum    = 0x038
	virtioMMIOQueueReady  = 0x044
	virtioMMIOQueueNotify = 0x050
	virtioMMIOInterruptSt = 0x060
	virtioMMIOInterruptAk = 0x064
	virtioMMIOStatus      = 0x070
	virtioMMIOQueueDescLo = 0x080
	virtioMMIOQueueDescHi = 0x084
	virtioMMIOQueueAvLo   = 0x090
	virtioMMIOQueueAvHi   = 0x094
	virtioMMIOQueueUsLo   = 0x0A0
	virtioMMIOQueueUsHi   = 0x0A4

	virtioMagicValue = 0x74726976 // "virt"
	virtioDeviceIDGPU = 16

	virtioStatusAcknowledge = 1 << 0
	virtioStatusDriver      = 1 << 1
	virtioStatusFailed      = 1 << 2
	virtioStatusFeaturesOK  = 1 << 3
	virtioStatusDriverOK    = 1 << 4
)

const (
	gpuCmdGetDisplayInfo    = 0x0100
	gpuCmdResourceCreate2D  = 0x0101
	gpuCmdSetScanout        = 0x0103
	gpuCmdTransferToHost2D  = 0x0105
	gpuCmdResourceAttachBak = 0x0106
	gpuRespOKNodata         = 0x1100

	gpuFormatB8G8R8A8 = 1
)

type gpuCtrlHdr struct {
	Type    uint32
	Flags   uint32
	FenceID uint64
	CtxID   uint32
	Padding uint32
}

type gpuResourceCreate2D struct {
	Hdr        gpuCtrlHdr
	ResourceID uint32
	Format     uint32
	Width      uint32
	Height     uint32
}

type gpuMemEntry struct {
	Addr uint64
	Len  uint32
	_    uint32
}

type gpuResourceAttachBacking struct {
	Hdr        gpuCtrlHdr
	ResourceID uint32
	NrEntries  uint32
}

type gpuRect struct {
	X, Y, Width, Height uint32
}

type gpuSetScanout struct {
	Hdr        gpuCtrlHdr
	Rect       gpuRect
	ScanoutID  uint32
	ResourceID uint32
}

type gpuTransferToHost2D struct {
	Hdr        gpuCtrlHdr
	Rect       gpuRect
	Offset     uint64
	ResourceID uint32
	Padding    uint32
}

type virtioGPUDevice struct {
	present      bool
	controlQ     virtQueue
	resourceID   uint32
	framebuf     uintptr
	fbWidth      uint32
	fbHeight     uint32
}

var gpuDev virtioGPUDevice

//go:nosplit
func vgpuRead32(off uintptr) uint32 { return asm.MmioRead32(VirtioMMIOBase + off) }

//go:nosplit
func vgpuWrite32(off uintptr, v uint32) { asm.MmioWrite32(VirtioMMIOBase+off, v) }

// virtioGPUProbe checks the fixed virtio-mmio slot for a present GPU
// device and, if found, negotiates it up to DRIVER_OK (the standard
// VirtIO 1.2 device initialization sequence, domain-stack
// addition rather than anything the core spec requires).
func virtioGPUProbe() bool {
	if vgpuRead32(virtioMMIOMagic) != virtioMagicValue {
		klogln("vgpu: no virtio-mmio device at the fixed slot")
		return false
	}
	if vgpuRead32(virtioMMIODeviceID) != virtioDeviceIDGPU {
		klogln("vgpu: virtio-mmio slot holds no GPU device")
		return false
	}

	vgpuWrite32(virtioMMIOStatus, 0)
	vgpuWrite32(virtioMMIOStatus, virtioStatusAcknowledge)
	vgpuWrite32(virtioMMIOStatus, virtioStatusAcknowledge|virtioStatusDriver)

	// No optional features negotiated; accept the device's baseline.
	vgpuWrite32(virtioMMIODeviceFeatS, 0)
	vgpuWrite32(virtioMMIODriverFeatS, 0)
	vgpuWrite32(virtioMMIODriverFeat, 0)
	vgpuWrite32(virtioMMIOStatus, virtioStatusAcknowledge|virtioStatusDriver|virtioStatusFeaturesOK)
	if vgpuRead32(virtioMMIOStatus)&virtioStatusFeaturesOK == 0 {
		klogln("vgpu: device rejected feature negotiation")
		vgpuWrite32(virtioMMIOStatus, virtioStatusFailed)
		return false
	}

	if !virtqueueInit(&gpuDev.controlQ, 64) {
		vgpuWrite32(virtioMMIOStatus, virtioStatusFailed)
		return false
	}

	vgpuWrite32(virtioMMIOQueueSel, 0)
	maxQ := vgpuRead32(virtioMMIOQueueNumMax)
	if maxQ == 0 {
		klogln("vgpu: device has no queue 0")
		return false
	}
	vgpuWrite32(virtioMMIOQueueNum, uint32(gpuDev.controlQ.queueSize))
	vgpuWrite32(virtioMMIOQueueDescLo, uint32(gpuDev.controlQ.descTable))
	vgpuWrite32(virtioMMIOQueueDescHi, uint32(uint64(gpuDev.controlQ.descTable)>>32))
	vgpuWrite32(virtioMMIOQueueAvLo, uint32(gpuDev.controlQ.availBase))
	vgpuWrite32(virtioMMIOQueueAvHi, uint32(uint64(gpuDev.controlQ.availBase)>>32))
	vgpuWrite32(virtioMMIOQueueUsLo, uint32(gpuDev.controlQ.usedBase))
	vgpuWrite32(virtioMMIOQueueUsHi, uint32(uint64(gpuDev.controlQ.usedBase)>>32))
	vgpuWrite32(virtioMMIOQueueReady, 1)

	vgpuWrite32(virtioMMIOStatus, virtioStatusAcknowledge|virtioStatusDriver|virtioStatusFeaturesOK|virtioStatusDriverOK)

	gpuDev.present = true
	gpuDev.resourceID = 1
	klogln("vgpu: device negotiated, DRIVER_OK")
	return true
}

// gpuSendCommand posts a two-descriptor (command, response) chain to
// the control queue and polls the used ring for the reply — there is
// no interrupt wiring for this device, only the boot-time splash path
// uses it, so a bounded busy-poll is adequate.
func gpuSendCommand(cmd unsafe.Pointer, cmdLen uint32, resp unsafe.Pointer, respLen uint32) (uint32, bool) {
	vq := &gpuDev.controlQ
	respIdx := vq.addDesc(uint64(uintptr(resp)), respLen, virtqDescFWrite, 0xFFFF)
	if respIdx == 0xFFFF {
		return 0, false
	}
	cmdIdx := vq.addDesc(uint64(uintptr(cmd)), cmdLen, virtqDescFNext, respIdx)
	if cmdIdx == 0xFFFF {
		return 0, false
	}
	vq.publish(cmdIdx)
	vgpuWrite32(virtioMMIOQueueNotify, 0)

	for spins := 0; spins < 10_000_000; spins++ {
		if vq.hasUsed() {
			break
		}
		asm.SpinHint()
	}
	used, ok := vq.popUsed()
	if !ok {
		return 0, false
	}
	vq.freeChain(used)
	hdr := (*gpuCtrlHdr)(resp)
	return hdr.Type, true
}

// virtioGPUSetupFramebuffer creates a BGRA8888 2D resource of the
// given size, backs it with fbAddr (an identity-mapped, already
// page-aligned buffer the caller owns), and scans it out — 's
// domain-stack addition, not part of the core console path.
func virtioGPUSetupFramebuffer(fbAddr uintptr, width, height uint32) bool {
	if !gpuDev.present {
		return false
	}
	gpuDev.framebuf, gpuDev.fbWidth, gpuDev.fbHeight = fbAddr, width, height

	create := gpuResourceCreate2D{
		Hdr:        gpuCtrlHdr{Type: gpuCmdResourceCreate2D},
		ResourceID: gpuDev.resourceID,
		Format:     gpuFormatB8G8R8A8,
		Width:      width,
		Height:     height,
	}
	var createResp gpuCtrlHdr
	if t, ok := gpuSendCommand(unsafe.Pointer(&create), uint32(unsafe.Sizeof(create)), unsafe.Pointer(&createResp), uint32(unsafe.Sizeof(createResp))); !ok || t != gpuRespOKNodata {
		klogln("vgpu: resource_create_2d failed")
		return false
	}

	type attachCmd struct {
		gpuResourceAttachBacking
		Entry gpuMemEntry
	}
	attach := attachCmd{
		gpuResourceAttachBacking: gpuResourceAttachBacking{
			Hdr:        gpuCtrlHdr{Type: gpuCmdResourceAttachBak},
			ResourceID: gpuDev.resourceID,
			NrEntries:  1,
		},
		Entry: gpuMemEntry{Addr: uint64(fbAddr), Len: width * height * 4},
	}
	var attachResp gpuCtrlHdr
	if t, ok := gpuSendCommand(unsafe.Pointer(&attach), uint32(unsafe.Sizeof(attach)), unsafe.Pointer(&attachResp), uint32(unsafe.Sizeof(attachResp))); !ok || t != gpuRespOKNodata {
		klogln("vgpu: resource_attach_backing failed")
		return false
	}

	scanout := gpuSetScanout{
		Hdr:        gpuCtrlHdr{Type: gpuCmdSetScanout},
		Rect:       gpuRect{Width: width, Height: height},
		ResourceID: gpuDev.resourceID,
	}
	var scanoutResp gpuCtrlHdr
	if t, ok := gpuSendCommand(unsafe.Pointer(&scanout), uint32(unsafe.Sizeof(scanout)), unsafe.Pointer(&scanoutResp), uint32(unsafe.Sizeof(scanoutResp))); !ok || t != gpuRespOKNodata {
		klogln("vgpu: set_scanout failed")
		return false
	}
	return true
}

// virtioGPUFlush pushes the whole framebuffer to the host display.
func virtioGPUFlush() {
	if !gpuDev.present {
		return
	}
	transfer := gpuTransferToHost2D{
		Hdr:        gpuCtrlHdr{Type: gpuCmdTransferToHost2D},
		Rect:       gpuRect{Width: gpuDev.fbWidth, Height: gpuDev.fbHeight},
		ResourceID: gpuDev.resourceID,
	}
	var resp gpuCtrlHdr
	if t, ok := gpuSendCommand(unsafe.Pointer(&transfer), uint32(unsafe.Sizeof(transfer)), unsafe.Pointer(&resp), uint32(unsafe.Sizeof(resp))); !ok || t != gpuRespOKNodata {
		klogln("vgpu: transfer_to_host_2d failed")
	}
}
