//go:build riscv64virt && riscv64

package main

import "unsafe"

// Boot splash over the virtio-gpu framebuffer negotiated in
// virtiogpu.go. A prior boot splash for the same display rendered
// with gg.NewContext/image.NewRGBA plus a TrueType face
// (gg_circle_qemu.go, see DESIGN.md), but those packages allocate
// through Go's own heap (make, append, image.NewRGBA's internal
// slice), which only functions once a patched-Go-runtime bring-up
// (scheduler, GC, mmap-syscall emulation) is in place — bring-up this
// kernel deliberately does not carry. A sibling file for the same
// display, framebuffer_text.go, already used the alternative
// elsewhere: direct pixel writes against a raw buffer pointer plus an
// 8x8 bitmap font, no heap involved, so this file follows that
// pattern instead (WritePixel/RenderChar8x8's shape), against the
// buddy-heap-backed buffer virtioGPUSetupFramebuffer scans out rather
// than an MMU-mapped display buffer.
//
// No font glyph table was retrieved for that renderer, so splashGlyph
// below is new: a minimal 8x8, MSB-left bitmap covering only the
// characters the boot banner uses — this is just enough to print one
// line, not a general console font.
const (
	splashWidth  = 160
	splashHeight = 100
	splashPitch  = splashWidth * 4 // BGRA8888

	splashBG = 0xFF_1A1A2E // opaque dark navy
	splashFG = 0xFF_E0E0E0 // opaque near-white
)

// splashFramebuf is the identity-mapped, buddy-heap-backed buffer
// virtioGPUSetupFramebuffer's RESOURCE_ATTACH_BACKING points the host
// at; kept here so splashWritePixel can find it without threading it
// through every call.
var splashFramebuf uintptr

//go:nosplit
func splashWritePixel(x, y uint32, color uint32) {
	if x >= splashWidth || y >= splashHeight {
		return
	}
	off := uintptr(y)*splashPitch + uintptr(x)*4
	p := (*uint32)(unsafe.Pointer(splashFramebuf + off))
	*p = color
}

//go:nosplit
func splashRenderChar8x8(ch byte, px, py uint32, color uint32) {
	glyph, ok := splashGlyph(ch)
	if !ok {
		return
	}
	for row := uint32(0); row < 8; row++ {
		rowBits := glyph[row]
		for col := uint32(0); col < 8; col++ {
			if rowBits&(1<<(7-col)) != 0 {
				splashWritePixel(px+col, py+row, color)
			} else {
				splashWritePixel(px+col, py+row, splashBG)
			}
		}
	}
}

//go:nosplit
func splashRenderString(s string, px, py uint32, color uint32) {
	x := px
	for i := 0; i < len(s); i++ {
		splashRenderChar8x8(s[i], x, py, color)
		x += 8
	}
}

func splashClear() {
	for y := uint32(0); y < splashHeight; y++ {
		for x := uint32(0); x < splashWidth; x++ {
			splashWritePixel(x, y, splashBG)
		}
	}
}

// splashInit allocates the framebuffer, negotiates it with the GPU
// device, paints the boot banner, and flushes once. Best-effort per
// virtiogpu.go's contract: any failure is logged and the caller moves
// on straight to the uart console, which is already up by the time
// this runs.
func splashInit() {
	if !gpuDev.present {
		return
	}
	fb, ok := kmalloc(splashHeight * splashPitch)
	if !ok {
		klogln("splash: out of heap for framebuffer")
		return
	}
	splashFramebuf = fb

	if !virtioGPUSetupFramebuffer(fb, splashWidth, splashHeight) {
		klogln("splash: framebuffer setup failed")
		kfree(fb, splashHeight*splashPitch)
		splashFramebuf = 0
		return
	}

	splashClear()
	splashRenderString("LULA OS", 8, 40, splashFG)
	virtioGPUFlush()
	klogln("splash: banner painted")
}

// splashGlyph returns the 8-row bitmap for the characters the boot
// banner uses; MSB is the leftmost column, matching RenderChar8x8's
// convention. Unlisted characters render as blank (ok==false).
func splashGlyph(ch byte) ([8]byte, bool) {
	switch ch {
	case 'L':
		return [8]byte{
			0b11000000,
			0b11000000,
			0b11000000,
			0b11000000,
			0b11000000,
			0b11000000,
			0b11111110,
			0b00000000,
		}, true
	case 'U':
		return [8]byte{
			0b11000110,
			0b11000110,
			0b11000110,
			0b11000110,
			0b11000110,
			0b11000110,
			0b01111100,
			0b00000000,
		}, true
	case 'A':
		return [8]byte{
			0b00111000,
			0b01101100,
			0b11000110,
			0b11000110,
			0b11111110,
			0b11000110,
			0b11000110,
			0b00000000,
		}, true
	case 'O':
		return [8]byte{
			0b01111100,
			0b11000110,
			0b11000110,
			0b11000110,
			0b11000110,
			0b11000110,
			0b01111100,
			0b00000000,
		}, true
	case 'S':
		return [8]byte{
			0b01111110,
			0b11000000,
			0b11000000,
			0b01111100,
			0b00000110,
			0b00000110,
			0b11111100,
			0b00000000,
		}, true
	case ' ':
		return [8]byte{}, true
	default:
		return [8]byte{}, false
	}
}
