package bitfield

// PTE mirrors SV39 page-table-entry layout: bit 0 V,
// 1 R, 2 W, 3 X, 4 U, 5 G, 6 A, 7 D, two reserved bits, then a 44-bit
// PPN starting at bit 10. Field order matters here — Pack/Unpack walk
// fields in declaration order — so it must track the bit layout
// exactly.
type PTE struct {
	V         bool   `bitfield:",1"`
	R         bool   `bitfield:",1"`
	W         bool   `bitfield:",1"`
	X         bool   `bitfield:",1"`
	U         bool   `bitfield:",1"`
	G         bool   `bitfield:",1"`
	A         bool   `bitfield:",1"`
	D         bool   `bitfield:",1"`
	Reserved  uint8  `bitfield:",2"`
	PPN       uint64 `bitfield:",44"`
}

var pteConfig = &Config{NumBits: 54}

// PackPTE packs an SV39 PTE into its 64-bit wire form via the generic
// reflect-tag packer. Used by the virtual-memory walker (vm.go) to
// build both non-leaf and leaf entries from the same struct shape.
func PackPTE(pte PTE) (uint64, error) {
	return Pack(pte, pteConfig)
}

// UnpackPTE reverses PackPTE; no prior-art equivalent exists for this
// direction (see DESIGN.md) — the debug walker (addr_dbg) is the only
// caller, and it needs the PTE's permission bits back out of a raw
// uint64 read from a table page.
func UnpackPTE(packed uint64) PTE {
	var pte PTE
	_ = Unpack(packed, &pte, pteConfig)
	return pte
}
