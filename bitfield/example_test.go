package bitfield_test

import (
	"fmt"

	"github.com/blessingchitra/lula-os/bitfield"
)

func ExamplePTE() {
	pte := bitfield.PTE{
		V: true,
		R: true,
		W: true,
		X: false,
		PPN: 0x80000,
	}

	packed, err := bitfield.PackPTE(pte)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Packed PTE: 0x%016x\n", packed)

	unpacked := bitfield.UnpackPTE(packed)
	fmt.Printf("Unpacked - V: %v, R: %v, W: %v, X: %v, PPN: 0x%x\n",
		unpacked.V, unpacked.R, unpacked.W, unpacked.X, unpacked.PPN)

	// Output:
	// Packed PTE: 0x0000000020000007
	// Unpacked - V: true, R: true, W: true, X: false, PPN: 0x80000
}
