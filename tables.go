package xrif

import "sync"

// The renibble reorder method drives its inner loop off a precomputed
// lookup table rather than per-pixel branches, mirroring the original
// library's lupgen-generated table. Building it in an init keeps the
// source free of a 64KB+ literal array while still paying the
// table-construction cost only once per process. Bitpack, the other
// table-driven method in the original, is implemented here as a direct
// per-bit scan instead (see reorderBitpack in reorderer.go); it has no
// lookup table of its own.

var (
	tablesOnce sync.Once

	// bitshiftNibbles[pixel*6 : pixel*6+6] holds, for a sign-folded 16-bit
	// pixel value, the six bytes the renibble reorder distributes: byte0
	// (the low byte, stored directly), then the high byte's low and high
	// nibbles, each pre-shifted by pixel parity so that accumulating an
	// even pixel's contribution and the following odd pixel's contribution
	// into the same half-plane slot packs both nibbles without collision.
	bitshiftNibbles [65536 * 6]byte
)

func initTables() {
	tablesOnce.Do(func() {
		buildBitshiftNibbles()
	})
}

// buildBitshiftNibbles mirrors bitshift_and_nibbles_lupgen.c: for every
// 16-bit pattern (already sign-folded), record the low byte plus the high
// byte's two nibbles, each placed in the low or high 4 bits of its output
// byte depending on whether the source pixel is even or odd.
func buildBitshiftNibbles() {
	for pix := 0; pix < 65536; pix++ {
		v := uint16(pix)
		lo := byte(v & 0xff)
		hi := byte(v >> 8)
		loNib := hi & 0x0f
		hiNib := (hi >> 4) & 0x0f

		even := pix * 6
		odd := pix*6 + 3
		bitshiftNibbles[even+0] = lo
		bitshiftNibbles[even+1] = loNib
		bitshiftNibbles[even+2] = hiNib
		bitshiftNibbles[odd+0] = lo
		bitshiftNibbles[odd+1] = loNib << 4
		bitshiftNibbles[odd+2] = hiNib << 4
	}
}

func init() {
	initTables()
}
