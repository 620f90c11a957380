package xrif

import "encoding/binary"

// sign-folding bijection for 16-bit signed values: fold(s) packs sign into
// the low bit so later bit/nibble/byte splitting never has to special-case
// negative numbers. fold(-32768) is the one value whose magnitude doesn't
// fit back in 15 bits after negation, so it gets the dedicated code 1.
func foldSint16(s int16) uint16 {
	if s == -32768 {
		return 1
	}
	sign := uint16(0)
	mag := s
	if s < 0 {
		sign = 1
		mag = -s
	}
	return (uint16(mag) << 1) | sign
}

func unfoldSint16(u uint16) int16 {
	if u == 1 {
		return -32768
	}
	sign := u & 1
	mag := int16(u >> 1)
	if sign == 1 {
		return -mag
	}
	return mag
}

// Reorder runs the configured reordering method over h.raw, writing into
// h.reordered (which must already be sized to hold the result).
func (hd *Handle) Reorder() Error {
	if hd.reorderMethod == ReorderNone {
		return hd.reorderCopy(false)
	}
	switch hd.reorderMethod {
	case ReorderBytepack:
		return hd.reorderBytepack(false)
	case ReorderBytepackRenibble:
		return hd.reorderRenibble(false)
	case ReorderBitpack:
		return hd.reorderBitpack(false)
	default:
		return ErrNotImplemented
	}
}

// Unreorder reverses the configured reordering method, reading h.reordered
// and writing back into h.raw.
func (hd *Handle) Unreorder() Error {
	if hd.reorderMethod == ReorderNone {
		return hd.reorderCopy(true)
	}
	switch hd.reorderMethod {
	case ReorderBytepack:
		return hd.reorderBytepack(true)
	case ReorderBytepackRenibble:
		return hd.reorderRenibble(true)
	case ReorderBitpack:
		return hd.reorderBitpack(true)
	default:
		return ErrNotImplemented
	}
}

func (hd *Handle) reorderCopy(inverse bool) Error {
	n := int(hd.rawSize)
	if hd.raw.Len() < n || hd.reordered.Len() < n {
		return ErrInsufficient
	}
	if !inverse {
		copy(hd.reordered.Bytes()[:n], hd.raw.Bytes()[:n])
	} else {
		copy(hd.raw.Bytes()[:n], hd.reordered.Bytes()[:n])
	}
	return NoError
}

// reorderBytepack splits each 16- or 32-bit element into its constituent
// bytes across separate planes. For 16-bit elements it applies the
// sign-correction swap the original library uses: when the high byte is
// negative (top bit set), low-byte values 0x00 and 0xff are exchanged. The
// swap is its own inverse, so the split stays a clean inverse. 32-bit
// elements are split without any correction.
func (hd *Handle) reorderBytepack(inverse bool) Error {
	npix := int(hd.npix())
	width := hd.elemSize

	// packed always holds the one-element-per-pixel layout (h.raw); planar
	// always holds the split-plane layout (h.reordered). Direction only
	// changes which one is read and which is written, never which buffer
	// holds which layout.
	packed, planar := hd.raw.Bytes(), hd.reordered.Bytes()

	switch width {
	case 2:
		plane0 := planar[0:npix]
		plane1 := planar[npix : 2*npix]
		if !inverse {
			for i := 0; i < npix; i++ {
				v := binary.LittleEndian.Uint16(packed[i*2 : i*2+2])
				lo := byte(v)
				hi := byte(v >> 8)
				if int8(hi) < 0 {
					if int8(lo) == -1 {
						lo = 0
					} else if lo == 0 {
						lo = 0xff
					}
				}
				plane0[i] = lo
				plane1[i] = hi
			}
			return NoError
		}
		for i := 0; i < npix; i++ {
			lo := plane0[i]
			hi := plane1[i]
			if int8(hi) < 0 {
				if lo == 0 {
					lo = 0xff
				} else if lo == 0xff {
					lo = 0
				}
			}
			binary.LittleEndian.PutUint16(packed[i*2:i*2+2], uint16(lo)|uint16(hi)<<8)
		}
		return NoError

	case 4:
		planes := [4][]byte{planar[0:npix], planar[npix : 2*npix], planar[2*npix : 3*npix], planar[3*npix : 4*npix]}
		if !inverse {
			for i := 0; i < npix; i++ {
				v := binary.LittleEndian.Uint32(packed[i*4 : i*4+4])
				for b := 0; b < 4; b++ {
					planes[b][i] = byte(v >> (8 * b))
				}
			}
			return NoError
		}
		for i := 0; i < npix; i++ {
			var v uint32
			for b := 0; b < 4; b++ {
				v |= uint32(planes[b][i]) << (8 * b)
			}
			binary.LittleEndian.PutUint32(packed[i*4:i*4+4], v)
		}
		return NoError

	default:
		return ErrNotImplemented
	}
}

// reorderRenibble splits each sign-folded sint16 element into its low byte
// (stored directly) and the two nibbles of its high byte, accumulated into
// two half-length planes selected by pixel parity, via the precomputed
// bitshiftNibbles table.
func (hd *Handle) reorderRenibble(inverse bool) Error {
	if hd.elemSize != 2 {
		return ErrNotImplemented
	}
	npix := int(hd.npix())
	halfoff := (npix + 1) / 2

	// packed always holds the one-element-per-pixel layout (h.raw); planar
	// always holds the split-plane layout (h.reordered). Direction only
	// changes which one is read and which is written.
	packed, planar := hd.raw.Bytes(), hd.reordered.Bytes()

	plane0 := planar[0:npix]
	// half1 carries the high byte's low nibble, half2 its high nibble; a
	// consecutive even/odd pixel pair shares one slot in each half, the
	// even pixel's contribution in the low 4 bits and the odd pixel's in
	// the high 4 bits (pre-shifted by the bitshiftNibbles table itself).
	half1 := planar[npix : npix+halfoff]
	half2 := planar[npix+halfoff : npix+2*halfoff]

	if !inverse {
		for i := range half1 {
			half1[i] = 0
		}
		for i := range half2 {
			half2[i] = 0
		}
		for i := 0; i < npix; i++ {
			raw := int16(binary.LittleEndian.Uint16(packed[i*2 : i*2+2]))
			u := foldSint16(raw)
			base := int(u)*6 + (i&1)*3
			plane0[i] = bitshiftNibbles[base+0]
			half1[i/2] |= bitshiftNibbles[base+1]
			half2[i/2] |= bitshiftNibbles[base+2]
		}
		return NoError
	}

	for i := 0; i < npix; i++ {
		lo := plane0[i]
		var nib1, nib2 byte
		if i&1 == 0 {
			nib1 = half1[i/2] & 0x0f
			nib2 = half2[i/2] & 0x0f
		} else {
			nib1 = (half1[i/2] >> 4) & 0x0f
			nib2 = (half2[i/2] >> 4) & 0x0f
		}
		hi := nib1 | nib2<<4
		u := uint16(lo) | uint16(hi)<<8
		raw := unfoldSint16(u)
		binary.LittleEndian.PutUint16(packed[i*2:i*2+2], uint16(raw))
	}
	return NoError
}

// reorderBitpack stripes each sign-folded sint16 element's 16 bits across
// 16 bit-plane stripes, one stripe bit per bit position, via a per-bit scan
// of each byte. Only 16-bit elements are implemented; 32- and 64-bit
// bitpack are not part of this format.
func (hd *Handle) reorderBitpack(inverse bool) Error {
	if hd.elemSize != 2 {
		return ErrNotImplemented
	}
	npix := int(hd.npix())
	stride := (npix + 7) / 8

	var src, dst []byte
	if !inverse {
		src, dst = hd.raw.Bytes(), hd.reordered.Bytes()
	} else {
		src, dst = hd.reordered.Bytes(), hd.raw.Bytes()
	}

	if !inverse {
		for i := range dst[:16*stride] {
			dst[i] = 0
		}
		for i := 0; i < npix; i++ {
			raw := int16(binary.LittleEndian.Uint16(src[i*2 : i*2+2]))
			u := foldSint16(raw)
			lo := byte(u)
			hi := byte(u >> 8)
			byteIdx := i / 8
			bitOff := byte(i % 8)
			for bit := 0; bit < 8; bit++ {
				if lo&(1<<uint(bit)) != 0 {
					plane := bit
					dst[plane*stride+byteIdx] |= 1 << bitOff
				}
			}
			for bit := 0; bit < 8; bit++ {
				if hi&(1<<uint(bit)) != 0 {
					plane := 8 + bit
					dst[plane*stride+byteIdx] |= 1 << bitOff
				}
			}
		}
		return NoError
	}

	for i := 0; i < npix; i++ {
		byteIdx := i / 8
		bitOff := byte(i % 8)
		var lo, hi byte
		for bit := 0; bit < 8; bit++ {
			if src[bit*stride+byteIdx]&(1<<bitOff) != 0 {
				lo |= 1 << uint(bit)
			}
		}
		for bit := 0; bit < 8; bit++ {
			if src[(8+bit)*stride+byteIdx]&(1<<bitOff) != 0 {
				hi |= 1 << uint(bit)
			}
		}
		u := uint16(lo) | uint16(hi)<<8
		raw := unfoldSint16(u)
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], uint16(raw))
	}
	return NoError
}
