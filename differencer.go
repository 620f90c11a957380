package xrif

import "encoding/binary"

// Differencing operates on the raw buffer in place, wrapping-subtracting
// neighboring pixels per the chosen method. Because two's-complement
// subtraction is identical bit-for-bit for a signed and unsigned integer of
// the same width, every method below only needs to know the element width
// (1, 2, 4, or 8 bytes), not its signedness -- sign only starts to matter once
// reordering sign-folds a value, not during differencing itself.

func getElem(buf []byte, idx, width int) uint64 {
	off := idx * width
	switch width {
	case 1:
		return uint64(buf[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[off : off+2]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[off : off+4]))
	default:
		return binary.LittleEndian.Uint64(buf[off : off+8])
	}
}

func setElem(buf []byte, idx int, width int, v uint64) {
	off := idx * width
	switch width {
	case 1:
		buf[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf[off:off+8], v)
	}
}

func maskFor(width int) uint64 {
	switch width {
	case 1:
		return 0xff
	case 2:
		return 0xffff
	case 4:
		return 0xffffffff
	default:
		return 0xffffffffffffffff
	}
}

func subElem(buf []byte, idx, width int, minuend int, mask uint64) {
	a := getElem(buf, idx, width)
	b := getElem(buf, minuend, width)
	setElem(buf, idx, width, (a-b)&mask)
}

func addElem(buf []byte, idx, width int, addend int, mask uint64) {
	a := getElem(buf, idx, width)
	b := getElem(buf, addend, width)
	setElem(buf, idx, width, (a+b)&mask)
}

// Difference runs the configured differencing method over h.raw in place.
func (hd *Handle) Difference() Error {
	return hd.runDifference(false)
}

// Undifference reverses the configured differencing method over h.raw in
// place.
func (hd *Handle) Undifference() Error {
	return hd.runDifference(true)
}

func (hd *Handle) runDifference(inverse bool) Error {
	if hd.diffMethod == DifferenceNone {
		return NoError
	}
	if hd.frames < 2 && (hd.diffMethod == DifferencePrevious || hd.diffMethod == DifferenceFirst || hd.diffMethod == DifferencePrevious0) {
		// Fewer than two frames: nothing to difference against.
		return NoError
	}

	buf := hd.raw.Bytes()
	width := hd.elemSize
	npix := int(hd.width) * int(hd.height) * int(hd.depth)
	mask := maskFor(width)

	switch hd.diffMethod {
	case DifferencePrevious:
		return differenceAcrossFrames(buf, npix, int(hd.frames), width, mask, inverse, false)
	case DifferenceFirst:
		return differenceAcrossFrames(buf, npix, int(hd.frames), width, mask, inverse, true)
	case DifferencePrevious0:
		return differencePrevious0(buf, npix, int(hd.frames), width, mask, inverse)
	case DifferencePixel0:
		return differencePixel0(buf, int(hd.width)*int(hd.height), int(hd.frames)*int(hd.depth), width, mask, inverse)
	case DifferencePixel1:
		return differencePixel1(buf, int(hd.width), int(hd.height), int(hd.depth), int(hd.frames), width, mask, inverse)
	case DifferenceBayer:
		if width != 2 {
			return ErrNotImplemented
		}
		return differenceBayer(buf, int(hd.width), int(hd.height), int(hd.depth), int(hd.frames), inverse)
	default:
		return ErrNotImplemented
	}
}

// differenceAcrossFrames implements both "previous" (each frame differenced
// against the one before it) and "first" (every frame differenced against
// frame 0) by choosing, for frame k, a reference frame index of k-1 or 0.
func differenceAcrossFrames(buf []byte, npix, frames, width int, mask uint64, inverse, toFirst bool) Error {
	if !inverse {
		for k := frames - 1; k >= 1; k-- {
			ref := k - 1
			if toFirst {
				ref = 0
			}
			thisOff := k * npix
			refOff := ref * npix
			for p := 0; p < npix; p++ {
				subElem(buf, thisOff+p, width, refOff+p, mask)
			}
		}
		return NoError
	}

	for k := 1; k < frames; k++ {
		ref := k - 1
		if toFirst {
			ref = 0
		}
		thisOff := k * npix
		refOff := ref * npix
		for p := 0; p < npix; p++ {
			addElem(buf, thisOff+p, width, refOff+p, mask)
		}
	}
	return NoError
}

// differencePrevious0 is the legacy variant: frame 0 is left untouched (it
// is reordered and compressed as its own reference), and every later frame
// is differenced against frame 0.
func differencePrevious0(buf []byte, npix, frames, width int, mask uint64, inverse bool) Error {
	return differenceAcrossFrames(buf, npix, frames, width, mask, inverse, true)
}

// differencePixel0 is the classical right-to-left prefix difference within
// each (frame, depth-plane): element 0 is left untouched, every later
// element is differenced against its immediate predecessor, applied from
// the end so the forward pass never reads an already-modified predecessor
// it still needs un-modified.
func differencePixel0(buf []byte, npix, frames, width int, mask uint64, inverse bool) Error {
	planeElems := npix // one depth plane's worth of elements; frames counts every (frame, plane) pair
	_ = planeElems

	if !inverse {
		for f := 0; f < frames; f++ {
			base := f * npix
			for nn := 0; nn <= npix-2; nn++ {
				idx := npix - nn - 1
				subElem(buf, base+idx, width, base+idx-1, mask)
			}
		}
		return NoError
	}

	for f := 0; f < frames; f++ {
		base := f * npix
		for nn := npix - 2; nn >= 0; nn-- {
			idx := npix - nn - 1
			addElem(buf, base+idx, width, base+idx-1, mask)
		}
	}
	return NoError
}

// differencePixel1 first differences each row right-to-left, then
// differences the first column of the resulting image bottom-to-top.
func differencePixel1(buf []byte, width, height, depth, frames, elemWidth int, mask uint64, inverse bool) Error {
	imgElems := width * height

	if !inverse {
		for f := 0; f < frames; f++ {
			for d := 0; d < depth; d++ {
				imoff := (f*depth + d) * imgElems
				for row := 0; row < height; row++ {
					rowoff := imoff + row*width
					for nn := 0; nn <= width-2; nn++ {
						idx := width - nn - 1
						subElem(buf, rowoff+idx, elemWidth, rowoff+idx-1, mask)
					}
				}
				for nn := 0; nn <= height-2; nn++ {
					idx0 := imoff + (height-nn-1)*width
					idx1 := imoff + (height-nn-2)*width
					subElem(buf, idx0, elemWidth, idx1, mask)
				}
			}
		}
		return NoError
	}

	for f := 0; f < frames; f++ {
		for d := 0; d < depth; d++ {
			imoff := (f*depth + d) * imgElems
			for nn := height - 2; nn >= 0; nn-- {
				idx0 := imoff + (height-nn-1)*width
				idx1 := imoff + (height-nn-2)*width
				addElem(buf, idx0, elemWidth, idx1, mask)
			}
			for row := 0; row < height; row++ {
				rowoff := imoff + row*width
				for nn := width - 2; nn >= 0; nn-- {
					idx := width - nn - 1
					addElem(buf, rowoff+idx, elemWidth, rowoff+idx-1, mask)
				}
			}
		}
	}
	return NoError
}

// differenceBayer differences a 2x2-mosaiced sint16 image: each row's
// pixels are differenced against the same-color pixel two columns to the
// left, skipping the first two columns, so each of the four mosaic phases
// forms its own independent difference chain.
func differenceBayer(buf []byte, width, height, depth, frames int, inverse bool) Error {
	const elemWidth = 2
	mask := maskFor(elemWidth)
	imgElems := width * height

	if !inverse {
		for f := 0; f < frames; f++ {
			for d := 0; d < depth; d++ {
				imoff := (f*depth + d) * imgElems
				for row := 0; row < height; row++ {
					rowoff := imoff + row*width
					for nn := 0; nn <= width-4; nn += 2 {
						idxA := rowoff + width - nn - 1
						idxB := rowoff + width - nn - 2
						subElem(buf, idxA, elemWidth, idxA-2, mask)
						subElem(buf, idxB, elemWidth, idxB-2, mask)
					}
				}
			}
		}
		return NoError
	}

	for f := 0; f < frames; f++ {
		for d := 0; d < depth; d++ {
			imoff := (f*depth + d) * imgElems
			for row := 0; row < height; row++ {
				rowoff := imoff + row*width
				for nn := (width - 4) &^ 1; nn >= 0; nn -= 2 {
					idxA := rowoff + width - nn - 1
					idxB := rowoff + width - nn - 2
					addElem(buf, idxA, elemWidth, idxA-2, mask)
					addElem(buf, idxB, elemWidth, idxB-2, mask)
				}
			}
		}
	}
	return NoError
}
