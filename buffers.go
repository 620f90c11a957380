package xrif

// minReorderedSize returns the reordered buffer size needed for the current
// configuration. Most methods are a same-size bijection on the raw bytes,
// but renibble's odd-pixel-count rounding and bitpack's byte-stride
// rounding can each need a few bytes more than rawSize.
func (hd *Handle) minReorderedSize() int {
	npix := int(hd.npix())
	switch hd.reorderMethod {
	case ReorderBytepackRenibble:
		halfoff := (npix + 1) / 2
		return npix + 2*halfoff
	case ReorderBitpack:
		stride := (npix + 7) / 8
		return 16 * stride
	default:
		return int(hd.rawSize)
	}
}

func (hd *Handle) compressorBound(inputSize int) (int, Error) {
	backend, rv := newBackend(hd, hd.compressMethod)
	if rv != NoError {
		return 0, rv
	}
	return backend.minCompressedSize(inputSize), NoError
}

// minRawSize returns the minimum raw buffer size for the current
// configuration: rawSize, or -- when CompressOnRaw is set -- whichever is
// larger of rawSize and the compressor's worst-case bound, since in that
// mode the compressed output is written back into the raw buffer's own
// storage once reordering has moved the pixel data out of it.
func (hd *Handle) minRawSize() (int, Error) {
	size := int(hd.rawSize)
	if !hd.compressOnRaw {
		return size, NoError
	}
	bound, rv := hd.compressorBound(size)
	if rv != NoError {
		return 0, rv
	}
	if bound > size {
		size = bound
	}
	return size, NoError
}

// SetRaw attaches caller-owned memory as the raw buffer. size must equal
// len(data); this is the borrowed-buffer path, so the handle never frees
// data. When CompressOnRaw is set, size must also cover the compressor's
// worst-case bound, since compress will later write into this same memory.
func (hd *Handle) SetRaw(data []byte, size int) Error {
	if (data == nil) != (size == 0) || len(data) != size {
		return ErrInvalidSize
	}
	need, rv := hd.minRawSize()
	if rv != NoError {
		return rv
	}
	if need != 0 && size < need {
		return ErrInsufficient
	}
	return hd.raw.set(data)
}

// SetReordered attaches caller-owned memory as the reordered buffer.
func (hd *Handle) SetReordered(data []byte, size int) Error {
	if (data == nil) != (size == 0) || len(data) != size {
		return ErrInvalidSize
	}
	if need := hd.minReorderedSize(); need != 0 && size < need {
		return ErrInsufficient
	}
	return hd.reordered.set(data)
}

// SetCompressed attaches caller-owned memory as the compressed buffer. When
// CompressOnRaw is set, the compressed buffer instead aliases the raw
// buffer's own storage and the caller-provided data is ignored: the whole
// point of the mode is to avoid the second allocation.
func (hd *Handle) SetCompressed(data []byte, size int) Error {
	if hd.compressOnRaw {
		if hd.raw.Len() == 0 {
			return ErrNotSetup
		}
		return hd.compressed.set(hd.raw.Bytes())
	}
	if (data == nil) != (size == 0) || len(data) != size {
		return ErrInvalidSize
	}
	return hd.compressed.set(data)
}

// AllocateRaw allocates a handle-owned raw buffer sized for the current
// dimensions, expanded to the compressor's worst-case bound when
// CompressOnRaw is set.
func (hd *Handle) AllocateRaw() Error {
	if hd.rawSize == 0 {
		return ErrNotSetup
	}
	size, rv := hd.minRawSize()
	if rv != NoError {
		return rv
	}
	return hd.raw.allocate(size)
}

// AllocateReordered allocates a handle-owned reordered buffer.
func (hd *Handle) AllocateReordered() Error {
	if hd.rawSize == 0 {
		return ErrNotSetup
	}
	return hd.reordered.allocate(hd.minReorderedSize())
}

// AllocateCompressed allocates a handle-owned compressed buffer, sized to
// the configured backend's worst-case bound over the raw size. When
// CompressOnRaw is set, no separate allocation happens: the compressed
// buffer aliases the raw buffer, which AllocateRaw already sized to cover
// the bound, exactly as the original library's compress-on-raw aliasing
// avoids a second buffer for the common single-shot encode case.
func (hd *Handle) AllocateCompressed() Error {
	if hd.rawSize == 0 {
		return ErrNotSetup
	}
	if hd.compressOnRaw {
		if hd.raw.Len() == 0 {
			return ErrNotSetup
		}
		return hd.compressed.set(hd.raw.Bytes())
	}
	bound, rv := hd.compressorBound(int(hd.rawSize))
	if rv != NoError {
		return rv
	}
	return hd.compressed.allocate(bound)
}

// Allocate allocates all three buffers the encode path needs.
func (hd *Handle) Allocate() Error {
	if rv := hd.AllocateRaw(); rv != NoError {
		return rv
	}
	if rv := hd.AllocateReordered(); rv != NoError {
		return rv
	}
	return hd.AllocateCompressed()
}
