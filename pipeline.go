package xrif

import "time"

// Encode runs difference -> reorder -> compress over the handle's buffers
// in sequence, aborting on the first error and recording per-stage
// timestamps when CalcPerformance is set. Buffers must already be sized
// (see Allocate/SetRaw/SetReordered/SetCompressed).
func (hd *Handle) Encode() Error {
	if hd.rawSize == 0 {
		return ErrNotSetup
	}

	backend, rv := hd.backend.ensure(hd, hd.compressMethod, DirectionCompress)
	if rv != NoError {
		return rv
	}

	hd.tsDifferenceStart = now(hd)
	if rv := hd.Difference(); rv != NoError {
		return rv
	}

	hd.tsReorderStart = now(hd)
	if rv := hd.Reorder(); rv != NoError {
		return rv
	}

	hd.tsCompressStart = now(hd)
	n, rv := backend.compress(hd.compressed.Bytes(), hd.reordered.Bytes())
	if rv != NoError {
		return rv
	}
	hd.compressedSize = n
	hd.tsCompressDone = now(hd)

	if hd.calcPerformance {
		hd.computeEncodePerformance()
	}
	return NoError
}

// Decode runs decompress -> unreorder -> undifference, reversing Encode.
// hd.compressedSize must be set to the on-wire compressed payload length
// (e.g. from ReadHeader's caller, or from a prior Encode on the same
// handle).
func (hd *Handle) Decode() Error {
	if hd.rawSize == 0 {
		return ErrNotSetup
	}

	backend, rv := hd.backend.ensure(hd, hd.compressMethod, DirectionDecompress)
	if rv != NoError {
		return rv
	}

	hd.tsDecompressStart = now(hd)
	if _, rv := backend.decompress(hd.reordered.Bytes(), hd.compressed.Bytes()[:hd.compressedSize], hd.minReorderedSize()); rv != NoError {
		return rv
	}

	hd.tsUnreorderStart = now(hd)
	if rv := hd.Unreorder(); rv != NoError {
		return rv
	}

	hd.tsUndifferenceStart = now(hd)
	if rv := hd.Undifference(); rv != NoError {
		return rv
	}
	hd.tsUndifferenceDone = now(hd)

	if hd.calcPerformance {
		hd.computeDecodePerformance()
	}
	return NoError
}

// now returns the wall-clock time used for performance timestamps, or the
// zero time when performance calculation is disabled (avoiding a syscall on
// the hot path in that case).
func now(hd *Handle) time.Time {
	if !hd.calcPerformance {
		return time.Time{}
	}
	return time.Now()
}

func (hd *Handle) computeEncodePerformance() {
	total := hd.tsCompressDone.Sub(hd.tsDifferenceStart).Seconds()
	diffT := hd.tsReorderStart.Sub(hd.tsDifferenceStart).Seconds()
	reorderT := hd.tsCompressStart.Sub(hd.tsReorderStart).Seconds()
	compressT := hd.tsCompressDone.Sub(hd.tsCompressStart).Seconds()

	hd.encodeTime = total
	hd.differenceTime = diffT
	hd.reorderTime = reorderT
	hd.compressTime = compressT

	rawBytes := float64(hd.rawSize)
	hd.encodeRate = rateOf(rawBytes, total)
	hd.differenceRate = rateOf(rawBytes, diffT)
	hd.reorderRate = rateOf(rawBytes, reorderT)
	hd.compressRate = rateOf(rawBytes, compressT)

	if hd.compressedSize > 0 {
		hd.compressionRatio = rawBytes / float64(hd.compressedSize)
	}
}

func (hd *Handle) computeDecodePerformance() {
	total := hd.tsUndifferenceDone.Sub(hd.tsDecompressStart).Seconds()
	reorderT := hd.tsUndifferenceStart.Sub(hd.tsUnreorderStart).Seconds()
	compressT := hd.tsUnreorderStart.Sub(hd.tsDecompressStart).Seconds()
	diffT := hd.tsUndifferenceDone.Sub(hd.tsUndifferenceStart).Seconds()

	hd.encodeTime = total
	hd.differenceTime = diffT
	hd.reorderTime = reorderT
	hd.compressTime = compressT

	rawBytes := float64(hd.rawSize)
	hd.encodeRate = rateOf(rawBytes, total)
	hd.differenceRate = rateOf(rawBytes, diffT)
	hd.reorderRate = rateOf(rawBytes, reorderT)
	hd.compressRate = rateOf(rawBytes, compressT)
}

func rateOf(bytes, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return bytes / seconds
}

// CompressionRatio, EncodeTime, and friends expose the performance counters
// Encode/Decode populate when CalcPerformance is set.
func (hd *Handle) CompressionRatio() float64 { return hd.compressionRatio }
func (hd *Handle) EncodeTime() float64       { return hd.encodeTime }
func (hd *Handle) EncodeRate() float64       { return hd.encodeRate }
func (hd *Handle) DifferenceTime() float64   { return hd.differenceTime }
func (hd *Handle) ReorderTime() float64      { return hd.reorderTime }
func (hd *Handle) CompressTime() float64     { return hd.compressTime }

// CompressedSize returns the number of bytes Encode wrote into the
// compressed buffer.
func (hd *Handle) CompressedSize() int { return hd.compressedSize }
