package xrif

import "encoding/binary"

// HeaderSize is the fixed, little-endian on-disk header size, in bytes.
const HeaderSize = 48

const headerVersion uint32 = 0

var headerMagic = [4]byte{'x', 'r', 'i', 'f'}

// WriteHeader serializes h's dimensions, type, and chosen methods into a
// HeaderSize-byte buffer. buf must be at least HeaderSize bytes; only the
// first HeaderSize bytes are written.
func WriteHeader(buf []byte, h *Handle) Error {
	if len(buf) < HeaderSize {
		return ErrInsufficient
	}

	copy(buf[0:4], headerMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], headerVersion)
	binary.LittleEndian.PutUint32(buf[8:12], HeaderSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.width)
	binary.LittleEndian.PutUint32(buf[16:20], h.height)
	binary.LittleEndian.PutUint32(buf[20:24], h.depth)
	binary.LittleEndian.PutUint32(buf[24:28], h.frames)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(h.typeCode))
	binary.LittleEndian.PutUint16(buf[30:32], uint16(h.diffMethod))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(h.reorderMethod))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(h.compressMethod))

	for i := 36; i < HeaderSize; i++ {
		buf[i] = 0
	}

	if h.compressMethod == CompressLZ4 {
		binary.LittleEndian.PutUint16(buf[36:38], uint16(h.lz4Accel))
	}

	return NoError
}

// ReadHeader verifies the magic and version, then populates h's dimensions,
// type, and methods from buf. It returns the declared header size (so
// callers can advance a stream cursor past it) and an error code.
func ReadHeader(h *Handle, buf []byte) (uint32, Error) {
	if len(buf) < HeaderSize {
		return 0, ErrInsufficient
	}

	if buf[0] != headerMagic[0] || buf[1] != headerMagic[1] || buf[2] != headerMagic[2] || buf[3] != headerMagic[3] {
		return 0, ErrBadHeader
	}

	if binary.LittleEndian.Uint32(buf[4:8]) != headerVersion {
		return 0, ErrWrongVersion
	}

	declaredSize := binary.LittleEndian.Uint32(buf[8:12])

	h.width = binary.LittleEndian.Uint32(buf[12:16])
	h.height = binary.LittleEndian.Uint32(buf[16:20])
	h.depth = binary.LittleEndian.Uint32(buf[20:24])
	h.frames = binary.LittleEndian.Uint32(buf[24:28])
	h.typeCode = TypeCode(binary.LittleEndian.Uint16(buf[28:30]))
	h.elemSize = Typesize(h.typeCode)
	h.diffMethod = DifferenceMethod(int16(binary.LittleEndian.Uint16(buf[30:32])))
	h.reorderMethod = ReorderMethod(int16(binary.LittleEndian.Uint16(buf[32:34])))
	h.compressMethod = CompressMethod(int16(binary.LittleEndian.Uint16(buf[34:36])))

	if h.compressMethod == CompressLZ4 {
		h.lz4Accel = int(binary.LittleEndian.Uint16(buf[36:38]))
	}

	h.rawSize = uint64(h.width) * uint64(h.height) * uint64(h.depth) * uint64(h.frames) * uint64(h.elemSize)

	return declaredSize, NoError
}
