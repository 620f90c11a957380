package xrif

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressor is the capability interface the pipeline calls for every
// backend: bound calculation, one-shot compress/decompress, and
// setup/shutdown for backends that hold a stateful context. The zstd
// backend, which holds such a context, rejects use in the direction it was
// not set up for with ErrInvalidConfig; the none, lz4, lz4hc, fastlz and
// zlib backends hold no context and accept either direction.
type compressor interface {
	minCompressedSize(inputSize int) int
	compress(dst, src []byte) (int, Error)
	decompress(dst, src []byte, originalSize int) (int, Error)
	setup(direction Direction) Error
	shutdown() Error
}

// compressorState owns the handle's currently active backend and its
// direction, lazily constructing backends on first use exactly as the
// stateful zstd/zlib contexts in the original library are lazily created.
type compressorState struct {
	method    CompressMethod
	direction Direction
	active    compressor
}

func (s *compressorState) shutdown() Error {
	if s.active != nil {
		rv := s.active.shutdown()
		s.active = nil
		s.direction = DirectionNone
		return rv
	}
	return NoError
}

// ensure returns the backend for method, creating (or recreating, on a
// direction switch) it as needed.
func (s *compressorState) ensure(h *Handle, method CompressMethod, direction Direction) (compressor, Error) {
	if s.active != nil && s.method == method && s.direction == direction {
		return s.active, NoError
	}

	if s.active != nil {
		if rv := s.active.shutdown(); rv != NoError {
			return nil, rv
		}
		s.active = nil
	}

	backend, rv := newBackend(h, method)
	if rv != NoError {
		return nil, rv
	}

	if rv := backend.setup(direction); rv != NoError {
		return nil, rv
	}

	s.active = backend
	s.method = method
	s.direction = direction
	return backend, NoError
}

func newBackend(h *Handle, method CompressMethod) (compressor, Error) {
	switch method {
	case CompressNone:
		return &noneBackend{}, NoError
	case CompressLZ4:
		return &lz4Backend{acceleration: h.lz4Accel}, NoError
	case CompressLZ4HC:
		return &lz4hcBackend{level: h.lz4hcLevel}, NoError
	case CompressFastLZ:
		return &fastlzBackend{level: h.fastlzLevel}, NoError
	case CompressZstd:
		return &zstdBackend{level: h.zstdLevel}, NoError
	case CompressZlib:
		return &zlibBackend{level: h.zlibLevel, strategy: h.zlibStrategy}, NoError
	default:
		return nil, ErrNotImplemented
	}
}

// --- none: identity copy, used for testing the rest of the pipeline -------

type noneBackend struct{}

func (b *noneBackend) minCompressedSize(inputSize int) int { return inputSize }

func (b *noneBackend) compress(dst, src []byte) (int, Error) {
	if len(dst) < len(src) {
		return 0, ErrInsufficient
	}
	return copy(dst, src), NoError
}

func (b *noneBackend) decompress(dst, src []byte, originalSize int) (int, Error) {
	if len(dst) < originalSize || len(src) < originalSize {
		return 0, ErrInsufficient
	}
	return copy(dst, src[:originalSize]), NoError
}

func (b *noneBackend) setup(Direction) Error { return NoError }
func (b *noneBackend) shutdown() Error       { return NoError }

// --- lz4: fast block mode, grounded on the teacher's file_reducer.go ------

type lz4Backend struct {
	acceleration int
}

func (b *lz4Backend) minCompressedSize(inputSize int) int {
	return lz4.CompressBlockBound(inputSize)
}

func (b *lz4Backend) compress(dst, src []byte) (int, Error) {
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return 0, ErrLibErr
	}
	if n == 0 && len(src) > 0 {
		// incompressible input: lz4 reports 0 when it can't beat the input size.
		return 0, ErrInsufficient
	}
	return n, NoError
}

func (b *lz4Backend) decompress(dst, src []byte, originalSize int) (int, Error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, ErrLibErr
	}
	return n, NoError
}

func (b *lz4Backend) setup(Direction) Error { return NoError }
func (b *lz4Backend) shutdown() Error       { return NoError }

// --- lz4hc: high-compression block mode -----------------------------------

type lz4hcBackend struct {
	level int
}

func (b *lz4hcBackend) minCompressedSize(inputSize int) int {
	return lz4.CompressBlockBound(inputSize)
}

func (b *lz4hcBackend) compress(dst, src []byte) (int, Error) {
	c := lz4.CompressorHC{Level: lz4.CompressionLevel(b.level)}
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return 0, ErrLibErr
	}
	if n == 0 && len(src) > 0 {
		return 0, ErrInsufficient
	}
	return n, NoError
}

func (b *lz4hcBackend) decompress(dst, src []byte, originalSize int) (int, Error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, ErrLibErr
	}
	return n, NoError
}

func (b *lz4hcBackend) setup(Direction) Error { return NoError }
func (b *lz4hcBackend) shutdown() Error       { return NoError }

// --- fastlz: substitution backend ------------------------------------------
//
// No FastLZ binding exists in the retrieval pack or its ecosystem
// neighbors. s2 (klauspost/compress, already a teacher dependency via zstd)
// fills the same "ultra-fast block compressor" role and is wired into the
// fastlz tag's slot; the declared bound still follows the fastlz formula
// from the format (1.05*input + 1) rather than s2's own bound, since the
// header's compress method tag -- not the backend's internal bound -- is
// what downstream buffer sizing keys off.

type fastlzBackend struct {
	level int
}

func (b *fastlzBackend) minCompressedSize(inputSize int) int {
	return int(1.05*float64(inputSize)) + 1
}

func (b *fastlzBackend) compress(dst, src []byte) (int, Error) {
	bound := s2.MaxEncodedLen(len(src))
	if len(dst) < bound {
		// s2 can overrun a tight dst; fall back to an owned scratch buffer
		// and copy, since the fastlz bound the header records can be
		// smaller than s2's own (more conservative) bound.
		scratch := make([]byte, bound)
		out := s2.Encode(scratch, src)
		if len(dst) < len(out) {
			return 0, ErrInsufficient
		}
		return copy(dst, out), NoError
	}
	out := s2.Encode(dst, src)
	return len(out), NoError
}

func (b *fastlzBackend) decompress(dst, src []byte, originalSize int) (int, Error) {
	out, err := s2.Decode(dst, src)
	if err != nil {
		return 0, ErrLibErr
	}
	return len(out), NoError
}

func (b *fastlzBackend) setup(Direction) Error { return NoError }
func (b *fastlzBackend) shutdown() Error       { return NoError }

// --- zstd: stateful encoder/decoder context ---------------------------------

type zstdBackend struct {
	level   int
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (b *zstdBackend) minCompressedSize(inputSize int) int {
	// Mirrors ZSTD_compressBound's formula without requiring cgo: a small
	// fixed overhead plus ~0.4% of the input.
	return inputSize + inputSize/256 + 128
}

func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 0:
		return zstd.SpeedDefault
	case level <= 3:
		return zstd.SpeedFastest
	case level <= 9:
		return zstd.SpeedDefault
	case level <= 15:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func (b *zstdBackend) setup(direction Direction) Error {
	switch direction {
	case DirectionCompress:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdLevel(b.level)))
		if err != nil {
			return ErrMalloc
		}
		b.encoder = enc
	case DirectionDecompress:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return ErrMalloc
		}
		b.decoder = dec
	default:
		return ErrInvalidConfig
	}
	return NoError
}

func (b *zstdBackend) shutdown() Error {
	if b.encoder != nil {
		_ = b.encoder.Close()
		b.encoder = nil
	}
	if b.decoder != nil {
		b.decoder.Close()
		b.decoder = nil
	}
	return NoError
}

func (b *zstdBackend) compress(dst, src []byte) (int, Error) {
	if b.encoder == nil {
		return 0, ErrInvalidConfig
	}
	out := b.encoder.EncodeAll(src, dst[:0])
	if len(out) > cap(dst) {
		return 0, ErrInsufficient
	}
	return len(out), NoError
}

func (b *zstdBackend) decompress(dst, src []byte, originalSize int) (int, Error) {
	if b.decoder == nil {
		return 0, ErrInvalidConfig
	}
	out, err := b.decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, ErrLibErr
	}
	return len(out), NoError
}

// --- zlib: deflate via stdlib ------------------------------------------------
//
// zlib's strategy parameter (0..4, i.e. Z_DEFAULT/FILTERED/HUFFMAN_ONLY/
// RLE/FIXED) is accepted and stored on the handle, but is neither applied
// nor written to the header: no library in the retrieval pack, including stdlib
// compress/zlib, exposes deflate strategy control. Level is applied.
// This is the one core-path component that falls back to the standard
// library rather than a third-party dependency, because nothing in the
// pack offers strategy-aware deflate.

type zlibBackend struct {
	level, strategy int
}

func (b *zlibBackend) minCompressedSize(inputSize int) int {
	return inputSize + inputSize/1000 + 128
}

func (b *zlibBackend) setup(direction Direction) Error {
	if direction != DirectionCompress && direction != DirectionDecompress {
		return ErrInvalidConfig
	}
	return NoError
}

func (b *zlibBackend) shutdown() Error { return NoError }

func (b *zlibBackend) compress(dst, src []byte) (int, Error) {
	var buf bytes.Buffer
	level := b.level
	if level < 0 || level > 9 {
		level = zlib.DefaultCompression
	}
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return 0, ErrInvalidConfig
	}
	if _, err := w.Write(src); err != nil {
		return 0, wrapLibErrCode(err)
	}
	if err := w.Close(); err != nil {
		return 0, wrapLibErrCode(err)
	}
	if buf.Len() > len(dst) {
		return 0, ErrInsufficient
	}
	return copy(dst, buf.Bytes()), NoError
}

func (b *zlibBackend) decompress(dst, src []byte, originalSize int) (int, Error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, ErrLibErr
	}
	defer r.Close()
	n, err := io.ReadFull(r, dst[:originalSize])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, wrapLibErrCode(err)
	}
	return n, NoError
}

func wrapLibErrCode(err error) Error {
	if err == nil {
		return NoError
	}
	return ErrLibErr
}
