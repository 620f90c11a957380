// Package xrif implements the eXtreme-ao Reordered Image Format codec: a
// lossless differencing/reordering/compression pipeline for 4-D integer
// pixel streams, round-trippable byte-exact through a self-describing
// 48-byte header plus compressed payload.
package xrif

import (
	"log/slog"
	"time"
)

// DifferenceMethod selects the inter/intra-frame decorrelation stage.
type DifferenceMethod int16

const (
	DifferenceNone      DifferenceMethod = -1
	DifferenceDefault   DifferenceMethod = 100
	DifferencePrevious  DifferenceMethod = 100
	DifferenceFirst     DifferenceMethod = 200
	DifferencePixel0    DifferenceMethod = 300
	DifferencePixel1    DifferenceMethod = 400
	DifferenceBayer     DifferenceMethod = 500
	DifferencePrevious0 DifferenceMethod = 600 // legacy tag: differenced like DifferenceFirst; frame 0 is reordered with the rest, not kept in a separate region
)

// ReorderMethod selects the byte/bit reshuffling stage.
type ReorderMethod int16

const (
	ReorderNone             ReorderMethod = -1
	ReorderDefault          ReorderMethod = 100
	ReorderBytepack         ReorderMethod = 100
	ReorderBytepackRenibble ReorderMethod = 200
	ReorderBitpack          ReorderMethod = 300
)

// CompressMethod selects the generic-compression backend.
type CompressMethod int16

const (
	CompressNone    CompressMethod = -1
	CompressDefault CompressMethod = 100
	CompressLZ4     CompressMethod = 100
	CompressLZ4HC   CompressMethod = 200
	CompressFastLZ  CompressMethod = 300
	CompressZstd    CompressMethod = 400
	CompressZlib    CompressMethod = 500
)

// Direction records which direction a stateful compressor backend was last
// set up for; switching direction without a shutdown+setup cycle is an
// error for backends that hold compression/decompression contexts.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionCompress
	DirectionDecompress
)

// Config holds the tunable parameters of a Handle, mirroring the teacher
// library's Config/DefaultConfig split so callers can build a Handle from a
// single value instead of a long chain of setters.
type Config struct {
	DifferenceMethod DifferenceMethod
	ReorderMethod    ReorderMethod
	CompressMethod   CompressMethod

	LZ4Acceleration int // 1..65537
	LZ4HCLevel      int // CLEVEL_MIN..CLEVEL_MAX
	FastLZLevel     int // 1..2
	ZstdLevel       int // ZSTD_minCLevel..ZSTD_maxCLevel, 0 = default
	ZlibLevel       int // 0..9
	ZlibStrategy    int // 0..4

	Parallel    bool
	NumThreads  int
	CompressOnRaw bool

	CalcPerformance bool

	Logger *slog.Logger
}

// DefaultConfig returns the configuration a freshly xrif.New'd handle uses.
func DefaultConfig() *Config {
	return &Config{
		DifferenceMethod: DifferenceDefault,
		ReorderMethod:    ReorderDefault,
		CompressMethod:   CompressDefault,
		LZ4Acceleration:  1,
		LZ4HCLevel:       9,
		FastLZLevel:      1,
		ZstdLevel:        0,
		ZlibLevel:        6,
		ZlibStrategy:     0,
		Parallel:         false,
		NumThreads:       1,
		CompressOnRaw:    true,
		CalcPerformance:  true,
		Logger:           slog.Default(),
	}
}

// Handle is the main XRIF codec object: dimensions, chosen methods, the
// three working buffers, and performance counters. The zero value is not
// usable; construct with New.
type Handle struct {
	cfg *Config

	width, height, depth, frames uint32
	typeCode                     TypeCode
	elemSize                     int
	rawSize                      uint64

	diffMethod     DifferenceMethod
	reorderMethod  ReorderMethod
	compressMethod CompressMethod

	lz4Accel     int
	lz4hcLevel   int
	fastlzLevel  int
	zstdLevel    int
	zlibLevel    int
	zlibStrategy int

	parallel   bool
	numThreads int

	compressOnRaw bool

	raw        Buffer
	reordered  Buffer
	compressed Buffer

	compressedSize int

	direction Direction
	backend   compressorState

	calcPerformance bool

	tsDifferenceStart time.Time
	tsReorderStart    time.Time
	tsCompressStart   time.Time
	tsCompressDone    time.Time

	tsDecompressStart   time.Time
	tsUnreorderStart    time.Time
	tsUndifferenceStart time.Time
	tsUndifferenceDone  time.Time

	compressionRatio float64
	encodeTime       float64
	encodeRate       float64
	differenceTime   float64
	differenceRate   float64
	reorderTime      float64
	reorderRate      float64
	compressTime     float64
	compressRate     float64

	destroyed bool

	log *slog.Logger
}

// New allocates and initializes a fresh Handle with cfg, or DefaultConfig()
// if cfg is nil.
func New(cfg *Config) *Handle {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handle{}
	h.initialize(cfg, logger)
	return h
}

func (h *Handle) initialize(cfg *Config, logger *slog.Logger) {
	h.cfg = cfg
	h.width, h.height, h.depth, h.frames = 0, 0, 0, 0
	h.typeCode = 0
	h.elemSize = 0
	h.rawSize = 0

	h.diffMethod = cfg.DifferenceMethod
	h.reorderMethod = cfg.ReorderMethod
	h.compressMethod = cfg.CompressMethod

	h.lz4Accel = cfg.LZ4Acceleration
	h.lz4hcLevel = cfg.LZ4HCLevel
	h.fastlzLevel = cfg.FastLZLevel
	h.zstdLevel = cfg.ZstdLevel
	h.zlibLevel = cfg.ZlibLevel
	h.zlibStrategy = cfg.ZlibStrategy

	h.parallel = cfg.Parallel
	h.numThreads = cfg.NumThreads
	if h.numThreads < 1 {
		h.numThreads = 1
	}

	h.compressOnRaw = cfg.CompressOnRaw

	h.raw.destroy()
	h.reordered.destroy()
	h.compressed.destroy()

	h.compressedSize = 0
	h.direction = DirectionNone
	h.backend.shutdown()

	h.calcPerformance = cfg.CalcPerformance

	h.compressionRatio = 0
	h.encodeTime = 0
	h.encodeRate = 0
	h.differenceTime = 0
	h.differenceRate = 0
	h.reorderTime = 0
	h.reorderRate = 0
	h.compressTime = 0
	h.compressRate = 0

	h.destroyed = false
	h.log = logger
}

// SetSize configures the stream's dimensions and element type. w, h, d, and
// f must all be non-zero and c must name a known type, or this returns the
// appropriate error without touching any buffer.
func (hd *Handle) SetSize(w, h, d, f uint32, c TypeCode) Error {
	if w == 0 || h == 0 || d == 0 || f == 0 {
		return ErrInvalidSize
	}
	size := Typesize(c)
	if size == 0 {
		return ErrInvalidType
	}

	hd.width = w
	hd.height = h
	hd.depth = d
	hd.frames = f
	hd.typeCode = c
	hd.elemSize = size
	hd.rawSize = uint64(w) * uint64(h) * uint64(d) * uint64(f) * uint64(size)

	return NoError
}

// Configure sets the three pipeline methods in one call.
func (hd *Handle) Configure(diff DifferenceMethod, reorder ReorderMethod, compress CompressMethod) {
	hd.diffMethod = diff
	hd.reorderMethod = reorder
	hd.compressMethod = compress
}

// npix returns the total pixel count W*H*D*F.
func (hd *Handle) npix() uint64 {
	return uint64(hd.width) * uint64(hd.height) * uint64(hd.depth) * uint64(hd.frames)
}

// Reset clears sizes, the compressed size, and the backend context back to
// an "allocated but unconfigured" state without freeing buffers, so a
// handle can be reused to encode many streams of the same shape without
// re-allocating. The chosen methods and backend parameters are kept.
func (hd *Handle) Reset() {
	hd.width, hd.height, hd.depth, hd.frames = 0, 0, 0, 0
	hd.typeCode = 0
	hd.elemSize = 0
	hd.rawSize = 0
	hd.compressedSize = 0
	hd.direction = DirectionNone
	hd.backend.shutdown()
}

// Destroy frees owned buffers and any backend context, then re-initializes
// the handle so New need not be called again before reuse. It is safe to
// call Destroy more than once.
func (hd *Handle) Destroy() {
	hd.raw.destroy()
	hd.reordered.destroy()
	hd.compressed.destroy()
	hd.backend.shutdown()
	cfg := hd.cfg
	logger := hd.log
	hd.initialize(cfg, logger)
	hd.destroyed = true
}
