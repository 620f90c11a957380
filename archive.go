package xrif

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz"
)

// ArchiveStream wraps an already-encoded XRIF stream (header + compressed
// payload) in a further xz layer, for cold storage where decode latency
// matters less than size: xz's larger dictionary window picks up
// cross-frame redundancy the per-frame backends in compress.go don't chase.
// This sits outside the core encode/decode path entirely -- it operates on
// bytes Encode already produced, never on raw pixel data.
func ArchiveStream(stream []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, wrapLibErr("xz", err)
	}
	if _, err := w.Write(stream); err != nil {
		_ = w.Close()
		return nil, wrapLibErr("xz", err)
	}
	if err := w.Close(); err != nil {
		return nil, wrapLibErr("xz", err)
	}
	return buf.Bytes(), nil
}

// UnarchiveStream reverses ArchiveStream.
func UnarchiveStream(archived []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(archived))
	if err != nil {
		return nil, wrapLibErr("xz", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapLibErr("xz", err)
	}
	return out, nil
}
