package xrif

import "testing"

func TestEncodeDecodeRoundTripNoneCompress(t *testing.T) {
	hd := New(nil)
	if rv := hd.SetSize(10, 8, 2, 4, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(DifferencePixel0, ReorderBytepack, CompressNone)
	if rv := hd.Allocate(); rv != NoError {
		t.Fatalf("Allocate: %v", rv)
	}

	want := fillRawInt16(hd)

	if rv := hd.Encode(); rv != NoError {
		t.Fatalf("Encode: %v", rv)
	}
	if hd.CompressedSize() == 0 {
		t.Fatalf("CompressedSize() = 0 after Encode")
	}

	decHd := New(nil)
	if rv := decHd.SetSize(10, 8, 2, 4, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	decHd.Configure(DifferencePixel0, ReorderBytepack, CompressNone)
	if rv := decHd.Allocate(); rv != NoError {
		t.Fatalf("Allocate: %v", rv)
	}
	decHd.compressedSize = hd.CompressedSize()
	copy(decHd.compressed.Bytes(), hd.compressed.Bytes()[:hd.CompressedSize()])

	if rv := decHd.Decode(); rv != NoError {
		t.Fatalf("Decode: %v", rv)
	}

	got := readRawInt16(decHd)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}

	if hd.CompressionRatio() == 0 {
		t.Fatalf("CompressionRatio() = 0 after Encode")
	}
}

func TestCompressOnRawAliasesBuffers(t *testing.T) {
	hd := New(nil) // DefaultConfig: CompressOnRaw = true
	if rv := hd.SetSize(6, 6, 1, 2, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(DifferenceNone, ReorderNone, CompressNone)
	if rv := hd.Allocate(); rv != NoError {
		t.Fatalf("Allocate: %v", rv)
	}

	raw := hd.raw.Bytes()
	compressed := hd.compressed.Bytes()
	if len(raw) == 0 || len(compressed) == 0 {
		t.Fatalf("expected non-empty raw and compressed buffers")
	}
	raw[0] = 0x42
	if compressed[0] != 0x42 {
		t.Fatalf("compressed buffer does not alias raw buffer under CompressOnRaw")
	}
}

func TestCompressOnRawFalseKeepsBuffersSeparate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CompressOnRaw = false
	hd := New(cfg)
	if rv := hd.SetSize(6, 6, 1, 2, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(DifferenceNone, ReorderNone, CompressNone)
	if rv := hd.Allocate(); rv != NoError {
		t.Fatalf("Allocate: %v", rv)
	}

	raw := hd.raw.Bytes()
	compressed := hd.compressed.Bytes()
	raw[0] = 0x42
	if compressed[0] == 0x42 {
		t.Fatalf("compressed buffer unexpectedly aliases raw buffer with CompressOnRaw disabled")
	}
}

func TestEncodeRejectsUnconfiguredHandle(t *testing.T) {
	hd := New(nil)
	if rv := hd.Encode(); rv != ErrNotSetup {
		t.Fatalf("got %v, want ErrNotSetup", rv)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	hd := New(nil)
	if rv := hd.SetSize(4, 4, 1, 1, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	if rv := hd.AllocateRaw(); rv != NoError {
		t.Fatalf("AllocateRaw: %v", rv)
	}
	hd.Destroy()
	hd.Destroy()
	if hd.raw.Len() != 0 {
		t.Fatalf("raw buffer not cleared after Destroy")
	}
}
