package xrif

import (
	"encoding/binary"
	"testing"
)

func fillRawInt16(hd *Handle) []int16 {
	npix := int(hd.npix())
	vals := make([]int16, npix)
	buf := hd.raw.Bytes()
	for i := 0; i < npix; i++ {
		v := int16((i*991 + 17) % 4001 - 2000)
		vals[i] = v
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(v))
	}
	return vals
}

func readRawInt16(hd *Handle) []int16 {
	npix := int(hd.npix())
	buf := hd.raw.Bytes()
	out := make([]int16, npix)
	for i := 0; i < npix; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
	}
	return out
}

func diffRoundTrip(t *testing.T, w, h, d, f uint32, method DifferenceMethod) {
	t.Helper()
	hd := New(nil)
	if rv := hd.SetSize(w, h, d, f, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(method, ReorderNone, CompressNone)
	if rv := hd.AllocateRaw(); rv != NoError {
		t.Fatalf("AllocateRaw: %v", rv)
	}

	want := fillRawInt16(hd)

	if rv := hd.Difference(); rv != NoError {
		t.Fatalf("Difference: %v", rv)
	}
	if rv := hd.Undifference(); rv != NoError {
		t.Fatalf("Undifference: %v", rv)
	}

	got := readRawInt16(hd)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDifferencePreviousRoundTrip(t *testing.T) {
	diffRoundTrip(t, 6, 4, 2, 5, DifferencePrevious)
}

func TestDifferenceFirstRoundTrip(t *testing.T) {
	diffRoundTrip(t, 6, 4, 2, 5, DifferenceFirst)
}

func TestDifferencePrevious0RoundTrip(t *testing.T) {
	diffRoundTrip(t, 6, 4, 2, 5, DifferencePrevious0)
}

func TestDifferencePixel0RoundTrip(t *testing.T) {
	diffRoundTrip(t, 6, 4, 2, 5, DifferencePixel0)
}

func TestDifferencePixel1RoundTrip(t *testing.T) {
	diffRoundTrip(t, 7, 5, 2, 3, DifferencePixel1)
}

func TestDifferenceBayerRoundTrip(t *testing.T) {
	diffRoundTrip(t, 8, 6, 1, 2, DifferenceBayer)
}

func TestDifferenceSingleFrameIsNoOp(t *testing.T) {
	hd := New(nil)
	if rv := hd.SetSize(4, 4, 1, 1, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(DifferencePrevious, ReorderNone, CompressNone)
	if rv := hd.AllocateRaw(); rv != NoError {
		t.Fatalf("AllocateRaw: %v", rv)
	}
	want := fillRawInt16(hd)
	if rv := hd.Difference(); rv != NoError {
		t.Fatalf("Difference: %v", rv)
	}
	got := readRawInt16(hd)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("single-frame difference modified data at pixel %d", i)
		}
	}
}
