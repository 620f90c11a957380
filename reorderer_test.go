package xrif

import (
	"encoding/binary"
	"testing"
)

func TestFoldSint16Bijection(t *testing.T) {
	boundary := []int16{0, 1, -1, 2, -2, 32767, -32767, -32768}
	seen := map[uint16]int16{}
	for _, s := range boundary {
		u := foldSint16(s)
		if other, ok := seen[u]; ok && other != s {
			t.Fatalf("fold collision: fold(%d) == fold(%d) == %d", s, other, u)
		}
		seen[u] = s
		if back := unfoldSint16(u); back != s {
			t.Fatalf("unfold(fold(%d)) = %d", s, back)
		}
	}
}

func TestFoldSint16FullDomain(t *testing.T) {
	for s := -32768; s <= 32767; s++ {
		u := foldSint16(int16(s))
		if back := unfoldSint16(u); back != int16(s) {
			t.Fatalf("unfold(fold(%d)) = %d", s, back)
		}
	}
}

func newTestHandle(t *testing.T, w, h, d, f uint32, diff DifferenceMethod, reorder ReorderMethod) *Handle {
	t.Helper()
	hd := New(nil)
	if rv := hd.SetSize(w, h, d, f, TypeInt16); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(diff, reorder, CompressNone)
	if rv := hd.AllocateRaw(); rv != NoError {
		t.Fatalf("AllocateRaw: %v", rv)
	}
	if rv := hd.AllocateReordered(); rv != NoError {
		t.Fatalf("AllocateReordered: %v", rv)
	}
	return hd
}

func fillPattern(buf []byte) {
	for i := range buf {
		buf[i] = byte(i*37 + 11)
	}
}

func TestReorderBytepackRoundTrip(t *testing.T) {
	hd := newTestHandle(t, 8, 8, 1, 3, DifferenceNone, ReorderBytepack)
	fillPattern(hd.raw.Bytes())
	original := append([]byte(nil), hd.raw.Bytes()...)

	if rv := hd.Reorder(); rv != NoError {
		t.Fatalf("Reorder: %v", rv)
	}
	// Reorder left the encoded bytes in hd.reordered and hd.raw untouched;
	// Unreorder reads hd.reordered and overwrites hd.raw in place.
	if rv := hd.Unreorder(); rv != NoError {
		t.Fatalf("Unreorder: %v", rv)
	}

	got := hd.raw.Bytes()
	for i := range original {
		if got[i] != original[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], original[i])
		}
	}
}

func TestReorderRenibbleRoundTrip(t *testing.T) {
	hd := newTestHandle(t, 7, 5, 1, 1, DifferenceNone, ReorderBytepackRenibble)
	fillPattern(hd.raw.Bytes())
	original := append([]byte(nil), hd.raw.Bytes()...)

	if rv := hd.Reorder(); rv != NoError {
		t.Fatalf("Reorder: %v", rv)
	}
	if rv := hd.Unreorder(); rv != NoError {
		t.Fatalf("Unreorder: %v", rv)
	}

	got := hd.raw.Bytes()
	for i := range original {
		if got[i] != original[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], original[i])
		}
	}
}

// TestReorderRenibbleExtremeValues pins the 0x7FFF case that a prior
// version of the renibble table lost: it only kept 4 of the high byte's 8
// bits, so 32767 round-tripped as 2047 at an even pixel index.
func TestReorderRenibbleExtremeValues(t *testing.T) {
	hd := newTestHandle(t, 4, 2, 1, 1, DifferenceNone, ReorderBytepackRenibble)
	want := []int16{32767, -32768, -1, 0, 1, -32767, 12345, -12345}
	buf := hd.raw.Bytes()
	for i, v := range want {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(v))
	}

	if rv := hd.Reorder(); rv != NoError {
		t.Fatalf("Reorder: %v", rv)
	}
	if rv := hd.Unreorder(); rv != NoError {
		t.Fatalf("Unreorder: %v", rv)
	}

	got := hd.raw.Bytes()
	for i, v := range want {
		gv := int16(binary.LittleEndian.Uint16(got[i*2 : i*2+2]))
		if gv != v {
			t.Fatalf("pixel %d: got %d, want %d", i, gv, v)
		}
	}
}

func TestReorderBitpackRoundTrip(t *testing.T) {
	hd := newTestHandle(t, 9, 3, 1, 2, DifferenceNone, ReorderBitpack)
	fillPattern(hd.raw.Bytes())
	original := append([]byte(nil), hd.raw.Bytes()...)

	if rv := hd.Reorder(); rv != NoError {
		t.Fatalf("Reorder: %v", rv)
	}
	if rv := hd.Unreorder(); rv != NoError {
		t.Fatalf("Unreorder: %v", rv)
	}

	got := hd.raw.Bytes()
	for i := range original {
		if got[i] != original[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], original[i])
		}
	}
}

func TestReorderBitpack32BitNotImplemented(t *testing.T) {
	hd := New(nil)
	if rv := hd.SetSize(4, 4, 1, 1, TypeInt32); rv != NoError {
		t.Fatalf("SetSize: %v", rv)
	}
	hd.Configure(DifferenceNone, ReorderBitpack, CompressNone)
	_ = hd.AllocateRaw()
	_ = hd.AllocateReordered()
	if rv := hd.Reorder(); rv != ErrNotImplemented {
		t.Fatalf("got %v, want ErrNotImplemented", rv)
	}
}
