package ert

import (
	"bytes"
	"testing"
)

func TestBufferAppendClosure(t *testing.T) {
	// Invariant 1: for any sequence of appends summing to S bytes, final
	// len == S and the content equals the concatenation.
	b := NewBuffer()
	chunks := [][]byte{[]byte("hello "), []byte("world"), []byte("!")}
	var want []byte
	for _, c := range chunks {
		b.Append(c)
		want = append(want, c...)
	}
	if b.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(want))
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), want)
	}
}

func TestBufferResizeRounding(t *testing.T) {
	// Invariant 2: requested capacities round up to the nearest multiple
	// of DefaultBufferGranularity. Resize may also shrink the capacity; the
	// rounded request is what is returned either way.
	b := NewBufferWithCapacity(0)
	got := b.Resize(1)
	if got != DefaultBufferGranularity {
		t.Fatalf("Resize(1) = %d, want %d", got, DefaultBufferGranularity)
	}
	got = b.Resize(DefaultBufferGranularity + 1)
	if got != 2*DefaultBufferGranularity {
		t.Fatalf("Resize(%d) = %d, want %d", DefaultBufferGranularity+1, got, 2*DefaultBufferGranularity)
	}
}

func TestBufferEquals(t *testing.T) {
	a := NewBufferWithCopy([]byte("abc"))
	b := NewBufferWithCopy([]byte("abc"))
	if !a.Equals(b) {
		t.Fatal("identical buffers should be equal")
	}
	c := NewBufferWithCopy([]byte("abd"))
	if a.Equals(c) {
		t.Fatal("differing buffers should not be equal")
	}
	empty1 := NewBufferWithCapacity(16)
	empty2 := NewBufferWithCapacity(4096)
	if !empty1.Equals(empty2) {
		t.Fatal("two empty buffers should be equal regardless of capacity")
	}
}

func TestBorrowedBufferOwnership(t *testing.T) {
	// Invariant 3: mutation of a borrowed buffer is refused; here we only
	// assert the ownership flag, since the refusal itself calls
	// Fatal/os.Exit and cannot be exercised in-process.
	data := []byte("external")
	b := NewBorrowedBuffer(data)
	if b.Owned() {
		t.Fatal("borrowed buffer reports itself as owned")
	}
	if b.Len() != len(data) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(data))
	}
}
