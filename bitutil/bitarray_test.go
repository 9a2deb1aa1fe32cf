package bitutil

import (
	"bytes"
	"errors"
	"testing"
)

func TestBitArrayAppendBits(t *testing.T) {
	ba := NewBitArray(0)
	ba.AppendBits(0x1, 4)
	ba.AppendBits(0x5, 10)
	if ba.Size() != 14 {
		t.Fatalf("size = %d, want 14", ba.Size())
	}
	// 0001 0000000101 -> 00010000 000101xx
	want := []byte{0x10, 0x14}
	if got := ba.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

func TestBitArrayGrowsAcrossWords(t *testing.T) {
	ba := NewBitArray(0)
	for i := 0; i < 70; i++ {
		ba.AppendBit(i%3 == 0)
	}
	for i := 0; i < 70; i++ {
		if ba.Get(i) != (i%3 == 0) {
			t.Fatalf("bit %d = %v", i, ba.Get(i))
		}
	}
	other := NewBitArray(0)
	other.AppendBitArray(ba)
	if other.Size() != 70 || other.SizeInBytes() != 9 {
		t.Errorf("size = %d (%d bytes), want 70 (9 bytes)", other.Size(), other.SizeInBytes())
	}
}

func TestBitSourceReadBits(t *testing.T) {
	bs := NewBitSource([]byte{0x10, 0x14, 0xFF})
	mode, err := bs.ReadBits(4)
	if err != nil || mode != 1 {
		t.Fatalf("ReadBits(4) = %d, %v", mode, err)
	}
	count, err := bs.ReadBits(10)
	if err != nil || count != 5 {
		t.Fatalf("ReadBits(10) = %d, %v", count, err)
	}
	if bs.Available() != 10 {
		t.Fatalf("Available() = %d, want 10", bs.Available())
	}
	rest, err := bs.ReadBits(10)
	if err != nil || rest != 0x0FF {
		t.Fatalf("ReadBits(10) = %x, %v", rest, err)
	}
	if _, err := bs.ReadBits(1); !errors.Is(err, ErrNotEnoughBits) {
		t.Errorf("reading past the end: err = %v, want ErrNotEnoughBits", err)
	}
}

func TestBitSourceFailedReadConsumesNothing(t *testing.T) {
	bs := NewBitSource([]byte{0xAB})
	if _, err := bs.ReadBits(9); err == nil {
		t.Fatal("expected an error")
	}
	v, err := bs.ReadBits(8)
	if err != nil || v != 0xAB {
		t.Errorf("ReadBits(8) = %x, %v", v, err)
	}
}
