package binario

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian)

	if err := w.WriteUint8(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint16(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint32(0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBlob([]byte("hello")); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf, binary.LittleEndian)

	var u8 uint8
	var u16 uint16
	var u32 uint32
	var b bool

	if err := r.ReadUint8To(&u8); err != nil || u8 != 0xAB {
		t.Fatalf("u8 = %x, err = %v", u8, err)
	}
	if err := r.ReadUint16To(&u16); err != nil || u16 != 0x1234 {
		t.Fatalf("u16 = %x, err = %v", u16, err)
	}
	if err := r.ReadUint32To(&u32); err != nil || u32 != 0xDEADBEEF {
		t.Fatalf("u32 = %x, err = %v", u32, err)
	}
	if err := r.ReadBoolTo(&b); err != nil || !b {
		t.Fatalf("bool = %v, err = %v", b, err)
	}

	blob, err := r.ReadBlob()
	if err != nil || string(blob) != "hello" {
		t.Fatalf("blob = %q, err = %v", blob, err)
	}
}
