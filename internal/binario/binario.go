// Package binario provides small, error-returning binary encode/decode
// helpers used for replay headers, wire frames, and save-state blobs. It is
// a thin convenience layer over encoding/binary; every method returns an
// error instead of panicking so that callers can aggregate failures with
// errors.Join, the way the rest of this codebase handles I/O.
package binario

import (
	"encoding/binary"
	"io"
)

// Writer writes primitive values to an underlying io.Writer in a fixed
// byte order.
type Writer struct {
	w     io.Writer
	order binary.ByteOrder
}

// NewWriter wraps w, encoding subsequent values in the given byte order.
func NewWriter(w io.Writer, order binary.ByteOrder) *Writer {
	return &Writer{w: w, order: order}
}

func (w *Writer) WriteUint8(v uint8) error {
	_, err := w.w.Write([]byte{v})
	return err
}

func (w *Writer) WriteUint16(v uint16) error {
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

func (w *Writer) WriteUint32(v uint32) error {
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

func (w *Writer) WriteUint64(v uint64) error {
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, err := w.w.Write(buf[:])
	return err
}

func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteUint8(1)
	}
	return w.WriteUint8(0)
}

// WriteBytes writes the raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteBlob writes a uint32 length prefix followed by the bytes.
func (w *Writer) WriteBlob(b []byte) error {
	if err := w.WriteUint32(uint32(len(b))); err != nil {
		return err
	}
	return w.WriteBytes(b)
}

// Reader reads primitive values from an underlying io.Reader in a fixed
// byte order.
type Reader struct {
	r     io.Reader
	order binary.ByteOrder
}

// NewReader wraps r, decoding subsequent values in the given byte order.
func NewReader(r io.Reader, order binary.ByteOrder) *Reader {
	return &Reader{r: r, order: order}
}

func (r *Reader) ReadUint8To(v *uint8) error {
	var buf [1]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return err
	}
	*v = buf[0]
	return nil
}

func (r *Reader) ReadUint16To(v *uint16) error {
	var buf [2]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return err
	}
	*v = r.order.Uint16(buf[:])
	return nil
}

func (r *Reader) ReadUint32To(v *uint32) error {
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return err
	}
	*v = r.order.Uint32(buf[:])
	return nil
}

func (r *Reader) ReadUint64To(v *uint64) error {
	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return err
	}
	*v = r.order.Uint64(buf[:])
	return nil
}

func (r *Reader) ReadBoolTo(v *bool) error {
	var b uint8
	if err := r.ReadUint8To(&b); err != nil {
		return err
	}
	*v = b != 0
	return nil
}

// ReadBytes reads exactly len(b) bytes into b.
func (r *Reader) ReadBytes(b []byte) error {
	_, err := io.ReadFull(r.r, b)
	return err
}

// ReadBlob reads a uint32 length prefix followed by that many bytes.
func (r *Reader) ReadBlob() ([]byte, error) {
	var n uint32
	if err := r.ReadUint32To(&n); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if err := r.ReadBytes(buf); err != nil {
		return nil, err
	}

	return buf, nil
}
