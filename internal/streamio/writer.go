package streamio

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/smartcad/cadlink/internal/endian"
)

// Writer writes primitives and strings to w
type Writer struct {
	w       io.Writer
	written int64

	Order    endian.Order
	Encoding encoding.Encoding
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, Order: endian.Forward, Encoding: charmap.Windows1252}
}

// Written bytes so far
func (w *Writer) Written() int64 {
	return w.written
}

// Write encodes v with an explicit byte order.
func Write[T endian.Primitive](w *Writer, v T, order endian.Order) error {
	b, err := endian.Encode(order, v)
	if err != nil {
		return err
	}
	return w.WriteBytes(b)
}

// WriteValue encodes v with the writer byte order.
func (w *Writer) WriteValue(v any) error {
	b, err := endian.Encode(w.Order, v)
	if err != nil {
		return err
	}
	return w.WriteBytes(b)
}

func (w *Writer) WriteBytes(b []byte) error {
	n, err := w.w.Write(b)
	w.written += int64(n)
	return err
}

func (w *Writer) WriteByte(b byte) error {
	return w.WriteBytes([]byte{b})
}

// WriteString writes s with the writer encoding, no terminator.
func (w *Writer) WriteString(s string) error {
	b, err := Encode(w.Encoding, s)
	if err != nil {
		return err
	}
	return w.WriteBytes(b)
}
