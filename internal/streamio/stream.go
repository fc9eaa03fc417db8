// Package streamio cursor over a binary source with endian-aware primitive reads
package streamio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/smartcad/cadlink/internal/endian"
)

var (
	ErrEndOfStream     = errors.New("end of stream")
	ErrNegativeLength  = errors.New("length cannot be negative")
	ErrInvalidPosition = errors.New("invalid stream position")
)

// Stream exclusively owned, strictly sequential cursor.
//
// IMPORTANT: does not provide thread safety
type Stream struct {
	rs     io.ReadSeeker
	pos    int64
	length int64

	// Order default byte order for numeric reads
	Order endian.Order
	// Encoding default text encoding for string reads
	Encoding encoding.Encoding
}

// New wraps r. Sources that cannot seek are copied into memory first.
func New(r io.Reader) (*Stream, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("streamio: copy source: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	length, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err = rs.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}

	return &Stream{
		rs:       rs,
		pos:      pos,
		length:   length,
		Order:    endian.Forward,
		Encoding: charmap.Windows1252,
	}, nil
}

// FromBytes stream over an in-memory buffer
func FromBytes(data []byte) *Stream {
	s, _ := New(bytes.NewReader(data))
	return s
}

// Position current offset
func (s *Stream) Position() int64 {
	return s.pos
}

// Length of the source in bytes
func (s *Stream) Length() int64 {
	return s.length
}

// Remaining bytes after the current position
func (s *Stream) Remaining() int64 {
	return s.length - s.pos
}

// SetPosition moves the cursor, used to restore a snapshot taken with Position.
func (s *Stream) SetPosition(pos int64) error {
	if pos < 0 || pos > s.length {
		return fmt.Errorf("streamio: %d of %d: %w", pos, s.length, ErrInvalidPosition)
	}
	if _, err := s.rs.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

// ReadBytes reads exactly n bytes
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	buf := make([]byte, n)
	if err := s.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Stream) readFull(buf []byte) error {
	read, err := io.ReadFull(s.rs, buf)
	s.pos += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("streamio: need %d bytes at %d: %w", len(buf), s.pos-int64(read), ErrEndOfStream)
		}
		return err
	}
	return nil
}

// ReadByte reads a single byte
func (s *Stream) ReadByte() (byte, error) {
	var b [1]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUntil reads until match, the returned bytes include the terminator.
func (s *Stream) ReadUntil(match byte) ([]byte, error) {
	var line []byte
	for {
		b, err := s.ReadByte()
		if err != nil {
			return line, err
		}
		line = append(line, b)
		if b == match {
			return line, nil
		}
	}
}

// BytesAt reads n bytes at offset and restores the current position.
func (s *Stream) BytesAt(offset int64, n int) ([]byte, error) {
	save := s.pos
	if err := s.SetPosition(offset); err != nil {
		return nil, err
	}
	buf, err := s.ReadBytes(n)
	if restoreErr := s.SetPosition(save); restoreErr != nil && err == nil {
		err = restoreErr
	}
	return buf, err
}

// Read reads a primitive with an explicit byte order.
func Read[T endian.Primitive](s *Stream, order endian.Order) (T, error) {
	var zero T
	kind, err := endian.KindOf(zero)
	if err != nil {
		return zero, err
	}

	var raw [8]byte
	w := endian.Width(kind)
	if err := s.readFull(raw[:w]); err != nil {
		return zero, err
	}
	return endian.Decode[T](order, raw[:w], 0)
}

func (s *Stream) ReadChar() (endian.Char, error) { return Read[endian.Char](s, s.Order) }

func (s *Stream) ReadShort() (int16, error) { return Read[int16](s, s.Order) }

func (s *Stream) ReadUShort() (uint16, error) { return Read[uint16](s, s.Order) }

func (s *Stream) ReadInt() (int32, error) { return Read[int32](s, s.Order) }

func (s *Stream) ReadUInt() (uint32, error) { return Read[uint32](s, s.Order) }

func (s *Stream) ReadLong() (int64, error) { return Read[int64](s, s.Order) }

func (s *Stream) ReadULong() (uint64, error) { return Read[uint64](s, s.Order) }

func (s *Stream) ReadSingle() (float32, error) { return Read[float32](s, s.Order) }

func (s *Stream) ReadDouble() (float64, error) { return Read[float64](s, s.Order) }

// ReadString reads length bytes decoded with the stream encoding.
func (s *Stream) ReadString(length int) (string, error) {
	return s.ReadStringWith(length, s.Encoding)
}

// ReadStringWith reads length bytes decoded with enc.
func (s *Stream) ReadStringWith(length int, enc encoding.Encoding) (string, error) {
	if length == 0 {
		return "", nil
	}
	buf, err := s.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return Decode(enc, buf)
}

// Decode converts raw bytes to a string, nil encoding means UTF-8 as is.
func Decode(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("streamio: decode string: %w", err)
	}
	return string(out), nil
}

// Encode converts s to raw bytes, nil encoding means UTF-8 as is.
func Encode(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("streamio: encode string: %w", err)
	}
	return out, nil
}
