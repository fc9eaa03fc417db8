// Package endian converts fixed-width primitives to and from bytes under a byte-order policy.
//
// Forward is the native little-endian layout. Reversed is defined as the byte reversal of
// the Forward layout, so a single reversal routine serves every width.
package endian

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Order byte order policy
type Order byte

const (
	Forward Order = iota
	Reversed
)

func (o Order) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reversed:
		return "reversed"
	default:
		return fmt.Sprintf("order(%d)", byte(o))
	}
}

// Kind primitive kind
type Kind byte

const (
	InvalidKind Kind = iota
	CharKind
	Int16Kind
	Uint16Kind
	Int32Kind
	Uint32Kind
	Int64Kind
	Uint64Kind
	Float32Kind
	Float64Kind
)

var (
	ErrUnsupportedKind = errors.New("unsupported primitive kind")
	ErrShortBuffer     = errors.New("buffer too short for primitive")
)

// Char a 16-bit character unit
type Char uint16

// Primitive is the closed set of supported primitives.
type Primitive interface {
	Char | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// Width returns the minimal byte width of kind, 0 for unsupported kinds.
func Width(kind Kind) int {
	switch kind {
	case CharKind, Int16Kind, Uint16Kind:
		return 2
	case Int32Kind, Uint32Kind, Float32Kind:
		return 4
	case Int64Kind, Uint64Kind, Float64Kind:
		return 8
	default:
		return 0
	}
}

// KindOf returns the kind of v or ErrUnsupportedKind.
func KindOf(v any) (Kind, error) {
	switch v.(type) {
	case Char:
		return CharKind, nil
	case int16:
		return Int16Kind, nil
	case uint16:
		return Uint16Kind, nil
	case int32:
		return Int32Kind, nil
	case uint32:
		return Uint32Kind, nil
	case int64:
		return Int64Kind, nil
	case uint64:
		return Uint64Kind, nil
	case float32:
		return Float32Kind, nil
	case float64:
		return Float64Kind, nil
	default:
		return InvalidKind, fmt.Errorf("%T: %w", v, ErrUnsupportedKind)
	}
}

// Reverse reverses buf in place.
func Reverse(buf []byte) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Encode returns the minimal-length representation of v.
func Encode(order Order, v any) ([]byte, error) {
	kind, err := KindOf(v)
	if err != nil {
		return nil, err
	}

	var raw [8]byte
	w := Width(kind)
	switch x := v.(type) {
	case Char:
		binary.LittleEndian.PutUint16(raw[:], uint16(x))
	case int16:
		binary.LittleEndian.PutUint16(raw[:], uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(raw[:], x)
	case int32:
		binary.LittleEndian.PutUint32(raw[:], uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(raw[:], x)
	case int64:
		binary.LittleEndian.PutUint64(raw[:], uint64(x))
	case uint64:
		binary.LittleEndian.PutUint64(raw[:], x)
	case float32:
		binary.LittleEndian.PutUint32(raw[:], math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(raw[:], math.Float64bits(x))
	}

	out := make([]byte, w)
	copy(out, raw[:w])
	if order == Reversed {
		Reverse(out)
	}
	return out, nil
}

// Put encodes v into dst and returns the number of bytes written.
func Put[T Primitive](order Order, dst []byte, v T) (int, error) {
	b, err := Encode(order, v)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(b) {
		return 0, ErrShortBuffer
	}
	return copy(dst, b), nil
}

// Decode reads a T from buf at offset. buf is never modified.
func Decode[T Primitive](order Order, buf []byte, offset int) (T, error) {
	var zero T
	kind, err := KindOf(zero)
	if err != nil {
		return zero, err
	}
	w := Width(kind)
	if offset < 0 || offset+w > len(buf) {
		return zero, fmt.Errorf("decode %d bytes at %d of %d: %w", w, offset, len(buf), ErrShortBuffer)
	}

	var raw [8]byte
	copy(raw[:w], buf[offset:offset+w])
	if order == Reversed {
		Reverse(raw[:w])
	}

	var v any
	switch kind {
	case CharKind:
		v = Char(binary.LittleEndian.Uint16(raw[:]))
	case Int16Kind:
		v = int16(binary.LittleEndian.Uint16(raw[:]))
	case Uint16Kind:
		v = binary.LittleEndian.Uint16(raw[:])
	case Int32Kind:
		v = int32(binary.LittleEndian.Uint32(raw[:]))
	case Uint32Kind:
		v = binary.LittleEndian.Uint32(raw[:])
	case Int64Kind:
		v = int64(binary.LittleEndian.Uint64(raw[:]))
	case Uint64Kind:
		v = binary.LittleEndian.Uint64(raw[:])
	case Float32Kind:
		v = math.Float32frombits(binary.LittleEndian.Uint32(raw[:]))
	case Float64Kind:
		v = math.Float64frombits(binary.LittleEndian.Uint64(raw[:]))
	}
	return v.(T), nil
}
