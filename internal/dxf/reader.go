package dxf

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/smartcad/cadlink/internal/streamio"
)

// Reader sequential cursor over (code, value) records.
//
// IMPORTANT: a Reader is owned by a single goroutine
type Reader interface {
	// ReadNext advances to the next record
	ReadNext() error
	Code() Code
	Value() any
	Record() Record
	// Position of the current record: line number for text, byte offset for binary
	Position() int64
	// IsStart reports whether the current record is the start-of-object sentinel
	IsStart() bool
	ValueAsString() string
	ValueAsHandle() uint64
	ValueAsDouble() float64
	ValueAsShort() int16
	ValueAsInt() int32
	ValueAsBool() bool
	// SetEncoding sets the code page used by following string values
	SetEncoding(enc encoding.Encoding)
}

// NewReader detects the binary sentinel and returns the matching reader.
func NewReader(r io.Reader) (Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(BinarySentinel))
	if err == nil && string(head) == BinarySentinel {
		s, err := streamio.New(br)
		if err != nil {
			return nil, &StreamError{Err: err}
		}
		return NewBinaryReader(s)
	}
	return NewTextReader(br), nil
}

// cursor current record shared by both readers
type cursor struct {
	rec Record
	pos int64
	enc encoding.Encoding
}

func (c *cursor) Code() Code                        { return c.rec.Code }
func (c *cursor) Value() any                        { return c.rec.Value }
func (c *cursor) Record() Record                    { return c.rec }
func (c *cursor) Position() int64                   { return c.pos }
func (c *cursor) IsStart() bool                     { return c.rec.Code == Start }
func (c *cursor) ValueAsString() string             { return c.rec.AsString() }
func (c *cursor) ValueAsHandle() uint64             { return c.rec.AsHandle() }
func (c *cursor) ValueAsDouble() float64            { return c.rec.AsDouble() }
func (c *cursor) ValueAsShort() int16               { return c.rec.AsShort() }
func (c *cursor) ValueAsInt() int32                 { return c.rec.AsInt() }
func (c *cursor) ValueAsBool() bool                 { return c.rec.AsBool() }
func (c *cursor) SetEncoding(enc encoding.Encoding) { c.enc = enc }

// TextReader line based reader, codes and values alternate on separate lines
type TextReader struct {
	cursor
	r    *bufio.Reader
	line int64
}

func NewTextReader(r io.Reader) *TextReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &TextReader{r: br}
}

func (t *TextReader) readLine() ([]byte, error) {
	line, err := t.r.ReadBytes('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || len(line) == 0 {
			if errors.Is(err, io.EOF) {
				err = ErrUnexpectedEnd
			}
			return nil, &StreamError{Position: t.line, Err: err}
		}
	}
	t.line++
	return bytes.TrimRight(line, "\r\n"), nil
}

func (t *TextReader) ReadNext() error {
	for {
		codeLine, err := t.readLine()
		if err != nil {
			return err
		}
		pos := t.line
		valueLine, err := t.readLine()
		if err != nil {
			return err
		}

		raw := strings.TrimSpace(string(codeLine))
		code, err := strconv.Atoi(raw)
		if err != nil {
			// the pair alignment is lost, nothing after this point can be trusted
			return &StreamError{Position: pos, Err: fmt.Errorf("invalid group code %q", raw)}
		}
		if Code(code) == Comment {
			continue
		}

		t.pos = pos
		value, err := t.parse(Code(code), valueLine)
		if err != nil {
			t.rec = Record{Code: Code(code), Value: string(valueLine)}
			return &ValueError{Position: pos, Code: Code(code), Raw: string(valueLine), Err: err}
		}
		t.rec = Record{Code: Code(code), Value: value}
		return nil
	}
}

func (t *TextReader) parse(code Code, raw []byte) (any, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch ClassifyCode(code) {
	case Point, Double:
		return strconv.ParseFloat(trimmed, 64)
	case Int16:
		v, err := parseInteger(trimmed, 16)
		return int16(v), err
	case Int32:
		v, err := parseInteger(trimmed, 32)
		return int32(v), err
	case Int64:
		return parseInteger(trimmed, 64)
	case Bool:
		v, err := parseInteger(trimmed, 16)
		return v != 0, err
	case HandleValue:
		if trimmed == "" {
			return uint64(0), nil
		}
		return strconv.ParseUint(trimmed, 16, 64)
	case Chunk:
		return hex.DecodeString(trimmed)
	default:
		return streamio.Decode(t.enc, raw)
	}
}

// parseInteger accepts integers written as reals, some producers do that. Values
// outside the bits wide range are an error.
func parseInteger(s string, bits int) (int64, error) {
	v, err := strconv.ParseInt(s, 10, bits)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, err
	}
	limit := math.Ldexp(1, bits-1)
	if math.IsNaN(f) || f < -limit || f >= limit {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrRange}
	}
	return int64(f), nil
}

// BinaryReader reader for the binary encoding
type BinaryReader struct {
	cursor
	s *streamio.Stream
}

// NewBinaryReader consumes the sentinel and returns the reader.
func NewBinaryReader(s *streamio.Stream) (*BinaryReader, error) {
	head, err := s.ReadBytes(len(BinarySentinel))
	if err != nil {
		return nil, &StreamError{Position: s.Position(), Err: err}
	}
	if string(head) != BinarySentinel {
		return nil, &StreamError{Err: ErrNotBinary}
	}
	return &BinaryReader{s: s}, nil
}

func (b *BinaryReader) ReadNext() error {
	for {
		pos := b.s.Position()
		raw, err := b.s.ReadShort()
		if err != nil {
			return &StreamError{Position: pos, Err: fmt.Errorf("%w: %v", ErrUnexpectedEnd, err)}
		}
		code := Code(raw)

		value, err := b.value(code)
		if err != nil {
			var ve *ValueError
			if errors.As(err, &ve) {
				ve.Position = pos
				b.pos = pos
				b.rec = Record{Code: code, Value: ve.Raw}
				return ve
			}
			return &StreamError{Position: pos, Err: err}
		}
		if code == Comment {
			continue
		}
		b.pos = pos
		b.rec = Record{Code: code, Value: value}
		return nil
	}
}

func (b *BinaryReader) value(code Code) (any, error) {
	switch ClassifyCode(code) {
	case Point, Double:
		return b.s.ReadDouble()
	case Int16:
		return b.s.ReadShort()
	case Int32:
		return b.s.ReadInt()
	case Int64:
		return b.s.ReadLong()
	case Bool:
		v, err := b.s.ReadByte()
		return v != 0, err
	case Chunk:
		n, err := b.s.ReadByte()
		if err != nil {
			return nil, err
		}
		return b.s.ReadBytes(int(n))
	case HandleValue:
		str, err := b.cstring()
		if err != nil {
			return nil, err
		}
		if str == "" {
			return uint64(0), nil
		}
		h, err := strconv.ParseUint(str, 16, 64)
		if err != nil {
			return nil, &ValueError{Code: code, Raw: str, Err: err}
		}
		return h, nil
	default:
		return b.cstring()
	}
}

func (b *BinaryReader) cstring() (string, error) {
	raw, err := b.s.ReadUntil(0)
	if err != nil {
		return "", err
	}
	return streamio.Decode(b.enc, raw[:len(raw)-1])
}
