package dxf

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/smartcad/cadlink/internal/endian"
	"github.com/smartcad/cadlink/internal/streamio"
)

// Writer sink of (code, value) records
type Writer interface {
	Write(code Code, value any) error
	// WriteRecord writes r, convenience for record lists
	WriteRecord(r Record) error
	SetEncoding(enc encoding.Encoding)
	Flush() error
}

// normalize converts value to the Go type implied by the code.
func normalize(code Code, value any) (any, error) {
	rec := Record{Code: code, Value: value}
	switch ClassifyCode(code) {
	case Point, Double:
		switch value.(type) {
		case float64, float32, int, int16, int32, int64:
			return rec.AsDouble(), nil
		}
	case Int16:
		return rec.AsShort(), nil
	case Int32:
		return rec.AsInt(), nil
	case Int64:
		return rec.AsLong(), nil
	case Bool:
		return rec.AsBool(), nil
	case HandleValue:
		return rec.AsHandle(), nil
	case Chunk:
		return rec.AsBytes(), nil
	case String, CommentValue:
		return rec.AsString(), nil
	}
	return nil, fmt.Errorf("dxf: cannot write %T for code %d", value, code)
}

// TextWriter writes the line based encoding
type TextWriter struct {
	w   *bufio.Writer
	enc encoding.Encoding
}

func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

func (t *TextWriter) SetEncoding(enc encoding.Encoding) { t.enc = enc }

func (t *TextWriter) WriteRecord(r Record) error { return t.Write(r.Code, r.Value) }

func (t *TextWriter) Write(code Code, value any) error {
	v, err := normalize(code, value)
	if err != nil {
		return err
	}

	var text string
	switch x := v.(type) {
	case float64:
		text = strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(text, ".eEN") {
			text += ".0"
		}
	case bool:
		text = "0"
		if x {
			text = "1"
		}
	case uint64:
		text = strings.ToUpper(strconv.FormatUint(x, 16))
	case []byte:
		text = strings.ToUpper(hex.EncodeToString(x))
	default:
		text = fmt.Sprint(x)
	}

	raw, err := streamio.Encode(t.enc, text)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(t.w, "%3d\n", int(code)); err != nil {
		return err
	}
	if _, err := t.w.Write(raw); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *TextWriter) Flush() error {
	return t.w.Flush()
}

// BinaryWriter writes the binary encoding, the sentinel is emitted on creation
type BinaryWriter struct {
	buf *bufio.Writer
	w   *streamio.Writer
	err error
}

func NewBinaryWriter(w io.Writer) *BinaryWriter {
	buf := bufio.NewWriter(w)
	sw := streamio.NewWriter(buf)
	sw.Order = endian.Forward
	sw.Encoding = nil
	b := &BinaryWriter{buf: buf, w: sw}
	b.err = sw.WriteBytes([]byte(BinarySentinel))
	return b
}

func (b *BinaryWriter) SetEncoding(enc encoding.Encoding) { b.w.Encoding = enc }

func (b *BinaryWriter) WriteRecord(r Record) error { return b.Write(r.Code, r.Value) }

func (b *BinaryWriter) Write(code Code, value any) error {
	if b.err != nil {
		return b.err
	}
	v, err := normalize(code, value)
	if err != nil {
		return err
	}
	if err := b.w.WriteValue(int16(code)); err != nil {
		return err
	}

	switch x := v.(type) {
	case float64, int16, int32, int64:
		return b.w.WriteValue(x)
	case bool:
		var flag byte
		if x {
			flag = 1
		}
		return b.w.WriteByte(flag)
	case []byte:
		if len(x) > 255 {
			return fmt.Errorf("dxf: chunk of %d bytes exceeds 255", len(x))
		}
		if err := b.w.WriteByte(byte(len(x))); err != nil {
			return err
		}
		return b.w.WriteBytes(x)
	case uint64:
		if err := b.w.WriteString(strings.ToUpper(strconv.FormatUint(x, 16))); err != nil {
			return err
		}
		return b.w.WriteByte(0)
	default:
		if err := b.w.WriteString(fmt.Sprint(x)); err != nil {
			return err
		}
		return b.w.WriteByte(0)
	}
}

func (b *BinaryWriter) Flush() error {
	if b.err != nil {
		return b.err
	}
	return b.buf.Flush()
}
