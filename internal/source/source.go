// Package source opens drawing streams. Compressed copies are recognized by their
// magic bytes and decompressed on the fly.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression container of a drawing stream
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zstd
	LZ4
)

var ErrUnknownCompression = errors.New("unknown compression")

var magics = []struct {
	c     Compression
	magic []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{LZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
}

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// Ext file suffix of the container, empty for none
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	}
	return ""
}

func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// FromPath compression named by the file suffix
func FromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	case ".lz4":
		return LZ4
	}
	return None
}

// Detect compression of a stream starting with head
func Detect(head []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.c
		}
	}
	return None
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// NewReader detects the container of r and returns the decompressed stream
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	const msg = "source.NewReader:"
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, fmt.Errorf("%s %w", msg, err)
	}

	c := Detect(head)
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("%s gzip: %w", msg, err)
		}
		return zr, c, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("%s zstd: %w", msg, err)
		}
		return zr.IOReadCloser(), c, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), c, nil
	default:
		return io.NopCloser(br), None, nil
	}
}

// Open opens the file and decompresses it when needed
func Open(path string) (io.ReadCloser, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, None, err
	}
	rc, c, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, None, err
	}
	return readCloser{Reader: rc, close: func() error {
		return errors.Join(rc.Close(), f.Close())
	}}, c, nil
}

// NewWriter wraps w with the compressor of c, closing the writer flushes the container
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
