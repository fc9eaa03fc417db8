package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const drawing = "  0\nSECTION\n  2\nENTITIES\n  0\nENDSEC\n  0\nEOF\n"

func compress(t *testing.T, c Compression, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, c)
	require.NoError(t, err)
	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestNewReader(t *testing.T) {
	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			packed := compress(t, c, drawing)
			require.Equal(t, c, Detect(packed))

			rc, got, err := NewReader(bytes.NewReader(packed))
			require.NoError(t, err)
			defer rc.Close()
			require.Equal(t, c, got)

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.Equal(t, drawing, string(data))
		})
	}
}

func TestNewReader_short(t *testing.T) {
	rc, c, err := NewReader(bytes.NewReader([]byte{0x1f}))
	require.NoError(t, err)
	require.Equal(t, None, c)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, []byte{0x1f}, data)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf"+Zstd.Ext())
	require.NoError(t, os.WriteFile(path, compress(t, Zstd, drawing), 0o600))
	require.Equal(t, Zstd, FromPath(path))

	rc, c, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, Zstd, c)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, drawing, string(data))

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.dxf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	require.ErrorIs(t, err, ErrUnknownCompression)
}
