package endian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip[T Primitive](t *testing.T, values ...T) {
	t.Helper()
	for _, order := range []Order{Forward, Reversed} {
		for _, v := range values {
			b, err := Encode(order, v)
			require.NoError(t, err)

			got, err := Decode[T](order, b, 0)
			require.NoError(t, err)
			require.Equal(t, v, got, "order=%s value=%v", order, v)
		}
	}
}

func TestEncodeDecode_roundTrip(t *testing.T) {
	roundTrip[Char](t, 0, 'A', 0xffff)
	roundTrip[int16](t, 0, -1, math.MinInt16, math.MaxInt16)
	roundTrip[uint16](t, 0, 1, math.MaxUint16)
	roundTrip[int32](t, 0, -123456, math.MinInt32, math.MaxInt32)
	roundTrip[uint32](t, 0, 0xdeadbeef, math.MaxUint32)
	roundTrip[int64](t, 0, -9876543210, math.MinInt64, math.MaxInt64)
	roundTrip[uint64](t, 0, 0x0102030405060708, math.MaxUint64)
	roundTrip[float32](t, 0, -1.5, math.MaxFloat32, math.SmallestNonzeroFloat32)
	roundTrip[float64](t, 0, math.Pi, -math.MaxFloat64, math.Inf(1))
}

func TestEncode_reversedIsByteReversal(t *testing.T) {
	values := []any{Char('z'), int16(-2), uint16(513), int32(-70000), uint32(1 << 30),
		int64(-1 << 40), uint64(1<<63 + 7), float32(3.25), float64(-0.125)}

	for _, v := range values {
		forward, err := Encode(Forward, v)
		require.NoError(t, err)
		reversed, err := Encode(Reversed, v)
		require.NoError(t, err)

		kind, err := KindOf(v)
		require.NoError(t, err)
		require.Len(t, forward, Width(kind))

		Reverse(forward)
		require.Equal(t, forward, reversed, "%T", v)
	}
}

func TestEncode_forwardIsLittleEndian(t *testing.T) {
	b, err := Encode(Forward, uint32(0x01020304))
	require.NoError(t, err)
	require.Equal(t, []byte{4, 3, 2, 1}, b)

	b, err = Encode(Reversed, uint32(0x01020304))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, b)
}

func TestEncode_unsupported(t *testing.T) {
	_, err := Encode(Forward, "text")
	require.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Encode(Forward, 12)
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestDecode_offsetIsPure(t *testing.T) {
	buf := []byte{0xff, 0x01, 0x00, 0x00, 0x00, 0xee}
	snapshot := append([]byte(nil), buf...)

	v, err := Decode[int32](Forward, buf, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	v, err = Decode[int32](Reversed, buf, 1)
	require.NoError(t, err)
	require.EqualValues(t, 0x01000000, v)

	require.Equal(t, snapshot, buf)
}

func TestDecode_shortBuffer(t *testing.T) {
	_, err := Decode[int64](Forward, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 1)
	require.ErrorIs(t, err, ErrShortBuffer)

	_, err = Decode[int16](Forward, []byte{1}, 0)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestPut(t *testing.T) {
	dst := make([]byte, 4)
	n, err := Put(Reversed, dst, int16(0x0102))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{1, 2, 0, 0}, dst)

	_, err = Put(Forward, dst[:1], int32(1))
	require.ErrorIs(t, err, ErrShortBuffer)
}
