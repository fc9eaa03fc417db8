package writer

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/config"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/notify"
	"github.com/smartcad/cadlink/internal/reader"
	"github.com/smartcad/cadlink/internal/snapshot"
	"github.com/smartcad/cadlink/internal/source"
)

var (
	logger *zap.Logger
	once   sync.Once
)

func getTestLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			log.Fatal(err)
		}
	})

	return logger
}

func plan(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "plan.dxf"))
	require.NoError(t, err)
	return data
}

// read decodes data and checks that only the two unsupported types were reported
func read(t *testing.T, data []byte) *cad.Document {
	t.Helper()
	coll := notify.NewCollector()
	r, err := reader.NewDxfReader(bytes.NewReader(data), config.Default(), notify.NewChain(coll.Middleware), getTestLogger())
	require.NoError(t, err)
	doc, err := r.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, coll.All(), 2, "%v", coll.All())
	require.Len(t, coll.Of(notify.NotImplemented), 2)
	return doc
}

func write(t *testing.T, doc *cad.Document, format Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewDxfWriter(&buf, format, getTestLogger()).Write(context.Background(), doc))
	return buf.Bytes()
}

func requireSameGraph(t *testing.T, want, got *cad.Document) {
	t.Helper()
	a, b := snapshot.Take(want), snapshot.Take(got)
	require.Empty(t, snapshot.Diff(a, b))

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestDxfWriter_roundTrip(t *testing.T) {
	doc := read(t, plan(t))
	require.Equal(t, 35, doc.Len())

	for _, format := range []Format{Text, Binary} {
		t.Run(format.String(), func(t *testing.T) {
			data := write(t, doc, format)
			if format == Binary {
				require.True(t, bytes.HasPrefix(data, []byte(dxf.BinarySentinel)))
			} else {
				require.Contains(t, string(data), "AcDbDimStyleTable")
			}

			again := read(t, data)
			requireSameGraph(t, doc, again)

			door, ok := again.BlockRecords.Get("Door")
			require.True(t, ok)
			require.NotNil(t, door.Begin)
			require.NotNil(t, door.End)
			require.Len(t, door.Entities, 1)
			require.Equal(t, "Single leaf door", door.Begin.Description)

			project, ok := again.Header.Variable("$PROJECTNAME")
			require.True(t, ok)
			require.Equal(t, "Ωmega plan", project[0].AsString())
		})
	}
}

func TestDxfWriter_writeTwice(t *testing.T) {
	doc := read(t, plan(t))
	first := write(t, doc, Text)
	second := write(t, read(t, first), Text)
	require.Equal(t, string(first), string(second))
}

func TestWriteFile(t *testing.T) {
	doc := read(t, plan(t))
	path := filepath.Join(t.TempDir(), "plan.dxf"+source.Zstd.Ext())
	require.NoError(t, WriteFile(context.Background(), path, doc, Binary, getTestLogger()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, source.Zstd, source.Detect(raw))

	coll := notify.NewCollector()
	again, err := reader.ReadFile(context.Background(), path, config.Default(), notify.NewChain(coll.Middleware), getTestLogger())
	require.NoError(t, err)
	requireSameGraph(t, doc, again)
}

func TestDxfWriter_canceled(t *testing.T) {
	doc := read(t, plan(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewDxfWriter(&buf, Text, getTestLogger()).Write(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
}

// markers subclass markers of the records in order
func markers(recs []dxf.Record) []string {
	var res []string
	for _, r := range recs {
		if r.Code == dxf.Subclass {
			res = append(res, r.AsString())
		}
	}
	return res
}

func TestEncode_dimensionVariants(t *testing.T) {
	base := cad.NewDimension()
	base.SetHandle(0x32)
	require.Equal(t, []string{cad.MarkerEntity, cad.MarkerDimension}, markers(encode(base)))

	aligned := cad.NewDimensionAligned(base)
	require.Equal(t, []string{cad.MarkerEntity, cad.MarkerDimension, cad.MarkerAlignedDimension},
		markers(encode(aligned)))

	linear := cad.NewDimensionLinear(aligned)
	linear.Rotation = 30
	recs := encode(linear)
	require.Equal(t, []string{cad.MarkerEntity, cad.MarkerDimension, cad.MarkerAlignedDimension, cad.MarkerRotatedDimension},
		markers(recs))
	require.Equal(t, dxf.R(50, 30.0), recs[len(recs)-1])
}

func TestEncode_head(t *testing.T) {
	xdict := cad.NewDictionary()
	xdict.SetHandle(0x46)
	owner := cad.NewTable[*cad.DimensionStyle](cad.TypeDimStyle)
	owner.SetHandle(0x3)

	style := cad.NewDimensionStyle("Standard")
	style.SetHandle(0x27)
	style.XDictionary = xdict
	require.True(t, owner.AddEntry(style))

	recs := encode(style)
	require.Equal(t, []dxf.Record{
		dxf.R(dxf.DimStyleHandle, uint64(0x27)),
		dxf.R(dxf.ControlString, dxf.XDictionary),
		dxf.R(dxf.HardOwner, uint64(0x46)),
		dxf.R(dxf.ControlString, dxf.GroupEnd),
		dxf.R(dxf.SoftPointer, uint64(0x3)),
		dxf.R(dxf.Subclass, cad.MarkerSymbolTableRecord),
		dxf.R(dxf.Subclass, cad.MarkerDimStyle),
		dxf.R(dxf.Name, "Standard"),
	}, recs[:8])
}

func TestEncode_unknown(t *testing.T) {
	u := &cad.UnknownObject{Name: "ACDBPLACEHOLDER", Records: []dxf.Record{dxf.R(dxf.Subclass, "AcDbPlaceHolder"), dxf.R(90, int32(3))}}
	u.SetHandle(0x44)
	u.ExtendedData = []cad.ExtendedData{{AppName: "CADLINK", Records: []dxf.Record{dxf.R(1000, "x")}}}

	require.Equal(t, []dxf.Record{
		dxf.R(dxf.Handle, uint64(0x44)),
		dxf.R(dxf.SoftPointer, uint64(0)),
		dxf.R(dxf.Subclass, "AcDbPlaceHolder"),
		dxf.R(90, int32(3)),
		dxf.R(dxf.ExtendedDataStart, "CADLINK"),
		dxf.R(1000, "x"),
	}, encode(u))
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{Text, Binary} {
		got, err := ParseFormat(strings.ToUpper(f.String()))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	_, err := ParseFormat("dwg")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
