package cad

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcad/cadlink/internal/dxf"
)

func TestHandle_String(t *testing.T) {
	require.Equal(t, "0", Handle(0).String())
	require.Equal(t, "1F", Handle(0x1f).String())
	require.Equal(t, "ABCDEF12", Handle(0xabcdef12).String())
}

func TestTable(t *testing.T) {
	layers := NewTable[*Layer](TypeLayer)
	walls := NewLayer("Walls")
	require.True(t, layers.AddEntry(walls))
	require.False(t, layers.AddEntry(NewBlockRecord("Door")))
	require.Equal(t, 1, layers.Len())
	require.Same(t, layers, walls.Owner)

	got, ok := layers.Get("WALLS")
	require.True(t, ok)
	require.Same(t, walls, got)
	_, ok = layers.Get("Doors")
	require.False(t, ok)

	again := NewLayer("walls")
	require.True(t, layers.AddEntry(again))
	got, _ = layers.Get("Walls")
	require.Same(t, again, got)
	require.Equal(t, []*Layer{walls, again}, layers.Entries())
}

func TestDictionary(t *testing.T) {
	d := NewDictionary()
	first, second := &XRecord{}, &XRecord{}
	d.Add("B", first)
	d.Add("A", second)
	d.Add("B", second)

	require.Equal(t, 2, d.Len())
	require.Equal(t, "B", d.Entries()[0].Name)
	got, ok := d.Get("B")
	require.True(t, ok)
	require.Same(t, second, got)

	var zero Dictionary
	zero.Add("X", first)
	_, ok = zero.Get("X")
	require.True(t, ok)
}

func TestDictionaryWithDefault_Lookup(t *testing.T) {
	d := NewDictionaryWithDefault()
	fallback, named := &DictionaryVariable{Value: "default"}, &DictionaryVariable{Value: "named"}
	d.Default = fallback
	d.Add("Named", named)

	require.Same(t, named, d.Lookup("Named"))
	require.Same(t, fallback, d.Lookup("Other"))
	require.Same(t, &d.Dictionary, d.Dict())
}

func TestClassCollection_Add(t *testing.T) {
	var c ClassCollection
	c.Add(&DxfClass{DxfName: "WIPEOUT", IsEntity: true})
	c.Add(&DxfClass{DxfName: "ACDBPLACEHOLDER"})
	c.Add(&DxfClass{DxfName: "WIPEOUT", CppClassName: "AcDbWipeout"})

	require.Equal(t, 2, c.Len())
	require.Equal(t, "AcDbWipeout", c.List()[0].CppClassName)
	got, ok := c.Get("WIPEOUT")
	require.True(t, ok)
	require.False(t, got.IsEntity)
}

func TestHeader_SetVariable(t *testing.T) {
	var h Header
	h.SetVariable("$INSUNITS", []dxf.Record{dxf.R(70, int16(4))})
	h.SetVariable("$EXTMIN", []dxf.Record{dxf.R(10, 0.0)})
	h.SetVariable("$INSUNITS", []dxf.Record{dxf.R(70, int16(6))})

	require.Equal(t, []string{"$INSUNITS", "$EXTMIN"}, h.VariableNames())
	v, ok := h.Variable("$INSUNITS")
	require.True(t, ok)
	require.Equal(t, int16(6), v[0].AsShort())
}

func TestDocument(t *testing.T) {
	doc := NewDocument()
	require.Nil(t, doc.ModelSpace())

	blocks := NewTable[*BlockRecord](TypeBlockRecord)
	ms := NewBlockRecord("*MODEL_SPACE")
	ms.SetHandle(0x1F)
	blocks.AddEntry(ms)
	doc.BlockRecords = blocks
	require.Same(t, ms, doc.ModelSpace())
	require.True(t, ms.IsModelSpace())

	line := NewLine()
	line.SetHandle(0x30)
	ms.AddEntity(line)
	require.Same(t, ms, line.Owner)
	require.Equal(t, Handle(0x1F), line.OwnerHandle())
	require.Equal(t, DefaultLayerName, line.LayerName())

	doc.SetObjects(map[Handle]Object{0x30: line, 0x1F: ms, 0x1: blocks})
	require.Equal(t, []Handle{0x1, 0x1F, 0x30}, doc.Handles())
	require.Equal(t, 3, doc.Len())
	got, ok := doc.Object(0x30)
	require.True(t, ok)
	require.Same(t, line, got)
}

func TestDimensionVariants(t *testing.T) {
	base := NewDimension()
	base.SetHandle(0x32)
	base.Text = "<>"

	aligned := NewDimensionAligned(base)
	linear := NewDimensionLinear(aligned)
	require.Equal(t, Handle(0x32), linear.Handle())
	require.Equal(t, "<>", linear.Dim().Text)
	require.Equal(t, TypeDimension, linear.ObjectName())
	require.Equal(t, MarkerRotatedDimension, linear.SubclassMarker())

	var d DimensionEntity = linear
	_, ok := d.(AlignedDimension)
	require.True(t, ok)
	_, ok = DimensionEntity(NewDimensionArc()).(AlignedDimension)
	require.False(t, ok)
}
