package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcad/cadlink/internal/cad"
)

type unresolved struct {
	ref, expected string
	found         cad.Object
}

// mapResolver resolver over a plain map
type mapResolver struct {
	objects map[cad.Handle]cad.Object
	misses  []unresolved
}

func newResolver(objs ...cad.Object) *mapResolver {
	r := &mapResolver{objects: make(map[cad.Handle]cad.Object)}
	for _, o := range objs {
		r.objects[o.Handle()] = o
	}
	return r
}

func (r *mapResolver) Lookup(h cad.Handle) (cad.Object, bool) {
	o, ok := r.objects[h]
	return o, ok
}

func (r *mapResolver) LookupEntry(typeName, name string) (cad.TableEntry, bool) {
	for _, o := range r.objects {
		e, ok := o.(cad.TableEntry)
		if ok && e.ObjectName() == typeName && strings.EqualFold(e.EntryName(), name) {
			return e, true
		}
	}
	return nil, false
}

func (r *mapResolver) Unresolved(ref, expected string, found cad.Object) {
	r.misses = append(r.misses, unresolved{ref, expected, found})
}

func withHandle[T cad.Object](o T, h cad.Handle) T {
	o.SetHandle(h)
	return o
}

func TestTryGet(t *testing.T) {
	line := withHandle(cad.NewLine(), 0x10)
	r := newResolver(line)

	got, ok := TryGet[*cad.Line](r, 0x10)
	require.True(t, ok)
	require.Same(t, line, got)

	e, ok := TryGet[cad.Entity](r, 0x10)
	require.True(t, ok)
	require.Same(t, line, e)

	_, ok = TryGet[*cad.Line](r, 0)
	require.False(t, ok)
	require.Empty(t, r.misses)

	_, ok = TryGet[*cad.Line](r, 0x11)
	require.False(t, ok)
	require.Len(t, r.misses, 1)
	require.Equal(t, "11", r.misses[0].ref)
	require.Nil(t, r.misses[0].found)

	_, ok = TryGet[*cad.Layer](r, 0x10)
	require.False(t, ok)
	require.Len(t, r.misses, 2)
	require.Equal(t, cad.TypeLayer, r.misses[1].expected)
	require.Same(t, line, r.misses[1].found)

	_, ok = TryGet[cad.DimensionEntity](r, 0x10)
	require.False(t, ok)
	require.Len(t, r.misses, 3)
	require.Equal(t, cad.TypeDimension, r.misses[2].expected)

	_, ok = TryGet[cad.Object](r, 0x12)
	require.False(t, ok)
	require.Equal(t, "object", r.misses[3].expected)
}

func TestTryGetEntry(t *testing.T) {
	layer := withHandle(cad.NewLayer("Walls"), 0x20)
	r := newResolver(layer)

	got, ok := TryGetEntry[*cad.Layer](r, 0, cad.TypeLayer, "WALLS")
	require.True(t, ok)
	require.Same(t, layer, got)

	got, ok = TryGetEntry[*cad.Layer](r, 0x99, cad.TypeLayer, "walls")
	require.True(t, ok)
	require.Same(t, layer, got)
	require.Len(t, r.misses, 1)

	_, ok = TryGetEntry[*cad.Layer](r, 0, cad.TypeLayer, "")
	require.False(t, ok)
	require.Len(t, r.misses, 1)

	_, ok = TryGetEntry[*cad.Layer](r, 0, cad.TypeLayer, "Doors")
	require.False(t, ok)
	require.Len(t, r.misses, 2)
}

func TestObjectTemplate_Build(t *testing.T) {
	dict := withHandle(cad.NewDictionary(), 0x1)
	xdict := withHandle(cad.NewDictionary(), 0x2)
	reactor := withHandle(&cad.DictionaryVariable{}, 0x3)
	line := withHandle(cad.NewLine(), 0x10)
	r := newResolver(dict, xdict, reactor, line)

	tmpl := NewObjectTemplate(line)
	tmpl.OwnerHandle = 0x1
	tmpl.XDictionaryHandle = 0x2
	tmpl.ReactorHandles = []cad.Handle{0x3, 0x44, 0x1}
	tmpl.Build(r)

	require.Same(t, dict, line.Owner)
	require.Same(t, xdict, line.XDictionary)
	require.Equal(t, []cad.Object{reactor, dict}, line.Reactors)
	require.Len(t, r.misses, 1)
}

func TestEntityTemplate_missingLayer(t *testing.T) {
	line := withHandle(cad.NewLine(), 0x10)
	r := newResolver(line)

	tmpl := NewEntityTemplate(line)
	tmpl.OwnerHandle = 0x77
	tmpl.LayerName = "Hidden"
	require.NotPanics(t, func() { tmpl.Build(r) })

	require.Nil(t, line.Owner)
	require.Nil(t, line.Layer)
	require.Equal(t, cad.DefaultLayerName, line.LayerName())
	require.Len(t, r.misses, 2)
}

func TestDimensionTemplate_Build(t *testing.T) {
	style := withHandle(cad.NewDimensionStyle("Standard"), 0x30)
	block := withHandle(cad.NewBlockRecord("*D1"), 0x31)
	dim := withHandle(cad.NewDimensionAligned(cad.NewDimension()), 0x40)
	r := newResolver(style, block, dim)

	tmpl := NewDimensionTemplate(dim)
	tmpl.StyleName = "standard"
	tmpl.BlockHandle = 0x31
	tmpl.Build(r)

	require.Same(t, style, dim.Style)
	require.Same(t, block, dim.Block)
	require.Empty(t, r.misses)
}

func TestDictionaryTemplate_order(t *testing.T) {
	a := withHandle(&cad.Scale{Name: "1:1"}, 0xA)
	b := withHandle(&cad.Scale{Name: "1:2"}, 0xB)
	c := withHandle(&cad.Scale{Name: "1:4"}, 0xC)
	d := withHandle(cad.NewDictionaryWithDefault(), 0x5)
	r := newResolver(a, b, c, d)

	tmpl := NewDictionaryWithDefaultTemplate(d)
	tmpl.Entries = []DictionaryEntry{{"C", 0xC}, {"gone", 0xF}, {"A", 0xA}, {"B", 0xB}}
	tmpl.DefaultHandle = 0xA
	tmpl.Build(r)

	var names []string
	for _, e := range d.Entries() {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"C", "A", "B"}, names)
	require.Same(t, a, d.Lookup("missing"))
	require.Same(t, b, d.Lookup("B"))
	require.Len(t, r.misses, 1)
}

func TestHatchTemplate_Build(t *testing.T) {
	c1 := withHandle(cad.NewCircle(), 0x50)
	c2 := withHandle(cad.NewCircle(), 0x51)
	h := withHandle(cad.NewHatch(), 0x52)
	r := newResolver(c1, c2, h)

	tmpl := NewHatchTemplate(h)
	p1 := tmpl.AddPath(1)
	p1.Handles = []cad.Handle{0x51, 0x50}
	p2 := tmpl.AddPath(16)
	p2.Handles = []cad.Handle{0x99}
	tmpl.Build(r)

	require.Len(t, h.Paths, 2)
	require.Equal(t, []cad.Entity{c2, c1}, h.Paths[0].Entities)
	require.Empty(t, h.Paths[1].Entities)
	require.EqualValues(t, 16, h.Paths[1].Flags)
}

func TestSortEntsTableTemplate_Build(t *testing.T) {
	ms := withHandle(cad.NewBlockRecord(cad.ModelSpaceName), 0x1F)
	l1 := withHandle(cad.NewLine(), 0x60)
	l2 := withHandle(cad.NewLine(), 0x61)
	s := withHandle(&cad.SortEntitiesTable{}, 0x62)
	r := newResolver(ms, l1, l2, s)

	tmpl := NewSortEntsTableTemplate(s)
	tmpl.BlockOwnerHandle = 0x1F
	tmpl.Pairs = []SortPair{{0x61, 0x70}, {0x63, 0x71}, {0x60, 0x72}}
	tmpl.Build(r)

	require.Same(t, ms, s.BlockOwner)
	require.Equal(t, []cad.Sorter{{Entity: l2, SortHandle: 0x70}, {Entity: l1, SortHandle: 0x72}}, s.Sorters)
}

func TestDimAssocTemplate_Build(t *testing.T) {
	dim := withHandle(cad.NewDimension(), 0x80)
	line := withHandle(cad.NewLine(), 0x81)
	d := withHandle(&cad.DimensionAssociativity{}, 0x82)
	r := newResolver(dim, line, d)

	tmpl := NewDimAssocTemplate(d)
	tmpl.DimensionHandle = 0x80
	ref := tmpl.AddRef()
	ref.Ref.SnapType = 1
	ref.GeometryHandle = 0x81
	tmpl.AddRef().GeometryHandle = 0x90
	tmpl.Build(r)

	require.Same(t, dim, d.Dimension)
	require.Len(t, d.PointRefs, 2)
	require.Same(t, line, d.PointRefs[0].Geometry)
	require.Nil(t, d.PointRefs[1].Geometry)
}

func TestBlockVisibilityParameterTemplate_sharedIdentity(t *testing.T) {
	shared := withHandle(cad.NewLine(), 0x100)
	onlyA := withHandle(cad.NewCircle(), 0x101)
	outside := withHandle(cad.NewPoint(), 0x102)
	p := withHandle(&cad.BlockVisibilityParameter{}, 0x103)
	r := newResolver(shared, onlyA, outside, p)

	tmpl := NewBlockVisibilityParameterTemplate(p)
	tmpl.EntityHandles = []cad.Handle{0x100, 0x101}
	tmpl.SubBlocks = []*SubBlockHandles{
		{Name: "A", Handles: []cad.Handle{0x100, 0x101}},
		{Name: "B", Handles: []cad.Handle{0x100, 0x102, 0x1FF}},
	}
	tmpl.Build(r)

	require.Len(t, p.Entities, 2)
	require.Len(t, p.SubBlocks, 2)
	require.Same(t, p.Entities[0], p.SubBlocks[0].Entities[0])
	require.Same(t, p.Entities[0], p.SubBlocks[1].Entities[0])
	require.Same(t, shared, p.SubBlocks[1].Entities[0])
	require.Same(t, onlyA, p.SubBlocks[0].Entities[1])
	require.Len(t, p.SubBlocks[1].Entities, 2)
	require.Same(t, outside, p.SubBlocks[1].Entities[1])
	require.Len(t, r.misses, 1)
}

func TestLayoutAndBlockRecordTemplates(t *testing.T) {
	layout := withHandle(&cad.Layout{Name: "Layout1"}, 0x200)
	block := withHandle(cad.NewBlockRecord(cad.PaperSpaceName), 0x201)
	r := newResolver(layout, block)

	lt := NewLayoutTemplate(layout)
	lt.BlockRecordHandle = 0x201
	lt.ViewportHandle = 0x202
	bt := NewBlockRecordTemplate(block)
	bt.LayoutHandle = 0x200

	bt.Build(r)
	lt.Build(r)

	require.Same(t, block, layout.BlockRecord)
	require.Same(t, layout, block.Layout)
	require.Nil(t, layout.ActiveViewport)
}
