package builder

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/config"
	"github.com/smartcad/cadlink/internal/notify"
	"github.com/smartcad/cadlink/internal/snapshot"
	"github.com/smartcad/cadlink/internal/templates"
)

var (
	once   sync.Once
	logger *zap.Logger
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

var (
	fingerprint = uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	version     = uuid.MustParse("11111111-2222-3333-4444-555555555555")
)

func with[T cad.Object](o T, h cad.Handle) T {
	o.SetHandle(h)
	return o
}

// fixture fresh templates of a small drawing: two tables, model space, a layout,
// entities on layers by name, a hatch, a sort table and a visibility parameter
func fixture() []templates.Template {
	var res []templates.Template
	add := func(t templates.Template) { res = append(res, t) }

	blocks := templates.NewTableTemplate(with(cad.NewTable[*cad.BlockRecord](cad.TypeBlockRecord), 0x1))
	add(blocks)
	layers := templates.NewTableTemplate(with(cad.NewTable[*cad.Layer](cad.TypeLayer), 0x2))
	add(layers)

	ms := templates.NewBlockRecordTemplate(with(cad.NewBlockRecord(cad.ModelSpaceName), 0x1F))
	ms.OwnerHandle = 0x1
	ms.LayoutHandle = 0x22
	add(ms)

	for i, name := range []string{"0", "Walls"} {
		l := templates.NewLayerTemplate(with(cad.NewLayer(name), cad.Handle(0x10+i)))
		l.OwnerHandle = 0x2
		add(l)
	}

	root := templates.NewDictionaryTemplate(with(cad.NewDictionary(), 0xC))
	root.Entries = []templates.DictionaryEntry{{Name: "ACAD_LAYOUT", Handle: 0xD}, {Name: "ACAD_GONE", Handle: 0xE}}
	add(root)
	layouts := templates.NewDictionaryTemplate(with(cad.NewDictionary(), 0xD))
	layouts.OwnerHandle = 0xC
	layouts.Entries = []templates.DictionaryEntry{{Name: "Model", Handle: 0x22}}
	add(layouts)

	layout := templates.NewLayoutTemplate(with(&cad.Layout{Name: "Model"}, 0x22))
	layout.OwnerHandle = 0xD
	layout.BlockRecordHandle = 0x1F
	layout.ReactorHandles = []cad.Handle{0xD}
	add(layout)

	for i := 0; i < 8; i++ {
		l := cad.NewLine()
		l.End = cad.XYZ{X: float64(i), Y: 1}
		tmpl := templates.NewEntityTemplate(with(l, cad.Handle(0x30+i)))
		tmpl.OwnerHandle = 0x1F
		tmpl.LayerName = []string{"0", "walls"}[i%2]
		add(tmpl)
	}
	ghost := templates.NewEntityTemplate(with(cad.NewPoint(), 0x38))
	ghost.OwnerHandle = 0x1F
	ghost.LayerName = "Ghost"
	add(ghost)

	circle := templates.NewEntityTemplate(with(cad.NewCircle(), 0x40))
	circle.OwnerHandle = 0x1F
	add(circle)

	hatch := templates.NewHatchTemplate(with(cad.NewHatch(), 0x41))
	hatch.OwnerHandle = 0x1F
	hatch.AddPath(1).Handles = []cad.Handle{0x40, 0x99}
	add(hatch)

	sorts := templates.NewSortEntsTableTemplate(with(&cad.SortEntitiesTable{}, 0x50))
	sorts.BlockOwnerHandle = 0x1F
	sorts.Pairs = []templates.SortPair{{Entity: 0x41, Sort: 0x31}, {Entity: 0x31, Sort: 0x41}}
	add(sorts)

	vis := templates.NewBlockVisibilityParameterTemplate(with(&cad.BlockVisibilityParameter{Name: "Visibility1"}, 0x60))
	vis.EntityHandles = []cad.Handle{0x30, 0x31}
	vis.SubBlocks = []*templates.SubBlockHandles{
		{Name: "On", Handles: []cad.Handle{0x30, 0x31}},
		{Name: "Half", Handles: []cad.Handle{0x30}},
	}
	add(vis)
	return res
}

func build(t *testing.T, cfg config.Config, notes *notify.Chain, tmpls []templates.Template) *cad.Document {
	t.Helper()
	b := New(cfg, notes, getTestLogger())
	b.Document().Header.FingerprintGUID = fingerprint
	b.Document().Header.VersionGUID = version
	for i, tmpl := range tmpls {
		require.NoError(t, b.AddTemplate(tmpl, int64(i)))
	}
	doc, err := b.Build(context.Background())
	require.NoError(t, err)
	return doc
}

func TestBuilder_Build(t *testing.T) {
	doc := build(t, config.Default(), nil, fixture())

	require.Equal(t, 21, doc.Len())
	require.NotNil(t, doc.Layers)
	require.NotNil(t, doc.BlockRecords)
	require.Nil(t, doc.DimensionStyles)
	require.Equal(t, 2, doc.Layers.Len())

	ms := doc.ModelSpace()
	require.NotNil(t, ms)
	require.Len(t, ms.Entities, 11)
	require.Len(t, doc.Entities, 11)
	for i := 1; i < len(doc.Entities); i++ {
		require.Less(t, doc.Entities[i-1].Handle(), doc.Entities[i].Handle())
	}

	walls, ok := doc.Layers.Get("WALLS")
	require.True(t, ok)
	l31, _ := doc.Object(0x31)
	require.Same(t, walls, l31.(*cad.Line).Layer)
	ghost, _ := doc.Object(0x38)
	require.Nil(t, ghost.(*cad.Point).Layer)

	require.NotNil(t, doc.RootDictionary)
	require.Equal(t, cad.Handle(0xC), doc.RootDictionary.Handle())
	require.Equal(t, 1, doc.RootDictionary.Len())

	layoutObj, _ := doc.Object(0x22)
	layout := layoutObj.(*cad.Layout)
	require.Same(t, ms, layout.BlockRecord)
	require.Same(t, layout, ms.Layout)
	require.Len(t, layout.Reactors, 1)

	hatchObj, _ := doc.Object(0x41)
	circleObj, _ := doc.Object(0x40)
	require.Equal(t, []cad.Entity{circleObj.(cad.Entity)}, hatchObj.(*cad.Hatch).Paths[0].Entities)

	require.NotNil(t, ms.SortEntities)
	require.Len(t, ms.SortEntities.Sorters, 2)

	require.Equal(t, cad.Handle(0x61), doc.Header.HandleSeed)
	require.Equal(t, fingerprint, doc.Header.FingerprintGUID)
}

func TestBuilder_orderIndependence(t *testing.T) {
	want, err := snapshot.Take(build(t, config.Default(), nil, fixture())).Digest()
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		tmpls := fixture()
		rnd.Shuffle(len(tmpls), func(a, b int) { tmpls[a], tmpls[b] = tmpls[b], tmpls[a] })

		cfg := config.Default()
		cfg.Workers = 1 + i%4
		got, err := snapshot.Take(build(t, cfg, nil, tmpls)).Digest()
		require.NoError(t, err)
		require.Equal(t, want, got, "permutation %d workers %d", i, cfg.Workers)
	}
}

func TestBuilder_sharedSubBlocks(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 4
	doc := build(t, cfg, nil, fixture())

	obj, ok := doc.Object(0x60)
	require.True(t, ok)
	p := obj.(*cad.BlockVisibilityParameter)
	line, _ := doc.Object(0x30)

	require.Same(t, line, p.Entities[0])
	require.Same(t, line, p.SubBlocks[0].Entities[0])
	require.Same(t, line, p.SubBlocks[1].Entities[0])
	require.Same(t, p.Entities[1], p.SubBlocks[0].Entities[1])
}

func TestBuilder_unresolvedReports(t *testing.T) {
	col := notify.NewCollector()
	build(t, config.Default(), notify.NewChain(col.Middleware), fixture())
	require.Zero(t, col.Len())

	cfg := config.Default()
	cfg.StrictReferences = true
	cfg.Workers = 3
	build(t, cfg, notify.NewChain(col.Middleware), fixture())

	// ACAD_GONE entry, Ghost layer, hatch boundary 0x99
	require.Len(t, col.Of(notify.Warning), 3)
}

func TestBuilder_typeMismatch(t *testing.T) {
	col := notify.NewCollector()
	cfg := config.Default()
	cfg.StrictReferences = true

	circle := templates.NewEntityTemplate(with(cad.NewCircle(), 0x40))
	layout := templates.NewLayoutTemplate(with(&cad.Layout{}, 0x41))
	layout.BlockRecordHandle = 0x40

	doc := build(t, cfg, notify.NewChain(col.Middleware), []templates.Template{circle, layout})
	obj, _ := doc.Object(0x41)
	require.Nil(t, obj.(*cad.Layout).BlockRecord)
	require.Len(t, col.All(), 1)
	require.Contains(t, col.All()[0].Message, "resolves to CIRCLE")
}

func TestBuilder_AddTemplate(t *testing.T) {
	col := notify.NewCollector()
	b := New(config.Default(), notify.NewChain(col.Middleware), getTestLogger())

	first := templates.NewEntityTemplate(with(cad.NewLine(), 0x10))
	second := templates.NewEntityTemplate(with(cad.NewCircle(), 0x10))
	require.NoError(t, b.AddTemplate(first, 10))
	require.NoError(t, b.AddTemplate(second, 20))
	require.Equal(t, 1, b.Len())
	require.Len(t, col.Of(notify.Warning), 1)
	require.EqualValues(t, 20, col.All()[0].Position)

	require.Error(t, b.AddTemplate(templates.NewEntityTemplate(cad.NewPoint()), 30))

	doc, err := b.Build(context.Background())
	require.NoError(t, err)
	obj, _ := doc.Object(0x10)
	require.Equal(t, cad.TypeCircle, obj.ObjectName())

	require.Error(t, b.AddTemplate(templates.NewEntityTemplate(with(cad.NewLine(), 0x11)), 40))
	_, err = b.Build(context.Background())
	require.ErrorIs(t, err, ErrBuilt)
}

func TestBuilder_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		cfg := config.Default()
		cfg.Workers = workers
		b := New(cfg, nil, getTestLogger())
		for i, tmpl := range fixture() {
			require.NoError(t, b.AddTemplate(tmpl, int64(i)))
		}
		_, err := b.Build(ctx)
		require.ErrorIs(t, err, context.Canceled)
	}
}

type panicking struct {
	templates.ObjectTemplate
}

func (p *panicking) Build(templates.Resolver) {
	panic("broken template")
}

func TestBuilder_panicIsolated(t *testing.T) {
	col := notify.NewCollector()
	bad := &panicking{ObjectTemplate: *templates.NewObjectTemplate(with(&cad.Scale{}, 0x70))}
	tmpls := append(fixture(), bad)

	doc := build(t, config.Default(), notify.NewChain(col.Middleware), tmpls)
	require.Len(t, col.Of(notify.Error), 1)
	require.EqualValues(t, len(tmpls)-1, col.Of(notify.Error)[0].Position)
	_, ok := doc.Object(0x70)
	require.True(t, ok)
	require.Len(t, doc.ModelSpace().Entities, 11)
}
