package templates

import "github.com/smartcad/cadlink/internal/cad"

// DictionaryEntry named handle of a dictionary
type DictionaryEntry struct {
	Name   string
	Handle cad.Handle
}

// DictionaryTemplate dictionary with its ordered entries
type DictionaryTemplate struct {
	ObjectTemplate

	Entries []DictionaryEntry
}

func NewDictionaryTemplate(d cad.DictionaryHolder) *DictionaryTemplate {
	return &DictionaryTemplate{ObjectTemplate: ObjectTemplate{obj: d}}
}

func (t *DictionaryTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	d := t.obj.(cad.DictionaryHolder).Dict()
	for _, e := range t.Entries {
		if o, ok := TryGet[cad.Object](r, e.Handle); ok {
			d.Add(e.Name, o)
		}
	}
}

// DictionaryWithDefaultTemplate dictionary with a default entry
type DictionaryWithDefaultTemplate struct {
	DictionaryTemplate

	DefaultHandle cad.Handle
}

func NewDictionaryWithDefaultTemplate(d *cad.DictionaryWithDefault) *DictionaryWithDefaultTemplate {
	return &DictionaryWithDefaultTemplate{DictionaryTemplate: DictionaryTemplate{ObjectTemplate: ObjectTemplate{obj: d}}}
}

func (t *DictionaryWithDefaultTemplate) Build(r Resolver) {
	t.DictionaryTemplate.Build(r)
	if o, ok := TryGet[cad.Object](r, t.DefaultHandle); ok {
		t.obj.(*cad.DictionaryWithDefault).Default = o
	}
}

// LayoutTemplate layout with its block and viewport
type LayoutTemplate struct {
	ObjectTemplate

	BlockRecordHandle cad.Handle
	ViewportHandle    cad.Handle
}

func NewLayoutTemplate(l *cad.Layout) *LayoutTemplate {
	return &LayoutTemplate{ObjectTemplate: ObjectTemplate{obj: l}}
}

func (t *LayoutTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	l := t.obj.(*cad.Layout)
	if b, ok := TryGet[*cad.BlockRecord](r, t.BlockRecordHandle); ok {
		l.BlockRecord = b
	}
	if v, ok := TryGet[cad.Object](r, t.ViewportHandle); ok {
		l.ActiveViewport = v
	}
}

// SortPair entity handle with its sort handle
type SortPair struct {
	Entity cad.Handle
	Sort   cad.Handle
}

// SortEntsTableTemplate draw order table
type SortEntsTableTemplate struct {
	ObjectTemplate

	BlockOwnerHandle cad.Handle
	Pairs            []SortPair
}

func NewSortEntsTableTemplate(s *cad.SortEntitiesTable) *SortEntsTableTemplate {
	return &SortEntsTableTemplate{ObjectTemplate: ObjectTemplate{obj: s}}
}

func (t *SortEntsTableTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	s := t.obj.(*cad.SortEntitiesTable)
	if b, ok := TryGet[*cad.BlockRecord](r, t.BlockOwnerHandle); ok {
		s.BlockOwner = b
	}
	for _, p := range t.Pairs {
		if e, ok := TryGet[cad.Entity](r, p.Entity); ok {
			s.Sorters = append(s.Sorters, cad.Sorter{Entity: e, SortHandle: p.Sort})
		}
	}
}

// OsnapPointRefTemplate point reference with its geometry handles
type OsnapPointRefTemplate struct {
	Ref             *cad.OsnapPointRef
	GeometryHandle  cad.Handle
	IntersectHandle cad.Handle
}

// DimAssocTemplate dimension associativity
type DimAssocTemplate struct {
	ObjectTemplate

	DimensionHandle cad.Handle
	PointRefs       []*OsnapPointRefTemplate
}

func NewDimAssocTemplate(d *cad.DimensionAssociativity) *DimAssocTemplate {
	return &DimAssocTemplate{ObjectTemplate: ObjectTemplate{obj: d}}
}

// AddRef starts a new point reference
func (t *DimAssocTemplate) AddRef() *OsnapPointRefTemplate {
	ref := &OsnapPointRefTemplate{Ref: &cad.OsnapPointRef{}}
	t.PointRefs = append(t.PointRefs, ref)
	return ref
}

func (t *DimAssocTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	d := t.obj.(*cad.DimensionAssociativity)
	if dim, ok := TryGet[cad.DimensionEntity](r, t.DimensionHandle); ok {
		d.Dimension = dim
	}
	d.PointRefs = d.PointRefs[:0]
	for _, ref := range t.PointRefs {
		if e, ok := TryGet[cad.Entity](r, ref.GeometryHandle); ok {
			ref.Ref.Geometry = e
		}
		if e, ok := TryGet[cad.Entity](r, ref.IntersectHandle); ok {
			ref.Ref.IntersectObject = e
		}
		d.PointRefs = append(d.PointRefs, ref.Ref)
	}
}

// SubBlockHandles entity handles of one visibility state
type SubBlockHandles struct {
	Name    string
	Handles []cad.Handle
}

// BlockVisibilityParameterTemplate visibility states sharing the entity objects
// of the flat list
type BlockVisibilityParameterTemplate struct {
	ObjectTemplate

	EntityHandles []cad.Handle
	SubBlocks     []*SubBlockHandles
}

func NewBlockVisibilityParameterTemplate(p *cad.BlockVisibilityParameter) *BlockVisibilityParameterTemplate {
	return &BlockVisibilityParameterTemplate{ObjectTemplate: ObjectTemplate{obj: p}}
}

func (t *BlockVisibilityParameterTemplate) Build(r Resolver) {
	t.ObjectTemplate.Build(r)
	p := t.obj.(*cad.BlockVisibilityParameter)

	flat := make(map[cad.Handle]cad.Entity, len(t.EntityHandles))
	for _, h := range t.EntityHandles {
		if e, ok := TryGet[cad.Entity](r, h); ok {
			flat[h] = e
			p.Entities = append(p.Entities, e)
		}
	}

	for _, sb := range t.SubBlocks {
		sub := &cad.SubBlock{Name: sb.Name}
		for _, h := range sb.Handles {
			if e, ok := flat[h]; ok {
				sub.Entities = append(sub.Entities, e)
				continue
			}
			if e, ok := TryGet[cad.Entity](r, h); ok {
				sub.Entities = append(sub.Entities, e)
			}
		}
		p.SubBlocks = append(p.SubBlocks, sub)
	}
}
