package writer

import (
	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/schema"
)

// encoder records of one object after its start record
type encoder struct {
	obj  cad.Object
	recs []dxf.Record
}

func (e *encoder) add(code dxf.Code, value any) {
	e.recs = append(e.recs, dxf.R(code, value))
}

func (e *encoder) ref(code dxf.Code, h cad.Handle) {
	e.add(code, uint64(h))
}

// encode handle, ownership groups, subclasses and extended data of obj
func encode(obj cad.Object) []dxf.Record {
	e := &encoder{obj: obj}
	e.head()
	switch o := obj.(type) {
	case *cad.UnknownEntity:
		e.recs = append(e.recs, o.Records...)
	case *cad.UnknownObject:
		e.recs = append(e.recs, o.Records...)
	default:
		e.body()
	}
	e.extendedData()
	return e.recs
}

// encodeHead handle and ownership records only
func encodeHead(obj cad.Object) []dxf.Record {
	e := &encoder{obj: obj}
	e.head()
	return e.recs
}

func (e *encoder) head() {
	code := dxf.Handle
	if _, ok := e.obj.(*cad.DimensionStyle); ok {
		code = dxf.DimStyleHandle
	}
	e.ref(code, e.obj.Handle())

	b := e.obj.Base()
	if b.XDictionary != nil {
		e.add(dxf.ControlString, dxf.XDictionary)
		e.ref(dxf.HardOwner, b.XDictionary.Handle())
		e.add(dxf.ControlString, dxf.GroupEnd)
	}
	if len(b.Reactors) > 0 {
		e.add(dxf.ControlString, dxf.Reactors)
		for _, r := range b.Reactors {
			e.ref(dxf.SoftPointer, r.Handle())
		}
		e.add(dxf.ControlString, dxf.GroupEnd)
	}
	e.ref(dxf.SoftPointer, b.OwnerHandle())
}

// body every subclass the object implements, its schema fields then the records
// the schema does not cover
func (e *encoder) body() {
	m, err := schema.Lookup(e.obj.ObjectName())
	if err != nil {
		return
	}
	for _, sub := range m.SubClasses() {
		if sub.Marker == cad.MarkerObject {
			continue
		}
		fields := sub.Fields()
		values := make([]dxf.Record, 0, len(fields))
		for _, f := range fields {
			if v, ok := f.Value(e.obj); ok {
				values = append(values, dxf.R(f.Code, v))
			}
		}
		if len(fields) > 0 && len(values) == 0 {
			continue
		}

		e.add(dxf.Subclass, sub.Marker)
		e.recs = append(e.recs, values...)
		e.tail(sub.Marker)
	}
}

func (e *encoder) tail(marker string) {
	if ent, ok := e.obj.(cad.Entity); ok && marker == cad.MarkerEntity {
		if l := ent.Common().Layer; l != nil {
			e.add(8, l.Name)
		}
		return
	}

	switch o := e.obj.(type) {
	case *cad.Block:
		if marker == cad.MarkerBlockBegin {
			e.add(3, o.Name)
		}
	case cad.DimensionEntity:
		if marker == cad.MarkerDimension {
			e.dimension(o.Dim())
		}
	case *cad.Hatch:
		if marker == cad.MarkerHatch {
			e.hatch(o)
		}
	case *cad.Layer:
		if marker == cad.MarkerLayer && o.PlotStyle != nil {
			e.ref(390, o.PlotStyle.Handle())
		}
	case *cad.BlockRecord:
		if marker == cad.MarkerBlockRecord && o.Layout != nil {
			e.ref(340, o.Layout.Handle())
		}
	case *cad.DictionaryWithDefault:
		switch marker {
		case cad.MarkerDictionary:
			e.dictionary(&o.Dictionary)
		case cad.MarkerDictionaryWithDefault:
			if o.Default != nil {
				e.ref(340, o.Default.Handle())
			}
		}
	case *cad.Dictionary:
		if marker == cad.MarkerDictionary {
			e.dictionary(o)
		}
	case *cad.Layout:
		if marker == cad.MarkerLayout {
			if o.BlockRecord != nil {
				e.ref(dxf.SoftPointer, o.BlockRecord.Handle())
			}
			if o.ActiveViewport != nil {
				e.ref(331, o.ActiveViewport.Handle())
			}
		}
	case *cad.XRecord:
		if marker == cad.MarkerXRecord {
			e.recs = append(e.recs, o.Entries...)
		}
	case *cad.SortEntitiesTable:
		if marker == cad.MarkerSortEntsTable {
			e.sortEntities(o)
		}
	case *cad.DimensionAssociativity:
		if marker == cad.MarkerDimAssoc {
			e.dimAssoc(o)
		}
	case *cad.BookColor:
		if marker == cad.MarkerBookColor && (o.BookName != "" || o.ColorName != "") {
			name := o.ColorName
			if o.BookName != "" {
				name = o.BookName + "$" + o.ColorName
			}
			e.add(430, name)
		}
	case *cad.BlockVisibilityParameter:
		if marker == cad.MarkerBlockVisibilityParameter {
			e.visibility(o)
		}
	}
}

// dimension references by name
func (e *encoder) dimension(d *cad.Dimension) {
	if d.Block != nil {
		e.add(dxf.Name, d.Block.Name)
	}
	if d.Style != nil {
		e.add(3, d.Style.Name)
	}
}

// hatch boundary paths with their source handles, pattern data and seed points.
// A source count is always written so the path geometry is closed.
func (e *encoder) hatch(h *cad.Hatch) {
	e.add(91, int32(len(h.Paths)))
	for _, p := range h.Paths {
		e.add(92, p.Flags)
		e.recs = append(e.recs, p.Geometry...)
		e.add(97, int32(len(p.Entities)))
		for _, ent := range p.Entities {
			e.ref(dxf.SoftPointer, ent.Handle())
		}
	}
	e.recs = append(e.recs, h.PatternData...)
	if len(h.SeedPoints) > 0 {
		e.add(98, int32(len(h.SeedPoints)))
		for _, s := range h.SeedPoints {
			e.add(dxf.XCoordinate, s.X)
			e.add(dxf.YCoordinate, s.Y)
		}
	}
}

func (e *encoder) dictionary(d *cad.Dictionary) {
	code := dxf.Code(350)
	if d.IsHardOwner {
		code = dxf.HardOwner
	}
	for _, entry := range d.Entries() {
		if entry.Object == nil {
			continue
		}
		e.add(3, entry.Name)
		e.ref(code, entry.Object.Handle())
	}
}

func (e *encoder) sortEntities(s *cad.SortEntitiesTable) {
	if s.BlockOwner != nil {
		e.ref(dxf.SoftPointer, s.BlockOwner.Handle())
	}
	for _, sorter := range s.Sorters {
		e.ref(331, sorter.Entity.Handle())
		e.ref(dxf.Handle, sorter.SortHandle)
	}
}

func (e *encoder) dimAssoc(d *cad.DimensionAssociativity) {
	if d.Dimension != nil {
		e.ref(dxf.SoftPointer, d.Dimension.Handle())
	}
	for _, p := range d.PointRefs {
		e.add(dxf.Text, cad.MarkerOsnapPointRef)
		e.add(72, p.SnapType)
		if p.Geometry != nil {
			e.ref(331, p.Geometry.Handle())
		}
		e.add(73, p.SubentType)
		e.add(91, p.GsMarker)
		if p.IntersectObject != nil {
			e.ref(332, p.IntersectObject.Handle())
		}
		e.add(40, p.Parameter)
		e.add(dxf.XCoordinate, p.Point.X)
		e.add(dxf.YCoordinate, p.Point.Y)
		e.add(dxf.ZCoordinate, p.Point.Z)
		e.add(75, p.HasLastPointRef)
	}
}

// visibility the flat entity list then one named list per state
func (e *encoder) visibility(p *cad.BlockVisibilityParameter) {
	e.add(93, int32(len(p.Entities)))
	for _, ent := range p.Entities {
		e.ref(331, ent.Handle())
	}
	e.add(92, int32(len(p.SubBlocks)))
	for _, sb := range p.SubBlocks {
		e.add(303, sb.Name)
		for _, ent := range sb.Entities {
			e.ref(332, ent.Handle())
		}
	}
}

func (e *encoder) extendedData() {
	for _, x := range e.obj.Base().ExtendedData {
		e.add(dxf.ExtendedDataStart, x.AppName)
		e.recs = append(e.recs, x.Records...)
	}
}
