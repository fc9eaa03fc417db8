package reader

import (
	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/templates"
)

type entityHolder interface {
	refHolder
	EntityRefs() *templates.EntityTemplate
}

// readEntity decodes the entity under the cursor, BLOCKS and ENTITIES share it
func (d *DxfReader) readEntity() (templates.Template, error) {
	name := d.r.ValueAsString()
	switch name {
	case cad.TypeLine:
		return d.readPlainEntity(cad.NewLine())
	case cad.TypeCircle:
		return d.readPlainEntity(cad.NewCircle())
	case cad.TypePoint:
		return d.readPlainEntity(cad.NewPoint())
	case cad.TypeBlock:
		return d.readPlainEntity(cad.NewBlock(), d.blockCodes)
	case cad.TypeEndBlock:
		return d.readPlainEntity(cad.NewBlockEnd())
	case cad.TypeDimension:
		return d.readDimension(cad.NewDimension())
	case cad.TypeArcDimension:
		return d.readDimension(cad.NewDimensionArc())
	case cad.TypeHatch:
		return d.readHatch()
	default:
		return d.readUnknownEntity(name)
	}
}

func (d *DxfReader) readPlainEntity(e cad.Entity, routines ...routine) (templates.Template, error) {
	tmpl := templates.NewEntityTemplate(e)
	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, append(routines, d.entityCodes(tmpl))...); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// entityCodes codes common to every entity
func (d *DxfReader) entityCodes(t entityHolder) routine {
	refs := t.EntityRefs()
	return func(st *objectState) (result, error) {
		if d.r.Code() == 8 {
			refs.LayerName = d.r.ValueAsString()
			return handled, nil
		}
		return unhandled, nil
	}
}

// blockCodes the block name is repeated under code 3
func (d *DxfReader) blockCodes(st *objectState) (result, error) {
	if st.marker == cad.MarkerBlockBegin && d.r.Code() == 3 {
		return handled, nil
	}
	return unhandled, nil
}

func (d *DxfReader) readDimension(dim cad.DimensionEntity) (templates.Template, error) {
	tmpl := templates.NewDimensionTemplate(dim)
	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, d.dimensionCodes(tmpl), d.entityCodes(tmpl)); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// dimensionCodes references by name and the subclass markers that select the variant
func (d *DxfReader) dimensionCodes(t *templates.DimensionTemplate) routine {
	return func(st *objectState) (result, error) {
		switch d.r.Code() {
		case dxf.Name:
			if st.marker == cad.MarkerDimension {
				t.BlockName = d.r.ValueAsString()
				return handled, nil
			}
		case 3:
			if st.marker == cad.MarkerDimension {
				t.StyleName = d.r.ValueAsString()
				return handled, nil
			}
		case dxf.Subclass:
			d.switchDimension(t, d.r.ValueAsString())
			st.marker = d.r.ValueAsString()
			return handled, nil
		}
		return unhandled, nil
	}
}

func (d *DxfReader) switchDimension(t *templates.DimensionTemplate, marker string) {
	switch marker {
	case cad.MarkerObject, cad.MarkerEntity, cad.MarkerDimension:
		return
	case cad.MarkerAlignedDimension:
		if base, ok := t.Object().(*cad.Dimension); ok {
			t.SetObject(cad.NewDimensionAligned(base))
			return
		}
	case cad.MarkerRotatedDimension:
		if aligned, ok := t.Object().(*cad.DimensionAligned); ok {
			t.SetObject(cad.NewDimensionLinear(aligned))
			return
		}
	}
	if marker == t.Object().SubclassMarker() {
		return
	}
	d.notes.NotImplementedf(d.r.Position(), "dimension subclass %s is not supported", marker)
}

// hatch decode modes
const (
	hatchBody = iota
	hatchPath
	hatchSources
	hatchSeeds
)

func (d *DxfReader) readHatch() (templates.Template, error) {
	h := cad.NewHatch()
	tmpl := templates.NewHatchTemplate(h)
	st := d.newState(tmpl)

	mode := hatchBody
	var path *templates.BoundaryPathTemplate
	hatchCodes := func(st *objectState) (result, error) {
		if st.marker != cad.MarkerHatch {
			return unhandled, nil
		}
		code := d.r.Code()

		if mode == hatchPath && (code == 75 || code == 76) {
			mode = hatchBody
		}
		if mode == hatchSources {
			if code == dxf.SoftPointer {
				path.Handles = append(path.Handles, cad.Handle(d.r.ValueAsHandle()))
				return handled, nil
			}
			mode = hatchBody
		}

		switch {
		case code == 91:
			return handled, nil
		case code == 92:
			path = tmpl.AddPath(d.r.ValueAsInt())
			mode = hatchPath
			return handled, nil
		case code == 97 && path != nil:
			mode = hatchSources
			return handled, nil
		case mode == hatchPath:
			path.Path.Geometry = append(path.Path.Geometry, d.r.Record())
			return handled, nil
		case code == 98:
			mode = hatchSeeds
			return handled, nil
		case mode == hatchSeeds && code == dxf.XCoordinate:
			h.SeedPoints = append(h.SeedPoints, cad.XYZ{X: d.r.ValueAsDouble()})
			return handled, nil
		case mode == hatchSeeds && code == dxf.YCoordinate && len(h.SeedPoints) > 0:
			h.SeedPoints[len(h.SeedPoints)-1].Y = d.r.ValueAsDouble()
			return handled, nil
		case isPatternCode(code):
			h.PatternData = append(h.PatternData, d.r.Record())
			return handled, nil
		}
		return unhandled, nil
	}

	if err := d.readObjectCodes(st, hatchCodes, d.entityCodes(tmpl)); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// isPatternCode pattern definition lines, pixel size and gradient data
func isPatternCode(code dxf.Code) bool {
	switch code {
	case 43, 44, 45, 46, 47, 49, 53, 77, 78, 79:
		return true
	}
	return code >= 450 && code <= 470
}

func (d *DxfReader) readUnknownEntity(name string) (templates.Template, error) {
	pos := d.r.Position()
	class, _ := d.doc.Classes.Get(name)
	d.notes.NotImplementedf(pos, "entity %s is not supported", name)

	e := cad.NewUnknownEntity(name, class)
	tmpl := templates.NewEntityTemplate(e)
	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, d.unknownCodes(&e.Records, &tmpl.LayerName)); err != nil {
		return nil, err
	}
	if !d.cfg.KeepUnknownEntities {
		return nil, nil
	}
	return tmpl, nil
}

// unknownCodes keeps every record that is not a common code. Once a subclass marker
// was seen the owner pointer is data as well. The layer name of an entity is kept in
// both places.
func (d *DxfReader) unknownCodes(records *[]dxf.Record, layer *string) routine {
	return func(st *objectState) (result, error) {
		switch d.r.Code() {
		case dxf.Handle, dxf.ControlString, dxf.ExtendedDataStart:
			return unhandled, nil
		case dxf.SoftPointer:
			if st.marker == "" {
				return unhandled, nil
			}
		case dxf.Subclass:
			st.marker = d.r.ValueAsString()
		case 8:
			if layer != nil {
				*layer = d.r.ValueAsString()
			}
		}
		*records = append(*records, d.r.Record())
		return handled, nil
	}
}
