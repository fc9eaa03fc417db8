package reader

import (
	"strings"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/templates"
)

// readObject decodes the non graphical object under the cursor
func (d *DxfReader) readObject() (templates.Template, error) {
	name := d.r.ValueAsString()
	switch name {
	case cad.TypeDictionary:
		t := templates.NewDictionaryTemplate(cad.NewDictionary())
		return d.decode(t, d.dictionaryCodes(t))
	case cad.TypeDictionaryWithDefault:
		t := templates.NewDictionaryWithDefaultTemplate(cad.NewDictionaryWithDefault())
		return d.decode(t, d.dictionaryCodes(&t.DictionaryTemplate), after(cad.MarkerDictionaryWithDefault,
			func(st *objectState) (result, error) {
				if d.r.Code() == 340 {
					t.DefaultHandle = cad.Handle(d.r.ValueAsHandle())
					return handled, nil
				}
				return unhandled, nil
			}))
	case cad.TypeDictionaryVar:
		return d.decode(templates.NewObjectTemplate(&cad.DictionaryVariable{}))
	case cad.TypeLayout:
		t := templates.NewLayoutTemplate(&cad.Layout{})
		return d.decode(t, after(cad.MarkerLayout, func(st *objectState) (result, error) {
			switch d.r.Code() {
			case dxf.SoftPointer:
				t.BlockRecordHandle = cad.Handle(d.r.ValueAsHandle())
				return handled, nil
			case 331:
				t.ViewportHandle = cad.Handle(d.r.ValueAsHandle())
				return handled, nil
			}
			return unhandled, nil
		}))
	case cad.TypeScale:
		return d.decode(templates.NewObjectTemplate(&cad.Scale{}))
	case cad.TypeVisualStyle:
		return d.decode(templates.NewObjectTemplate(&cad.VisualStyle{}), d.visualStyleCodes())
	case cad.TypeXRecord:
		x := &cad.XRecord{}
		return d.decode(templates.NewObjectTemplate(x), after(cad.MarkerXRecord, func(st *objectState) (result, error) {
			if d.r.Code() == 280 && len(x.Entries) == 0 {
				return unhandled, nil
			}
			x.Entries = append(x.Entries, d.r.Record())
			return handled, nil
		}))
	case cad.TypeSortEntsTable:
		t := templates.NewSortEntsTableTemplate(&cad.SortEntitiesTable{})
		return d.decode(t, d.sortEntsCodes(t))
	case cad.TypeDimAssoc:
		t := templates.NewDimAssocTemplate(&cad.DimensionAssociativity{})
		return d.decode(t, d.dimAssocCodes(t))
	case cad.TypeBookColor:
		c := &cad.BookColor{}
		return d.decode(templates.NewObjectTemplate(c), after(cad.MarkerBookColor, func(st *objectState) (result, error) {
			if d.r.Code() != 430 {
				return unhandled, nil
			}
			c.BookName, c.ColorName = splitBookColor(d.r.ValueAsString())
			return handled, nil
		}))
	case cad.TypeBlockVisibilityParameter:
		t := templates.NewBlockVisibilityParameterTemplate(&cad.BlockVisibilityParameter{})
		return d.decode(t, d.visibilityCodes(t))
	default:
		return d.readUnknownObject(name)
	}
}

func (d *DxfReader) decode(tmpl refHolder, routines ...routine) (templates.Template, error) {
	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, routines...); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// splitBookColor "book$color", a name without separator is a color name
func splitBookColor(v string) (book, color string) {
	if i := strings.IndexByte(v, '$'); i >= 0 {
		return v[:i], v[i+1:]
	}
	return "", v
}

// dictionaryCodes entry names under 3, each followed by its handle
func (d *DxfReader) dictionaryCodes(t *templates.DictionaryTemplate) routine {
	return after(cad.MarkerDictionary, func(st *objectState) (result, error) {
		switch d.r.Code() {
		case 3:
			t.Entries = append(t.Entries, templates.DictionaryEntry{Name: d.r.ValueAsString()})
			return handled, nil
		case 350, dxf.HardOwner:
			if len(t.Entries) == 0 {
				d.notes.Warnf(d.r.Position(), "dictionary entry handle without name")
				return handled, nil
			}
			t.Entries[len(t.Entries)-1].Handle = cad.Handle(d.r.ValueAsHandle())
			return handled, nil
		}
		return unhandled, nil
	})
}

// visualStyleCodes the first description and type are kept, the style properties
// that follow repeat the same codes
func (d *DxfReader) visualStyleCodes() routine {
	seen := make(map[dxf.Code]bool)
	return after(cad.MarkerVisualStyle, func(st *objectState) (result, error) {
		code := d.r.Code()
		if (code == dxf.Name || code == 70) && !seen[code] {
			seen[code] = true
			return unhandled, nil
		}
		return handled, nil
	})
}

// sortEntsCodes entity and sort handle pairs, in any order within a pair
func (d *DxfReader) sortEntsCodes(t *templates.SortEntsTableTemplate) routine {
	var entity, sort cad.Handle
	return after(cad.MarkerSortEntsTable, func(st *objectState) (result, error) {
		switch d.r.Code() {
		case dxf.SoftPointer:
			t.BlockOwnerHandle = cad.Handle(d.r.ValueAsHandle())
			return handled, nil
		case 331:
			entity = cad.Handle(d.r.ValueAsHandle())
		case dxf.Handle:
			sort = cad.Handle(d.r.ValueAsHandle())
		default:
			return unhandled, nil
		}
		if entity != 0 && sort != 0 {
			t.Pairs = append(t.Pairs, templates.SortPair{Entity: entity, Sort: sort})
			entity, sort = 0, 0
		}
		return handled, nil
	})
}

// dimAssocCodes code 1 opens a point reference, the codes after it belong to that
// reference
func (d *DxfReader) dimAssocCodes(t *templates.DimAssocTemplate) routine {
	var ref *templates.OsnapPointRefTemplate
	return after(cad.MarkerDimAssoc, func(st *objectState) (result, error) {
		code := d.r.Code()
		if code == dxf.Text {
			ref = t.AddRef()
			return handled, nil
		}
		if ref == nil {
			if code == dxf.SoftPointer {
				t.DimensionHandle = cad.Handle(d.r.ValueAsHandle())
				return handled, nil
			}
			return unhandled, nil
		}

		p := ref.Ref
		switch code {
		case 72:
			p.SnapType = d.r.ValueAsShort()
		case 331:
			ref.GeometryHandle = cad.Handle(d.r.ValueAsHandle())
		case 332:
			ref.IntersectHandle = cad.Handle(d.r.ValueAsHandle())
		case 73:
			p.SubentType = d.r.ValueAsShort()
		case 91:
			p.GsMarker = d.r.ValueAsInt()
		case 40:
			p.Parameter = d.r.ValueAsDouble()
		case dxf.XCoordinate:
			p.Point.X = d.r.ValueAsDouble()
		case dxf.YCoordinate:
			p.Point.Y = d.r.ValueAsDouble()
		case dxf.ZCoordinate:
			p.Point.Z = d.r.ValueAsDouble()
		case 75:
			p.HasLastPointRef = d.r.ValueAsBool()
		default:
			return unhandled, nil
		}
		return handled, nil
	})
}

// visibilityCodes the flat entity list and the sub-blocks of the visibility states.
// The counts are implied by the lists.
func (d *DxfReader) visibilityCodes(t *templates.BlockVisibilityParameterTemplate) routine {
	var sub *templates.SubBlockHandles
	return after(cad.MarkerBlockVisibilityParameter, func(st *objectState) (result, error) {
		switch d.r.Code() {
		case 91, 92, 93:
			return handled, nil
		case 331:
			t.EntityHandles = append(t.EntityHandles, cad.Handle(d.r.ValueAsHandle()))
			return handled, nil
		case 303:
			sub = &templates.SubBlockHandles{Name: d.r.ValueAsString()}
			t.SubBlocks = append(t.SubBlocks, sub)
			return handled, nil
		case 332:
			if sub == nil {
				d.notes.Warnf(d.r.Position(), "visibility entity without state")
				return handled, nil
			}
			sub.Handles = append(sub.Handles, cad.Handle(d.r.ValueAsHandle()))
			return handled, nil
		}
		return unhandled, nil
	})
}

func (d *DxfReader) readUnknownObject(name string) (templates.Template, error) {
	pos := d.r.Position()
	class, _ := d.doc.Classes.Get(name)
	d.notes.NotImplementedf(pos, "object %s is not supported", name)

	obj := &cad.UnknownObject{Name: name, Class: class}
	tmpl := templates.NewUnknownTemplate(obj)
	if _, err := d.decode(tmpl, d.unknownCodes(&obj.Records, nil)); err != nil {
		return nil, err
	}
	if !d.cfg.KeepUnknownObjects {
		return nil, nil
	}
	return tmpl, nil
}
