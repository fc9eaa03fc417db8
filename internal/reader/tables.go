package reader

import (
	"context"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/templates"
)

func (d *DxfReader) readTables(ctx context.Context) error {
	for !d.at(dxf.EndSection) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.at(dxf.BeginTable) {
			d.notes.Warnf(d.r.Position(), "unexpected %s in %s", d.r.ValueAsString(), SectionTables)
			if err := d.skipObject(); err != nil {
				return &DecodeError{Section: SectionTables, Position: d.r.Position(), Err: err}
			}
			continue
		}

		if err := d.isolated(SectionTables, d.readTable); err != nil {
			return err
		}
		for !d.at(dxf.EndTable) && !d.at(dxf.EndSection) {
			if err := d.isolated(SectionTables, d.readTableEntry); err != nil {
				return err
			}
		}
		if d.at(dxf.EndTable) {
			if err := d.skipObject(); err != nil {
				return &DecodeError{Section: SectionTables, Position: d.r.Position(), Err: err}
			}
		}
	}
	return nil
}

// readTable decodes a table header. Unsupported tables are skipped entirely.
func (d *DxfReader) readTable() (templates.Template, error) {
	pos := d.r.Position()
	if err := d.r.ReadNext(); err != nil {
		return nil, err
	}
	name := ""
	if d.r.Code() == dxf.Name {
		name = d.r.ValueAsString()
	}

	var table cad.Object
	switch name {
	case cad.TypeLayer:
		table = cad.NewTable[*cad.Layer](name)
	case cad.TypeDimStyle:
		table = cad.NewTable[*cad.DimensionStyle](name)
	case cad.TypeBlockRecord:
		table = cad.NewTable[*cad.BlockRecord](name)
	default:
		d.notes.NotImplementedf(pos, "table %s is not supported", name)
		for !d.at(dxf.EndTable) && !d.at(dxf.EndSection) {
			if err := d.skipObject(); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	tmpl := templates.NewTableTemplate(table)
	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, d.tableCodes); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// tableCodes entry counts and the entry handle list of the dimension style table are
// derived data
func (d *DxfReader) tableCodes(st *objectState) (result, error) {
	switch d.r.Code() {
	case 70, 71, 340:
		return handled, nil
	}
	return unhandled, nil
}

func (d *DxfReader) readTableEntry() (templates.Template, error) {
	name := d.r.ValueAsString()
	var tmpl refHolder
	var routines []routine

	switch name {
	case cad.TypeLayer:
		t := templates.NewLayerTemplate(cad.NewLayer(""))
		tmpl = t
		routines = append(routines, after(cad.MarkerLayer, func(st *objectState) (result, error) {
			if d.r.Code() == 390 {
				t.PlotStyleHandle = cad.Handle(d.r.ValueAsHandle())
				return handled, nil
			}
			return unhandled, nil
		}))
	case cad.TypeDimStyle:
		tmpl = templates.NewTableEntryTemplate(cad.NewDimensionStyle(""))
		routines = append(routines, func(st *objectState) (result, error) {
			if d.r.Code() == dxf.DimStyleHandle {
				st.object().SetHandle(cad.Handle(d.r.ValueAsHandle()))
				return handled, nil
			}
			return unhandled, nil
		})
	case cad.TypeBlockRecord:
		t := templates.NewBlockRecordTemplate(cad.NewBlockRecord(""))
		tmpl = t
		routines = append(routines, after(cad.MarkerBlockRecord, func(st *objectState) (result, error) {
			if d.r.Code() == 340 {
				t.LayoutHandle = cad.Handle(d.r.ValueAsHandle())
				return handled, nil
			}
			return unhandled, nil
		}))
	default:
		d.notes.NotImplementedf(d.r.Position(), "table entry %s is not supported", name)
		return nil, d.skipObject()
	}

	st := d.newState(tmpl)
	if err := d.readObjectCodes(st, routines...); err != nil {
		return nil, err
	}
	return tmpl, nil
}
