package reader

import (
	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/schema"
	"github.com/smartcad/cadlink/internal/templates"
)

type result int

const (
	unhandled result = iota
	handled
	// advanced the routine read ahead, the cursor is on the next unread record
	advanced
)

// routine type specific codes, consulted before the common codes
type routine func(st *objectState) (result, error)

type refHolder interface {
	templates.Template
	Refs() *templates.ObjectTemplate
}

// objectState one object being decoded
type objectState struct {
	tmpl   refHolder
	m      *schema.Map
	marker string
}

func (st *objectState) object() cad.Object {
	return st.tmpl.Object()
}

func (d *DxfReader) newState(tmpl refHolder) *objectState {
	m, err := schema.Lookup(tmpl.Object().ObjectName())
	if err != nil {
		m = nil
	}
	return &objectState{tmpl: tmpl, m: m}
}

// readObjectCodes consumes the records of the object under the cursor up to the next
// object start
func (d *DxfReader) readObjectCodes(st *objectState, routines ...routine) error {
	if err := d.r.ReadNext(); err != nil {
		return err
	}
	for !d.r.IsStart() {
		res, err := d.dispatch(st, routines)
		if err != nil {
			return err
		}
		if res == advanced {
			continue
		}
		if err := d.r.ReadNext(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DxfReader) dispatch(st *objectState, routines []routine) (result, error) {
	for _, fn := range routines {
		if res, err := fn(st); err != nil || res != unhandled {
			return res, err
		}
	}
	if res, err := d.readCommonCode(st); err != nil || res != unhandled {
		return res, err
	}

	rec := d.r.Record()
	if st.m != nil {
		ok, err := st.m.Assign(st.object(), st.marker, rec)
		if err != nil {
			return unhandled, err
		}
		if ok {
			return handled, nil
		}
	}
	d.notes.Warnf(d.r.Position(), "unhandled code %d in %s %s", rec.Code, st.object().ObjectName(), st.marker)
	return handled, nil
}

func (d *DxfReader) readCommonCode(st *objectState) (result, error) {
	refs := st.tmpl.Refs()
	switch d.r.Code() {
	case dxf.Handle:
		st.object().SetHandle(cad.Handle(d.r.ValueAsHandle()))
		return handled, nil
	case dxf.SoftPointer:
		if st.marker != "" && refs.OwnerHandle != 0 {
			return unhandled, nil
		}
		refs.OwnerHandle = cad.Handle(d.r.ValueAsHandle())
		return handled, nil
	case dxf.ControlString:
		return advanced, d.readControlGroup(refs)
	case dxf.Subclass:
		st.marker = d.r.ValueAsString()
		return handled, nil
	case dxf.ExtendedDataStart:
		return advanced, d.readExtendedData(st.object().Base())
	}
	return unhandled, nil
}

// readControlGroup reads a {NAME ... } group, only the extension dictionary and the
// reactors are kept
func (d *DxfReader) readControlGroup(refs *templates.ObjectTemplate) error {
	name := d.r.ValueAsString()
	if name == dxf.GroupEnd {
		return d.r.ReadNext()
	}
	for {
		if err := d.r.ReadNext(); err != nil {
			return err
		}
		if d.r.IsStart() {
			d.notes.Warnf(d.r.Position(), "group %s is not closed", name)
			return nil
		}
		if d.r.Code() == dxf.ControlString && d.r.ValueAsString() == dxf.GroupEnd {
			return d.r.ReadNext()
		}
		h := cad.Handle(d.r.ValueAsHandle())
		switch {
		case name == dxf.XDictionary && d.r.Code() == dxf.HardOwner:
			refs.XDictionaryHandle = h
		case name == dxf.Reactors && d.r.Code() == dxf.SoftPointer:
			refs.ReactorHandles = append(refs.ReactorHandles, h)
		}
	}
}

// readExtendedData reads consecutive application blocks
func (d *DxfReader) readExtendedData(base *cad.ObjectBase) error {
	for d.r.Code() == dxf.ExtendedDataStart {
		x := cad.ExtendedData{AppName: d.r.ValueAsString()}
		for {
			if err := d.r.ReadNext(); err != nil {
				return err
			}
			if code := d.r.Code(); code < 1000 || code == dxf.ExtendedDataStart {
				break
			}
			x.Records = append(x.Records, d.r.Record())
		}
		base.ExtendedData = append(base.ExtendedData, x)
	}
	return nil
}

// after runs fn only while the marker is current
func after(marker string, fn routine) routine {
	return func(st *objectState) (result, error) {
		if st.marker != marker {
			return unhandled, nil
		}
		return fn(st)
	}
}
