package reader

import (
	"github.com/google/uuid"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
	"github.com/smartcad/cadlink/internal/streamio"
	"github.com/smartcad/cadlink/internal/templates"
)

// Header variables kept as typed values
const (
	VarVersion         = "$ACADVER"
	VarCodePage        = "$DWGCODEPAGE"
	VarHandleSeed      = "$HANDSEED"
	VarFingerprintGUID = "$FINGERPRINTGUID"
	VarVersionGUID     = "$VERSIONGUID"
)

// unicodeVersion first version storing text as UTF-8
const unicodeVersion = "AC1021"

func (d *DxfReader) readHeader() error {
	for !d.at(dxf.EndSection) {
		pos := d.r.Position()
		if d.r.Code() != dxf.VariableName {
			d.notes.Warnf(pos, "unexpected record %s in %s", d.r.Record(), SectionHeader)
			if err := d.r.ReadNext(); err != nil && dxf.IsStreamError(err) {
				return &DecodeError{Section: SectionHeader, Position: pos, Err: err}
			}
			continue
		}

		name := d.r.ValueAsString()
		var recs []dxf.Record
		for {
			err := d.r.ReadNext()
			if err != nil {
				if dxf.IsStreamError(err) {
					return &DecodeError{Section: SectionHeader, Position: pos, Err: err}
				}
				if !d.cfg.Failsafe {
					return &DecodeError{Section: SectionHeader, Position: d.r.Position(), Err: err}
				}
				d.notes.Errorf(d.r.Position(), err, "variable %s", name)
				continue
			}
			if d.r.IsStart() || d.r.Code() == dxf.VariableName {
				break
			}
			recs = append(recs, d.r.Record())
		}
		d.setVariable(name, recs, pos)
	}
	return nil
}

func (d *DxfReader) setVariable(name string, recs []dxf.Record, pos int64) {
	h := d.doc.Header
	if len(recs) == 0 {
		d.notes.Warnf(pos, "variable %s without value", name)
		return
	}
	first := recs[0]

	switch name {
	case VarVersion:
		h.Version = first.AsString()
		if h.Version >= unicodeVersion {
			d.r.SetEncoding(nil)
		}
	case VarCodePage:
		h.CodePage = first.AsString()
		if h.Version < unicodeVersion {
			enc, ok := streamio.CodePage(h.CodePage)
			if !ok {
				d.notes.Warnf(pos, "unknown code page %s, using ANSI_1252", h.CodePage)
			}
			d.r.SetEncoding(enc)
		}
	case VarHandleSeed:
		h.HandleSeed = cad.Handle(first.AsHandle())
	case VarFingerprintGUID, VarVersionGUID:
		id, err := uuid.Parse(first.AsString())
		if err != nil {
			d.notes.Errorf(pos, err, "variable %s", name)
			return
		}
		if name == VarFingerprintGUID {
			h.FingerprintGUID = id
		} else {
			h.VersionGUID = id
		}
	default:
		h.SetVariable(name, recs)
	}
}

const classRecord = "CLASS"

// readClass adds one class declaration to the document, no template is queued
func (d *DxfReader) readClass() (templates.Template, error) {
	if !d.at(classRecord) {
		d.notes.Warnf(d.r.Position(), "unexpected %s in %s", d.r.ValueAsString(), SectionClasses)
		return nil, d.skipObject()
	}

	cl := &cad.DxfClass{}
	if err := d.r.ReadNext(); err != nil {
		return nil, err
	}
	for !d.r.IsStart() {
		switch d.r.Code() {
		case 1:
			cl.DxfName = d.r.ValueAsString()
		case 2:
			cl.CppClassName = d.r.ValueAsString()
		case 3:
			cl.ApplicationName = d.r.ValueAsString()
		case 90:
			cl.ProxyFlags = d.r.ValueAsInt()
		case 91:
			cl.InstanceCount = d.r.ValueAsInt()
		case 280:
			cl.WasZombie = d.r.ValueAsBool()
		case 281:
			cl.IsEntity = d.r.ValueAsBool()
		default:
			d.notes.Warnf(d.r.Position(), "unhandled code %d in %s", d.r.Code(), classRecord)
		}
		if err := d.r.ReadNext(); err != nil {
			return nil, err
		}
	}

	cl.ItemClassID = 499
	if cl.IsEntity {
		cl.ItemClassID = 498
	}
	d.doc.Classes.Add(cl)
	return nil, nil
}
