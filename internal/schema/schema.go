// Package schema declarative code to field tables per object type.
//
// A Map lists the subclasses of one type from the base to the most derived; every
// subclass maps group codes to fields. Points are split into one field per component,
// so the x, y and z codes may arrive interleaved with unrelated codes.
package schema

import (
	"errors"
	"fmt"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/dxf"
)

var (
	ErrWrongObject = errors.New("field does not apply to the object")
	ErrUnknownMap  = errors.New("schema map not found")
)

// Field one group code bound to one value of an object
type Field struct {
	Code dxf.Code
	Name string

	assign func(cad.Object, dxf.Record) bool
	value  func(cad.Object) (any, bool)
}

// Assign sets the field from rec
func (f Field) Assign(obj cad.Object, rec dxf.Record) error {
	if !f.assign(obj, rec) {
		return fmt.Errorf("%s %s on %s: %w", f.Name, f.Code, obj.ObjectName(), ErrWrongObject)
	}
	return nil
}

// Value current value of the field in obj
func (f Field) Value(obj cad.Object) (any, bool) {
	return f.value(obj)
}

// Entry one or more fields of a subclass
type Entry interface {
	fields() []Field
}

func (f Field) fields() []Field { return []Field{f} }

type group []Field

func (g group) fields() []Field { return g }

func scalar[T cad.Object, V any](code dxf.Code, name string, ref func(T) *V, conv func(dxf.Record) V) Field {
	return Field{
		Code: code,
		Name: name,
		assign: func(obj cad.Object, rec dxf.Record) bool {
			t, ok := obj.(T)
			if !ok {
				return false
			}
			*ref(t) = conv(rec)
			return true
		},
		value: func(obj cad.Object) (any, bool) {
			t, ok := obj.(T)
			if !ok {
				return nil, false
			}
			return *ref(t), true
		},
	}
}

func String[T cad.Object](code dxf.Code, name string, ref func(T) *string) Field {
	return scalar(code, name, ref, dxf.Record.AsString)
}

func Double[T cad.Object](code dxf.Code, name string, ref func(T) *float64) Field {
	return scalar(code, name, ref, dxf.Record.AsDouble)
}

func Int16[T cad.Object](code dxf.Code, name string, ref func(T) *int16) Field {
	return scalar(code, name, ref, dxf.Record.AsShort)
}

func Int32[T cad.Object](code dxf.Code, name string, ref func(T) *int32) Field {
	return scalar(code, name, ref, dxf.Record.AsInt)
}

func Bool[T cad.Object](code dxf.Code, name string, ref func(T) *bool) Field {
	return scalar(code, name, ref, dxf.Record.AsBool)
}

// Point expands into the x, x+10 and x+20 codes, each one setting its own component
func Point[T cad.Object](xCode dxf.Code, name string, ref func(T) *cad.XYZ) Entry {
	return group{
		Double(xCode, name+".X", func(t T) *float64 { return &ref(t).X }),
		Double(xCode+10, name+".Y", func(t T) *float64 { return &ref(t).Y }),
		Double(xCode+20, name+".Z", func(t T) *float64 { return &ref(t).Z }),
	}
}

// Point2D like Point without the z code
func Point2D[T cad.Object](xCode dxf.Code, name string, ref func(T) *cad.XYZ) Entry {
	return group{
		Double(xCode, name+".X", func(t T) *float64 { return &ref(t).X }),
		Double(xCode+10, name+".Y", func(t T) *float64 { return &ref(t).Y }),
	}
}

// SubClass fields introduced by one subclass marker
type SubClass struct {
	Marker string
	codes  []dxf.Code
	fields map[dxf.Code]Field
}

// Sub builds a subclass, a repeated code keeps the first field
func Sub(marker string, entries ...Entry) *SubClass {
	s := &SubClass{Marker: marker, fields: make(map[dxf.Code]Field)}
	for _, e := range entries {
		for _, f := range e.fields() {
			if _, ok := s.fields[f.Code]; ok {
				continue
			}
			s.codes = append(s.codes, f.Code)
			s.fields[f.Code] = f
		}
	}
	return s
}

// Field by code
func (s *SubClass) Field(code dxf.Code) (Field, bool) {
	f, ok := s.fields[code]
	return f, ok
}

// Fields in declaration order
func (s *SubClass) Fields() []Field {
	res := make([]Field, 0, len(s.codes))
	for _, c := range s.codes {
		res = append(res, s.fields[c])
	}
	return res
}

// Map schema of one object type
type Map struct {
	Name     string
	subs     []*SubClass
	byMarker map[string]*SubClass
}

// NewMap subclasses go from the base to the most derived
func NewMap(name string, subs ...*SubClass) *Map {
	m := &Map{Name: name, subs: subs, byMarker: make(map[string]*SubClass, len(subs))}
	for _, s := range subs {
		m.byMarker[s.Marker] = s
	}
	return m
}

func (m *Map) SubClass(marker string) (*SubClass, bool) {
	s, ok := m.byMarker[marker]
	return s, ok
}

func (m *Map) SubClasses() []*SubClass {
	return m.subs
}

// Assign sets the field of rec within the subclass named by marker. An empty or
// unknown marker searches every subclass. A field obj cannot take is left unassigned.
func (m *Map) Assign(obj cad.Object, marker string, rec dxf.Record) (bool, error) {
	s, ok := m.byMarker[marker]
	if !ok {
		return m.AssignAny(obj, rec)
	}
	f, ok := s.fields[rec.Code]
	if !ok || !f.assign(obj, rec) {
		return false, nil
	}
	return true, nil
}

// AssignAny sets the field of rec looking from the most derived subclass back to the
// base. Fields of subclasses obj does not implement are skipped.
func (m *Map) AssignAny(obj cad.Object, rec dxf.Record) (bool, error) {
	for i := len(m.subs) - 1; i >= 0; i-- {
		if f, ok := m.subs[i].fields[rec.Code]; ok && f.assign(obj, rec) {
			return true, nil
		}
	}
	return false, nil
}
