// Package cad linked drawing object graph: entities, tables, dictionaries and the document.
//
// Objects are created empty by the section readers, filled field by field and linked by
// the builder. Cross references are plain pointers; ownership is tree shaped.
package cad

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartcad/cadlink/internal/dxf"
)

// Handle unique object identity inside a document, 0 means no object
type Handle uint64

func (h Handle) String() string {
	return strings.ToUpper(strconv.FormatUint(uint64(h), 16))
}

// XYZ point or vector value
type XYZ struct {
	X, Y, Z float64
}

func (p XYZ) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// ZAxis default normal
var ZAxis = XYZ{Z: 1}

// Object any document object
type Object interface {
	Handle() Handle
	SetHandle(Handle)
	// ObjectName record type name, e.g. LINE or DICTIONARY
	ObjectName() string
	// SubclassMarker most derived subclass marker
	SubclassMarker() string
	Base() *ObjectBase
}

// ExtendedData application data attached to an object (1001 groups)
type ExtendedData struct {
	AppName string
	Records []dxf.Record
}

// ObjectBase data common to every object
type ObjectBase struct {
	handle Handle

	Owner        Object
	XDictionary  *Dictionary
	Reactors     []Object
	ExtendedData []ExtendedData
}

func (o *ObjectBase) Handle() Handle {
	return o.handle
}

func (o *ObjectBase) SetHandle(h Handle) {
	o.handle = h
}

func (o *ObjectBase) Base() *ObjectBase {
	return o
}

// OwnerHandle handle of the owner or 0
func (o *ObjectBase) OwnerHandle() Handle {
	if o.Owner == nil {
		return 0
	}
	return o.Owner.Handle()
}

// Entity graphical object
type Entity interface {
	Object
	Common() *EntityCommon
}

// EntityCommon data common to every entity
type EntityCommon struct {
	ObjectBase

	Layer         *Layer
	LinetypeName  string
	Color         int16
	LineWeight    int16
	LinetypeScale float64
	Invisible     bool
	Transparency  int32
	PaperSpace    bool
}

func (e *EntityCommon) Common() *EntityCommon {
	return e
}

// LayerName name of the layer, "0" when the layer is not linked
func (e *EntityCommon) LayerName() string {
	if e.Layer == nil {
		return DefaultLayerName
	}
	return e.Layer.Name
}

func newEntityCommon() EntityCommon {
	return EntityCommon{Color: ColorByLayer, LineWeight: LineWeightByLayer, LinetypeScale: 1}
}
