// Package snapshot canonical view of a linked document.
//
// Every object becomes its handle, type, schema fields and references by handle, so
// two documents with the same graph give the same snapshot whatever the order they
// were built in. The CBOR form is deterministic and is what the digest covers.
package snapshot

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/smartcad/cadlink/internal/cad"
	"github.com/smartcad/cadlink/internal/schema"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
}

// digestKey keys the blake3 digest so snapshot digests never collide with plain hashes
var digestKey = [32]byte{
	'c', 'a', 'd', 'l', 'i', 'n', 'k', '.', 's', 'n', 'a', 'p', 's', 'h', 'o', 't',
}

type Header struct {
	Version         string              `cbor:"version" yaml:"version"`
	CodePage        string              `cbor:"codepage" yaml:"codepage"`
	HandleSeed      string              `cbor:"handseed" yaml:"handseed"`
	FingerprintGUID string              `cbor:"fingerprint" yaml:"fingerprint"`
	VersionGUID     string              `cbor:"versionguid" yaml:"versionguid"`
	Variables       map[string][]string `cbor:"variables,omitempty" yaml:"variables,omitempty"`
}

type Class struct {
	DxfName      string `cbor:"dxfname" yaml:"dxfname"`
	CppClassName string `cbor:"cppname" yaml:"cppname"`
	Application  string `cbor:"app" yaml:"app"`
	IsEntity     bool   `cbor:"entity" yaml:"entity"`
}

type Object struct {
	Handle string              `cbor:"handle" yaml:"handle"`
	Type   string              `cbor:"type" yaml:"type"`
	Marker string              `cbor:"marker" yaml:"marker"`
	Fields map[string]any      `cbor:"fields,omitempty" yaml:"fields,omitempty"`
	Refs   map[string][]string `cbor:"refs,omitempty" yaml:"refs,omitempty"`
}

type Snapshot struct {
	Header   Header   `cbor:"header" yaml:"header"`
	Classes  []Class  `cbor:"classes,omitempty" yaml:"classes,omitempty"`
	Root     string   `cbor:"root,omitempty" yaml:"root,omitempty"`
	Entities []string `cbor:"entities,omitempty" yaml:"entities,omitempty"`
	Objects  []Object `cbor:"objects" yaml:"objects"`
}

// Take snapshot of doc
func Take(doc *cad.Document) *Snapshot {
	h := doc.Header
	s := &Snapshot{
		Header: Header{
			Version:         h.Version,
			CodePage:        h.CodePage,
			HandleSeed:      h.HandleSeed.String(),
			FingerprintGUID: h.FingerprintGUID.String(),
			VersionGUID:     h.VersionGUID.String(),
		},
	}
	for _, name := range h.VariableNames() {
		recs, _ := h.Variable(name)
		if s.Header.Variables == nil {
			s.Header.Variables = make(map[string][]string)
		}
		for _, r := range recs {
			s.Header.Variables[name] = append(s.Header.Variables[name], r.String())
		}
	}
	for _, c := range doc.Classes.List() {
		s.Classes = append(s.Classes, Class{c.DxfName, c.CppClassName, c.ApplicationName, c.IsEntity})
	}
	if doc.RootDictionary != nil {
		s.Root = doc.RootDictionary.Handle().String()
	}
	s.Entities = handles(doc.Entities)

	for _, handle := range doc.Handles() {
		obj, _ := doc.Object(handle)
		s.Objects = append(s.Objects, object(obj))
	}
	return s
}

func object(obj cad.Object) Object {
	o := Object{
		Handle: obj.Handle().String(),
		Type:   obj.ObjectName(),
		Marker: obj.SubclassMarker(),
		Fields: fields(obj),
		Refs:   refs(obj),
	}
	return o
}

// fields schema fields keyed marker.name, plus the values kept outside the schema
func fields(obj cad.Object) map[string]any {
	res := make(map[string]any)
	if m, err := schema.Lookup(obj.ObjectName()); err == nil {
		for _, sub := range m.SubClasses() {
			for _, f := range sub.Fields() {
				if v, ok := f.Value(obj); ok {
					res[sub.Marker+"."+f.Name] = v
				}
			}
		}
	}
	for _, x := range obj.Base().ExtendedData {
		res["xdata."+x.AppName] = recordStrings(x.Records)
	}

	switch o := obj.(type) {
	case cad.Entity:
		if u, ok := o.(*cad.UnknownEntity); ok {
			res["records"] = recordStrings(u.Records)
		}
		if h, ok := o.(*cad.Hatch); ok {
			for i, p := range h.Paths {
				res[fmt.Sprintf("path.%d.flags", i)] = p.Flags
				res[fmt.Sprintf("path.%d.geometry", i)] = recordStrings(p.Geometry)
			}
			for i, p := range h.SeedPoints {
				res[fmt.Sprintf("seed.%d", i)] = p.String()
			}
			if len(h.PatternData) > 0 {
				res["pattern"] = recordStrings(h.PatternData)
			}
		}
	case *cad.Table[*cad.Layer]:
		res["name"] = o.Name
	case *cad.Table[*cad.DimensionStyle]:
		res["name"] = o.Name
	case *cad.Table[*cad.BlockRecord]:
		res["name"] = o.Name
	case *cad.XRecord:
		res["entries"] = recordStrings(o.Entries)
	case *cad.BookColor:
		res["book"] = o.BookName
		res["color"] = o.ColorName
	case *cad.UnknownObject:
		res["records"] = recordStrings(o.Records)
	case *cad.DimensionAssociativity:
		for i, r := range o.PointRefs {
			res[fmt.Sprintf("ref.%d", i)] = fmt.Sprintf("%d %d %d %g %s %t",
				r.SnapType, r.SubentType, r.GsMarker, r.Parameter, r.Point, r.HasLastPointRef)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// refs references by handle
func refs(obj cad.Object) map[string][]string {
	res := make(map[string][]string)
	add := func(name string, o cad.Object) {
		if o != nil && o.Handle() != 0 {
			res[name] = append(res[name], o.Handle().String())
		}
	}

	b := obj.Base()
	add("owner", b.Owner)
	if b.XDictionary != nil {
		add("xdictionary", b.XDictionary)
	}
	for _, r := range b.Reactors {
		add("reactors", r)
	}

	if e, ok := obj.(cad.Entity); ok && e.Common().Layer != nil {
		add("layer", e.Common().Layer)
	}
	if d, ok := obj.(cad.DimensionEntity); ok {
		if d.Dim().Style != nil {
			add("style", d.Dim().Style)
		}
		if d.Dim().Block != nil {
			add("block", d.Dim().Block)
		}
	}
	if d, ok := obj.(cad.DictionaryHolder); ok {
		for _, e := range d.Dict().Entries() {
			add("entry."+e.Name, e.Object)
		}
	}

	switch o := obj.(type) {
	case *cad.Layer:
		add("plotstyle", o.PlotStyle)
	case *cad.BlockRecord:
		if o.Layout != nil {
			add("layout", o.Layout)
		}
		if o.SortEntities != nil {
			add("sortents", o.SortEntities)
		}
		if o.Begin != nil {
			add("begin", o.Begin)
		}
		if o.End != nil {
			add("end", o.End)
		}
		for _, e := range o.Entities {
			add("entities", e)
		}
	case *cad.Table[*cad.Layer]:
		for _, e := range o.Entries() {
			add("entries", e)
		}
	case *cad.Table[*cad.DimensionStyle]:
		for _, e := range o.Entries() {
			add("entries", e)
		}
	case *cad.Table[*cad.BlockRecord]:
		for _, e := range o.Entries() {
			add("entries", e)
		}
	case *cad.Hatch:
		for i, p := range o.Paths {
			for _, e := range p.Entities {
				add(fmt.Sprintf("path.%d", i), e)
			}
		}
	case *cad.DictionaryWithDefault:
		add("default", o.Default)
	case *cad.Layout:
		if o.BlockRecord != nil {
			add("block", o.BlockRecord)
		}
		add("viewport", o.ActiveViewport)
	case *cad.SortEntitiesTable:
		if o.BlockOwner != nil {
			add("blockowner", o.BlockOwner)
		}
		for _, s := range o.Sorters {
			res["sorters"] = append(res["sorters"], s.Entity.Handle().String()+":"+s.SortHandle.String())
		}
	case *cad.DimensionAssociativity:
		if o.Dimension != nil {
			add("dimension", o.Dimension)
		}
		for i, r := range o.PointRefs {
			if r.Geometry != nil {
				add(fmt.Sprintf("ref.%d.geometry", i), r.Geometry)
			}
			if r.IntersectObject != nil {
				add(fmt.Sprintf("ref.%d.intersect", i), r.IntersectObject)
			}
		}
	case *cad.BlockVisibilityParameter:
		for _, e := range o.Entities {
			add("entities", e)
		}
		for _, sb := range o.SubBlocks {
			res["subblock."+sb.Name] = handles(sb.Entities)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

func handles[T cad.Object](objs []T) []string {
	if len(objs) == 0 {
		return nil
	}
	res := make([]string, 0, len(objs))
	for _, o := range objs {
		res = append(res, o.Handle().String())
	}
	return res
}

func recordStrings[T fmt.Stringer](recs []T) []string {
	res := make([]string, 0, len(recs))
	for _, r := range recs {
		res = append(res, r.String())
	}
	return res
}

// CBOR deterministic encoding of the snapshot
func (s *Snapshot) CBOR() ([]byte, error) {
	return encMode.Marshal(s)
}

// YAML human readable form
func (s *Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Digest keyed blake3 digest of the CBOR form
func (s *Snapshot) Digest() ([32]byte, error) {
	var sum [32]byte
	data, err := s.CBOR()
	if err != nil {
		return sum, fmt.Errorf("Digest: %w", err)
	}
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		return sum, fmt.Errorf("Digest: %w", err)
	}
	_, _ = hasher.Write(data)
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}

// Diff handles of objects that differ between a and b, sorted
func Diff(a, b *Snapshot) []string {
	index := func(s *Snapshot) map[string][]byte {
		res := make(map[string][]byte, len(s.Objects))
		for _, o := range s.Objects {
			data, err := encMode.Marshal(o)
			if err != nil {
				data = []byte(err.Error())
			}
			res[o.Handle] = data
		}
		return res
	}
	ia, ib := index(a), index(b)

	var res []string
	for h, da := range ia {
		if db, ok := ib[h]; !ok || string(da) != string(db) {
			res = append(res, h)
		}
	}
	for h := range ib {
		if _, ok := ia[h]; !ok {
			res = append(res, h)
		}
	}
	sort.Strings(res)
	return res
}
