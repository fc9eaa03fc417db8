// Package templates staging objects of the decode pass.
//
// A template holds its target object plus every cross reference as a raw handle.
// Build turns the handles into object references through a Resolver; it only ever
// mutates its own object, so templates may be built in any order and in parallel.
package templates

import "github.com/smartcad/cadlink/internal/cad"

// Resolver registry view offered to templates while building
type Resolver interface {
	Lookup(h cad.Handle) (cad.Object, bool)
	// LookupEntry table entry of the given type name by entry name
	LookupEntry(typeName, name string) (cad.TableEntry, bool)
	// Unresolved reports a reference left unset, found is non nil on a type mismatch
	Unresolved(ref, expected string, found cad.Object)
}

// Template staging object
type Template interface {
	Object() cad.Object
	Build(r Resolver)
}

// expectedName type name of T for notifications
func expectedName[T cad.Object]() string {
	switch any((*T)(nil)).(type) {
	case *cad.Entity:
		return "entity"
	case *cad.DimensionEntity:
		return cad.TypeDimension
	case *cad.DictionaryHolder:
		return cad.TypeDictionary
	case *cad.TableEntry:
		return "table entry"
	}
	var zero T
	switch any(zero).(type) {
	case nil:
		return "object"
	case *cad.UnknownObject, *cad.UnknownEntity:
		return "unknown"
	}
	return zero.ObjectName()
}

// TryGet resolves h to an object of type T. Handle 0 means no reference and is
// never reported; a missing handle or an object of another type is reported and
// resolves to absent.
func TryGet[T cad.Object](r Resolver, h cad.Handle) (T, bool) {
	var zero T
	if h == 0 {
		return zero, false
	}
	o, ok := r.Lookup(h)
	if !ok {
		r.Unresolved(h.String(), expectedName[T](), nil)
		return zero, false
	}
	t, ok := o.(T)
	if !ok {
		r.Unresolved(h.String(), expectedName[T](), o)
		return zero, false
	}
	return t, true
}

// TryGetEntry resolves a table entry by handle, then by name
func TryGetEntry[T cad.TableEntry](r Resolver, h cad.Handle, kind, name string) (T, bool) {
	if h != 0 {
		if t, ok := TryGet[T](r, h); ok {
			return t, true
		}
	}
	var zero T
	if name == "" {
		return zero, false
	}
	e, ok := r.LookupEntry(kind, name)
	if !ok {
		r.Unresolved(name, kind, nil)
		return zero, false
	}
	t, ok := e.(T)
	if !ok {
		r.Unresolved(name, kind, e)
		return zero, false
	}
	return t, true
}
