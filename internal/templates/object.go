package templates

import "github.com/smartcad/cadlink/internal/cad"

// ObjectTemplate references common to every object
type ObjectTemplate struct {
	obj cad.Object

	OwnerHandle       cad.Handle
	XDictionaryHandle cad.Handle
	ReactorHandles    []cad.Handle
}

func NewObjectTemplate(obj cad.Object) *ObjectTemplate {
	return &ObjectTemplate{obj: obj}
}

// Refs common references, promoted to every template
func (t *ObjectTemplate) Refs() *ObjectTemplate {
	return t
}

func (t *ObjectTemplate) Object() cad.Object {
	return t.obj
}

// SetObject replaces the target, used when a later record reveals a more specific type
func (t *ObjectTemplate) SetObject(obj cad.Object) {
	t.obj = obj
}

func (t *ObjectTemplate) Build(r Resolver) {
	b := t.obj.Base()
	if o, ok := TryGet[cad.Object](r, t.OwnerHandle); ok {
		b.Owner = o
	}
	if d, ok := TryGet[cad.DictionaryHolder](r, t.XDictionaryHandle); ok {
		b.XDictionary = d.Dict()
	}
	for _, h := range t.ReactorHandles {
		if o, ok := TryGet[cad.Object](r, h); ok {
			b.Reactors = append(b.Reactors, o)
		}
	}
}

// UnknownTemplate placeholder of an unsupported object type
type UnknownTemplate struct {
	ObjectTemplate
}

func NewUnknownTemplate(obj *cad.UnknownObject) *UnknownTemplate {
	return &UnknownTemplate{ObjectTemplate: ObjectTemplate{obj: obj}}
}

// TableTemplate symbol table header, entries attach themselves through their owner
type TableTemplate struct {
	ObjectTemplate
}

func NewTableTemplate(obj cad.Object) *TableTemplate {
	return &TableTemplate{ObjectTemplate: ObjectTemplate{obj: obj}}
}

// TableEntryTemplate symbol table entry
type TableEntryTemplate struct {
	ObjectTemplate
}

func NewTableEntryTemplate(obj cad.TableEntry) *TableEntryTemplate {
	return &TableEntryTemplate{ObjectTemplate: ObjectTemplate{obj: obj}}
}

// LayerTemplate layer with its plot style
type LayerTemplate struct {
	TableEntryTemplate

	PlotStyleHandle cad.Handle
}

func NewLayerTemplate(layer *cad.Layer) *LayerTemplate {
	return &LayerTemplate{TableEntryTemplate: TableEntryTemplate{ObjectTemplate{obj: layer}}}
}

func (t *LayerTemplate) Build(r Resolver) {
	t.TableEntryTemplate.Build(r)
	if o, ok := TryGet[cad.Object](r, t.PlotStyleHandle); ok {
		t.obj.(*cad.Layer).PlotStyle = o
	}
}

// BlockRecordTemplate block record with its layout
type BlockRecordTemplate struct {
	TableEntryTemplate

	LayoutHandle cad.Handle
}

func NewBlockRecordTemplate(b *cad.BlockRecord) *BlockRecordTemplate {
	return &BlockRecordTemplate{TableEntryTemplate: TableEntryTemplate{ObjectTemplate{obj: b}}}
}

func (t *BlockRecordTemplate) Build(r Resolver) {
	t.TableEntryTemplate.Build(r)
	b := t.obj.(*cad.BlockRecord)
	if l, ok := TryGet[*cad.Layout](r, t.LayoutHandle); ok {
		b.Layout = l
	}
}
