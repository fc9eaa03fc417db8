package builder

import (
	"github.com/google/uuid"

	"github.com/smartcad/cadlink/internal/cad"
)

// link attaches children to their owners in ascending handle order and fills the
// document collections
func (b *Builder) link() error {
	it, err := b.reg.Iterator()
	if err != nil {
		return err
	}

	doc := b.doc
	for it.Next() {
		obj := it.Object()
		owner := obj.Base().Owner

		switch o := obj.(type) {
		case *cad.Table[*cad.Layer]:
			doc.Layers = o
		case *cad.Table[*cad.DimensionStyle]:
			doc.DimensionStyles = o
		case *cad.Table[*cad.BlockRecord]:
			doc.BlockRecords = o
		case *cad.Dictionary:
			if owner == nil && doc.RootDictionary == nil {
				doc.RootDictionary = o
			}
		case *cad.SortEntitiesTable:
			if o.BlockOwner != nil {
				o.BlockOwner.SortEntities = o
			}
		case *cad.Block:
			if br, ok := owner.(*cad.BlockRecord); ok {
				br.Begin = o
			}
		case *cad.BlockEnd:
			if br, ok := owner.(*cad.BlockRecord); ok {
				br.End = o
			}
		case cad.TableEntry:
			adder, ok := owner.(cad.EntryAdder)
			if !ok {
				break
			}
			if !adder.AddEntry(o) {
				b.notes.Warnf(b.positions[o.Handle()], "%s %s does not belong to table %s",
					o.ObjectName(), o.Handle(), owner.Handle())
			}
		case cad.Entity:
			switch br := owner.(type) {
			case nil:
				doc.Entities = append(doc.Entities, o)
			case *cad.BlockRecord:
				br.AddEntity(o)
				if br.IsModelSpace() {
					doc.Entities = append(doc.Entities, o)
				}
			}
		}
	}

	doc.SetObjects(b.reg.Objects())
	if last := b.reg.MaxHandle(); doc.Header.HandleSeed <= last {
		if doc.Header.HandleSeed != 0 {
			b.notes.Warnf(-1, "handle seed %s is not above the last handle %s", doc.Header.HandleSeed, last)
		}
		doc.Header.HandleSeed = last + 1
	}
	if doc.Header.FingerprintGUID == uuid.Nil {
		doc.Header.FingerprintGUID = uuid.New()
	}
	if doc.Header.VersionGUID == uuid.Nil {
		doc.Header.VersionGUID = uuid.New()
	}
	return nil
}
