package layout

import (
	"github.com/frantjc/droidui/resource"
)

// Reindex rebuilds the id index used by FindViewByID. The first view
// carrying an id, app forests before platform ones, wins.
func (b *Builder) Reindex() {
	b.index = map[int]NodeID{}

	for _, ns := range []resource.Namespace{resource.NamespaceApp, resource.NamespacePlatform} {
		for _, typ := range documents {
			f := b.Forest(ns, typ)
			for _, id := range f.IDs() {
				root, _ := f.Root(id)
				b.Arena.Walk(root, func(id NodeID, n *Node) bool {
					if n.Kind == KindView && n.ID != 0 {
						if _, ok := b.index[n.ID]; !ok {
							b.index[n.ID] = id
						}
					}

					return true
				})
			}
		}
	}
}

// FindViewByID finds a view by resource id across the app, platform and
// dynamic id spaces.
func (b *Builder) FindViewByID(id int) (NodeID, bool) {
	if b.index == nil {
		b.Reindex()
	}

	n, ok := b.index[id]
	return n, ok
}
