package layout

import (
	"sort"

	"github.com/frantjc/droidui/resource"
)

// Forest is the set of parsed document roots of one namespace and
// resource type, keyed by resource id. Roots discovered while expanding
// includes are keyed by synthesized negative ids.
type Forest struct {
	Namespace resource.Namespace
	Type      resource.Type

	roots map[int]NodeID
	names map[string]int
}

func NewForest(ns resource.Namespace, typ resource.Type) *Forest {
	return &Forest{
		Namespace: ns,
		Type:      typ,
		roots:     map[int]NodeID{},
		names:     map[string]int{},
	}
}

func (f *Forest) Add(id int, name string, root NodeID) {
	f.roots[id] = root
	if name != "" {
		f.names[name] = id
	}
}

func (f *Forest) Root(id int) (NodeID, bool) {
	root, ok := f.roots[id]
	return root, ok
}

func (f *Forest) RootByName(name string) (NodeID, bool) {
	id, ok := f.names[name]
	if !ok {
		return NoNode, false
	}

	return f.Root(id)
}

// IDs returns the ids of every root, sorted.
func (f *Forest) IDs() []int {
	ids := make([]int, 0, len(f.roots))
	for id := range f.roots {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

func (f *Forest) Len() int {
	return len(f.roots)
}
