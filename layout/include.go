package layout

import (
	"github.com/frantjc/droidui/resource"
)

// ExpandIncludes replaces every include reachable from the roots of f
// with a deep copy of the document it names. The target is, in order:
// a root of the same namespace already parsed; for includes of f's own
// namespace, a document found under the resource roots and parsed on
// the spot; for app forests, a platform root of the same name. Includes
// whose target cannot be found, or whose target is already one of their
// ancestors, are dropped.
//
// Roots discovered on disk are added to the Forest under a synthesized
// negative id and queued so that they are expanded exactly once.
// Expanding an already expanded Forest is a no-op.
func (b *Builder) ExpandIncludes(f *Forest) {
	queue := []NodeID{}
	for _, id := range f.IDs() {
		root, _ := f.Root(id)
		queue = append(queue, root)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := b.Arena.Node(id)
		if n == nil {
			continue
		} else if n.Kind != KindInclude {
			queue = append(queue, n.Children...)
			continue
		}

		inc := *n.Include
		target, discovered := b.includeTarget(f, inc)
		if discovered != NoNode {
			queue = append(queue, discovered)
		}

		if target != NoNode {
			origin := b.Arena.Node(target).Origin
			if b.Arena.Ancestors(id, func(a *Node) bool { return a.Origin == origin }) {
				b.log.V(1).Info("include cycle", "layout", inc.Layout, "path", origin)
				target = NoNode
			}
		} else {
			b.log.V(1).Info("include target not found", "layout", inc.Layout, "namespace", inc.Namespace)
		}

		replacement := NoNode
		if target != NoNode {
			replacement = b.Arena.DeepCopy(target)
			queue = append(queue, replacement)
		}

		b.substitute(id, replacement)
	}
}

// includeTarget finds the root an include refers to. discovered is the
// root if it had to be parsed from disk.
func (b *Builder) includeTarget(f *Forest, inc Include) (target NodeID, discovered NodeID) {
	home := b.Forest(inc.Namespace, resource.TypeLayout)

	if root, ok := home.RootByName(inc.Layout); ok {
		return root, NoNode
	} else if root, ok := home.Root(inc.LayoutID); inc.LayoutID != 0 && ok {
		return root, NoNode
	}

	if inc.Namespace == f.Namespace {
		if path, ok := b.locate(inc.Namespace, resource.TypeLayout, inc.Layout); ok {
			root, err := b.ParseDocument(path, inc.Namespace)
			if err == nil {
				b.synthetic--
				home.Add(b.synthetic, inc.Layout, root)
				b.log.V(2).Info("discovered document", "path", path, "id", b.synthetic)
				return root, root
			}

			b.log.Error(err, "skipping included document", "path", path)
		}
	}

	if f.Namespace == resource.NamespaceApp {
		if root, ok := b.Forest(resource.NamespacePlatform, resource.TypeLayout).RootByName(inc.Layout); ok {
			return root, NoNode
		}
	}

	return NoNode, NoNode
}

// substitute puts replacement where the include at id sits in its
// parent, or just drops the include if replacement is NoNode. The
// include's id and layout size attributes override the replacement's.
func (b *Builder) substitute(id, replacement NodeID) {
	var (
		n        = b.Arena.Node(id)
		parentID = n.Parent
		parent   = b.Arena.Node(parentID)
		children = make([]NodeID, 0, len(parent.Children))
	)
	for _, child := range parent.Children {
		if child != id {
			children = append(children, child)
		} else if replacement != NoNode {
			children = append(children, replacement)
		}
	}
	parent.Children = children
	n.Parent = NoNode

	if replacement == NoNode {
		return
	}

	r := b.Arena.Node(replacement)
	r.Parent = parentID

	if n.Include.IDOverride != 0 {
		r.ID = n.Include.IDOverride
		r.IDName = n.Include.IDOverrideName
	}

	if r.Attrs == nil {
		r.Attrs = map[Attr]string{}
	}

	for _, attr := range []Attr{AttrLayoutWidth, AttrLayoutHeight} {
		if v, ok := n.Attrs[attr]; ok {
			r.Attrs[attr] = v
		}
	}
}
