// Package layout builds trees of typed view nodes from layout and menu
// documents and expands the <include> references between them.
package layout

import (
	"maps"

	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/resource"
)

// NodeID addresses a Node in an Arena.
type NodeID int

// NoNode is the NodeID of nothing, e.g. the parent of a root.
const NoNode NodeID = -1

// Kind tags what a Node holds.
type Kind int

const (
	// KindView is a resolved view or menu element.
	KindView Kind = iota
	// KindInclude is an <include> that has not been expanded yet.
	KindInclude
)

func (k Kind) String() string {
	if k == KindInclude {
		return "include"
	}

	return "view"
}

// Attr is a recognised element attribute, named by its local name.
type Attr string

const (
	AttrText               Attr = "text"
	AttrTitle              Attr = "title"
	AttrHint               Attr = "hint"
	AttrContentDescription Attr = "contentDescription"
	AttrTextColor          Attr = "textColor"
	AttrTextSize           Attr = "textSize"
	AttrLayoutWidth        Attr = "layout_width"
	AttrLayoutHeight       Attr = "layout_height"
	AttrOnClick            Attr = "onClick"
)

// Attrs are the attributes resolved onto every Node.
var Attrs = []Attr{
	AttrText,
	AttrTitle,
	AttrHint,
	AttrContentDescription,
	AttrTextColor,
	AttrTextSize,
	AttrLayoutWidth,
	AttrLayoutHeight,
	AttrOnClick,
}

// Include is the payload of a KindInclude Node.
type Include struct {
	Layout    string
	Namespace resource.Namespace
	// LayoutID is the compiled id of Layout, 0 if it has none.
	LayoutID int
	// IDOverride replaces the id of the included root, 0 if unset.
	IDOverride     int
	IDOverrideName string
}

// Node is one element of a layout or menu document.
type Node struct {
	Kind  Kind
	Tag   string
	Class classes.Ref
	// ID is the resource id of the element, 0 if it has none.
	ID       int
	IDName   string
	Attrs    map[Attr]string
	Children []NodeID
	Parent   NodeID
	// Origin is the path of the document the element was parsed from.
	Origin  string
	Include *Include
}

func (n *Node) Attr(attr Attr) (string, bool) {
	v, ok := n.Attrs[attr]
	return v, ok
}

// HintSeparator joins a view's hint and its autofill hints.
const HintSeparator = "|"

// Hint returns the hint of n, followed by its autofill hints if it
// declares any.
func (n *Node) Hint() string {
	return n.Attrs[AttrHint]
}

func (n *Node) clone() Node {
	c := *n
	c.Attrs = maps.Clone(n.Attrs)
	c.Children = nil
	if n.Include != nil {
		inc := *n.Include
		c.Include = &inc
	}

	return c
}

// Arena owns every Node built for a model. Nodes are never removed;
// a Node dropped from its parent is simply unreachable.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena {
	return &Arena{}
}

// New stores n and returns its address. Pointers previously returned
// by Node must not be used after New.
func (a *Arena) New(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// Node returns the Node at id, or nil if id is out of range.
func (a *Arena) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}

	return &a.nodes[id]
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// DeepCopy copies the subtree at src into a fresh range of the arena and
// returns the new root, which has no parent. Unexpanded includes inside
// the subtree are copied as includes.
func (a *Arena) DeepCopy(src NodeID) NodeID {
	if a.Node(src) == nil {
		return NoNode
	}

	type frame struct {
		src, parent NodeID
	}

	var (
		root  = NoNode
		queue = []frame{{src, NoNode}}
	)
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		n := a.nodes[f.src].clone()
		n.Parent = f.parent
		id := a.New(n)

		if f.parent == NoNode {
			root = id
		} else {
			a.nodes[f.parent].Children = append(a.nodes[f.parent].Children, id)
		}

		for _, child := range a.nodes[f.src].Children {
			queue = append(queue, frame{child, id})
		}
	}

	return root
}

// Walk visits the subtree at root breadth-first, siblings in document
// order, until fn returns false.
func (a *Arena) Walk(root NodeID, fn func(NodeID, *Node) bool) {
	queue := []NodeID{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := a.Node(id)
		if n == nil {
			continue
		}

		if !fn(id, n) {
			return
		}

		queue = append(queue, n.Children...)
	}
}

// Ancestors reports whether any node on the path from id up to its root,
// id included, satisfies fn.
func (a *Arena) Ancestors(id NodeID, fn func(*Node) bool) bool {
	for n := a.Node(id); n != nil; n = a.Node(n.Parent) {
		if fn(n) {
			return true
		}
	}

	return false
}
