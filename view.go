package droidui

import (
	"github.com/frantjc/droidui/android"
	"github.com/frantjc/droidui/layout"
	"github.com/frantjc/droidui/resource"
	"github.com/opencontainers/go-digest"
)

// View is a view subtree in a form fit for encoding.
type View struct {
	Class    string            `yaml:"class"`
	ID       string            `yaml:"id,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Origin   string            `yaml:"origin,omitempty"`
	Children []*View           `yaml:"children,omitempty"`
}

// View renders the subtree rooted at n.
func (m *Model) View(n *layout.Node) *View {
	type item struct {
		node   *layout.Node
		parent *View
	}

	var root *View
	for queue := []item{{node: n}}; len(queue) > 0; queue = queue[1:] {
		var (
			it = queue[0]
			v  = &View{
				Class:  it.node.Tag,
				ID:     it.node.IDName,
				Origin: it.node.Origin,
			}
		)
		if it.node.Class != nil {
			v.Class = it.node.Class.Name()
		}

		if len(it.node.Attrs) > 0 {
			v.Attrs = map[string]string{}
			for k, val := range it.node.Attrs {
				v.Attrs[string(k)] = val
			}
		}

		if it.parent == nil {
			root = v
		} else {
			it.parent.Children = append(it.parent.Children, v)
		}

		for _, c := range it.node.Children {
			if child := m.Views.Arena.Node(c); child != nil {
				queue = append(queue, item{node: child, parent: v})
			}
		}
	}

	return root
}

// Summary describes a Model in brief.
type Summary struct {
	Package        string                `yaml:"package"`
	Version        string                `yaml:"version,omitempty"`
	MinSDK         int                   `yaml:"minSdk,omitempty"`
	Digest         digest.Digest         `yaml:"digest,omitempty"`
	Signers        []string              `yaml:"signers,omitempty"`
	MainActivity   string                `yaml:"mainActivity,omitempty"`
	LauncherFilter *android.IntentFilter `yaml:"launcherFilter,omitempty"`
	Permissions    []string              `yaml:"permissions,omitempty"`
	Components     []*android.Component  `yaml:"components,omitempty"`
	Layouts        int                   `yaml:"layouts"`
	Menus          int                   `yaml:"menus"`
	IDs            int                   `yaml:"ids"`
}

func (m *Model) Summary() *Summary {
	s := &Summary{
		Package:     m.Manifest.Package,
		Digest:      m.Digest,
		Permissions: m.Manifest.Permissions,
		Components:  m.Manifest.Components,
		Layouts:     m.Views.Forest(resource.NamespaceApp, resource.TypeLayout).Len(),
		Menus:       m.Views.Forest(resource.NamespaceApp, resource.TypeMenu).Len(),
		IDs:         m.Catalog.Len(resource.TypeID, resource.NamespaceApp) + m.Catalog.Len(resource.TypeID, resource.NamespaceDynamic),
	}

	if main, ok := m.Manifest.MainActivity(); ok {
		s.MainActivity = main.Name
	}

	if f, ok := m.Manifest.LauncherFilter(); ok {
		s.LauncherFilter = f
	}

	return s
}
