package layout

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/internal/droidregexp"
	"github.com/frantjc/droidui/resource"
	"github.com/go-logr/logr"
)

const (
	tagInclude      = "include"
	tagRequestFocus = "requestFocus"
	tagView         = "view"

	autofillHints = "autofillHints"
	nullReference = "@null"
)

type forestKey struct {
	ns  resource.Namespace
	typ resource.Type
}

// Builder parses layout and menu documents into an Arena and keeps the
// resulting Forests. It is used once to build a model and only read
// afterwards.
type Builder struct {
	Arena    *Arena
	Catalog  *resource.Catalog
	Resolver *resource.Resolver
	Classes  classes.Registry

	log       logr.Logger
	roots     map[resource.Namespace][]string
	forests   map[forestKey]*Forest
	synthetic int
	index     map[int]NodeID
}

type BuilderOpt func(*Builder)

// WithRoots adds resource directories (the ones holding layout/, menu/,
// values/, ...) to search for documents of ns.
func WithRoots(ns resource.Namespace, dirs ...string) BuilderOpt {
	return func(b *Builder) {
		b.roots[ns] = append(b.roots[ns], dirs...)
	}
}

func WithLogger(log logr.Logger) BuilderOpt {
	return func(b *Builder) {
		b.log = log
	}
}

func NewBuilder(c *resource.Catalog, registry classes.Registry, opts ...BuilderOpt) *Builder {
	b := &Builder{
		Arena:   NewArena(),
		Catalog: c,
		Classes: registry,
		log:     logr.Discard(),
		roots:   map[resource.Namespace][]string{},
		forests: map[forestKey]*Forest{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.Classes == nil {
		b.Classes = classes.Set(nil)
	}

	b.Resolver = resource.NewResolver(b.log, c)

	return b
}

// Forest returns the Forest of ns and typ, creating it if need be.
func (b *Builder) Forest(ns resource.Namespace, typ resource.Type) *Forest {
	k := forestKey{ns, typ}
	f, ok := b.forests[k]
	if !ok {
		f = NewForest(ns, typ)
		b.forests[k] = f
	}

	return f
}

var (
	namespaces = []resource.Namespace{resource.NamespacePlatform, resource.NamespaceApp}
	documents  = []resource.Type{resource.TypeLayout, resource.TypeMenu}
)

// Load parses every layout and menu document the Catalog names, platform
// first so that app includes can fall back to it, then expands includes.
// Documents that cannot be found or parsed are logged and skipped.
func (b *Builder) Load() {
	for _, ns := range namespaces {
		for _, typ := range documents {
			b.LoadForest(ns, typ)
		}
	}

	for _, ns := range namespaces {
		for _, typ := range documents {
			b.ExpandIncludes(b.Forest(ns, typ))
		}
	}

	b.Reindex()
}

// LoadForest parses the documents of every typ resource the Catalog
// binds in ns.
func (b *Builder) LoadForest(ns resource.Namespace, typ resource.Type) *Forest {
	f := b.Forest(ns, typ)

	for _, name := range b.Catalog.Names(typ, ns) {
		path, ok := b.locate(ns, typ, name)
		if !ok {
			b.log.V(1).Info("document not found", "namespace", ns, "type", typ, "name", name)
			continue
		}

		root, err := b.ParseDocument(path, ns)
		if err != nil {
			b.log.Error(err, "skipping document", "path", path)
			continue
		}

		id, _ := b.Catalog.LookupValue(typ, ns, name)
		f.Add(id, name, root)
	}

	b.log.V(2).Info("loaded documents", "namespace", ns, "type", typ, "count", f.Len())

	return f
}

// locate finds the document for name under the roots of ns, preferring
// the unqualified directory over qualified ones such as layout-land.
func (b *Builder) locate(ns resource.Namespace, typ resource.Type, name string) (string, bool) {
	for _, root := range b.roots[ns] {
		path := filepath.Join(root, string(typ), name+".xml")
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}

		matches, _ := filepath.Glob(filepath.Join(root, string(typ)+"-*", name+".xml"))
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], true
		}
	}

	return "", false
}

// element is any XML element. Comments and character data are dropped
// while decoding.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e *element) attr(local string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name.Local == local {
			return attr.Value, true
		}
	}

	return "", false
}

// ParseDocument parses the layout or menu document at path.
func (b *Builder) ParseDocument(path string, ns resource.Namespace) (NodeID, error) {
	f, err := os.Open(path)
	if err != nil {
		return NoNode, droiderr.New(err, droiderr.Missing)
	}
	defer f.Close()

	return b.Parse(f, path, ns)
}

// Parse reads a document from r into the Arena and returns its root.
// Elements are created breadth-first; children keep document order.
// <include> elements become KindInclude nodes and are not followed. A
// document rooted at an <include> is Malformed.
func (b *Builder) Parse(r io.Reader, origin string, ns resource.Namespace) (NodeID, error) {
	doc := &element{}
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return NoNode, droiderr.New(fmt.Errorf("%s: %w", origin, err), droiderr.Malformed)
	}

	type frame struct {
		el     *element
		parent NodeID
	}

	var (
		root  = NoNode
		queue = []frame{{doc, NoNode}}
	)
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		var n Node
		switch f.el.XMLName.Local {
		case tagRequestFocus:
			continue
		case tagInclude:
			if f.parent == NoNode {
				return NoNode, droiderr.New(fmt.Errorf("%s: include at document root", origin), droiderr.Malformed)
			}

			var ok bool
			if n, ok = b.parseInclude(f.el, origin, ns); !ok {
				continue
			}
		default:
			var ok bool
			if n, ok = b.parseView(f.el, origin, ns); !ok {
				continue
			}
		}

		n.Parent = f.parent
		id := b.Arena.New(n)

		if f.parent == NoNode {
			root = id
		} else {
			parent := b.Arena.Node(f.parent)
			parent.Children = append(parent.Children, id)
		}

		if n.Kind == KindView {
			for i := range f.el.Children {
				queue = append(queue, frame{&f.el.Children[i], id})
			}
		}
	}

	if root == NoNode {
		return NoNode, droiderr.New(fmt.Errorf("%s: no view at document root", origin), droiderr.Malformed)
	}

	return root, nil
}

// parseView skips a <view> without a class along with its children.
func (b *Builder) parseView(el *element, origin string, ns resource.Namespace) (Node, bool) {
	classAttr, ok := el.attr("class")
	if el.XMLName.Local == tagView && (!ok || classAttr == "") {
		b.log.V(1).Info("view without class", "path", origin)
		return Node{}, false
	}

	n := Node{
		Kind:   KindView,
		Tag:    el.XMLName.Local,
		Class:  resolveClass(b.Classes, el.XMLName.Local, classAttr),
		Attrs:  map[Attr]string{},
		Origin: origin,
	}

	if n.Class.Phantom() {
		b.log.V(2).Info("view class not found", "tag", n.Tag, "class", n.Class.Name(), "path", origin)
	}

	if text, ok := el.attr("id"); ok {
		n.ID, n.IDName, _ = b.resolveID(text, ns)
	}

	b.resolveAttrs(el, &n)

	if text, ok := el.attr(autofillHints); ok {
		if v, ok := b.Resolver.Resolve(text); ok {
			if hint, ok := n.Attrs[AttrHint]; ok {
				v = hint + HintSeparator + v
			}
			n.Attrs[AttrHint] = v
		}
	}

	return n, true
}

func (b *Builder) parseInclude(el *element, origin string, ns resource.Namespace) (Node, bool) {
	text, _ := el.attr("layout")

	ref, ok := resource.ParseReference(text)
	if !ok || ref.Type != resource.TypeLayout {
		b.log.V(1).Info("include without layout reference", "layout", text, "path", origin)
		return Node{}, false
	}

	inc := &Include{
		Layout:    ref.Name,
		Namespace: ns,
	}
	if ref.Platform {
		inc.Namespace = resource.NamespacePlatform
	}
	inc.LayoutID, _ = b.Catalog.LookupValue(resource.TypeLayout, inc.Namespace, ref.Name)

	if text, ok := el.attr("id"); ok {
		inc.IDOverride, inc.IDOverrideName, _ = b.resolveID(text, ns)
	}

	n := Node{
		Kind:    KindInclude,
		Tag:     tagInclude,
		Attrs:   map[Attr]string{},
		Origin:  origin,
		Include: inc,
	}
	b.resolveAttrs(el, &n)

	return n, true
}

func (b *Builder) resolveAttrs(el *element, n *Node) {
	for _, attr := range Attrs {
		if text, ok := el.attr(string(attr)); ok {
			if v, ok := b.Resolver.Resolve(text); ok {
				n.Attrs[attr] = v
			}
		}
	}
}

// resolveID resolves the id attribute text of an element in a document of
// ns. It accepts a bare name, @id/ and @+id/ references, platform ids in
// both the @android:id/ and the legacy @+android:id/ and @id/android:
// spellings, ?attr/ references and references of any other type, which
// are looked up in that type's table. Ids declared with @+id/ that have
// no compiled constant are interned in the dynamic namespace. @null
// declares no id.
func (b *Builder) resolveID(text string, ns resource.Namespace) (int, string, bool) {
	if text == nullReference {
		return 0, "", false
	}

	if m := droidregexp.LegacyPlatformID.FindStringSubmatch(text); m != nil {
		name := m[1] + m[2]
		if v, ok := b.Catalog.LookupValue(resource.TypeID, resource.NamespacePlatform, name); ok {
			return v, name, true
		}

		b.log.V(1).Info("id not found", "id", text, "namespace", resource.NamespacePlatform)
		return 0, "", false
	}

	if ref, ok := resource.ParseReference(text); ok {
		refNS := ns
		if ref.Platform {
			refNS = resource.NamespacePlatform
		}

		if ref.Type != resource.TypeID {
			if v, ok := b.Catalog.LookupValue(ref.Type, refNS, ref.Name); ok {
				return v, ref.Name, true
			}

			b.log.V(1).Info("id reference not found", "id", text, "type", ref.Type, "namespace", refNS)
			return 0, "", false
		}

		if v, ok := b.lookupID(refNS, ref.Name); ok {
			return v, ref.Name, true
		} else if ref.Create && !ref.Platform {
			return b.Catalog.Intern(resource.TypeID, ref.Name), ref.Name, true
		}

		b.log.V(1).Info("id not found", "id", text, "namespace", refNS)
		return 0, "", false
	}

	if m := droidregexp.AttrReference.FindStringSubmatch(text); m != nil {
		attrNS := ns
		if m[1] == "android" {
			attrNS = resource.NamespacePlatform
		}

		if v, ok := b.Catalog.LookupValue(resource.TypeAttr, attrNS, m[2]); ok {
			return v, m[2], true
		}

		b.log.V(1).Info("attr not found", "id", text, "namespace", attrNS)
		return 0, "", false
	}

	if text != "" && !strings.ContainsAny(text, "@?/:") {
		if v, ok := b.lookupID(ns, text); ok {
			return v, text, true
		}
	}

	b.log.V(1).Info("id not found", "id", text, "namespace", ns)
	return 0, "", false
}

func (b *Builder) lookupID(ns resource.Namespace, name string) (int, bool) {
	if v, ok := b.Catalog.LookupValue(resource.TypeID, ns, name); ok {
		return v, true
	}

	return b.Catalog.LookupValue(resource.TypeID, resource.NamespaceDynamic, name)
}
