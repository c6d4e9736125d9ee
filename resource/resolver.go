package resource

import (
	"strings"

	"github.com/frantjc/droidui/internal/droidregexp"
	"github.com/go-logr/logr"
)

// MaxReferenceDepth bounds how many value references are followed
// before giving up on a chain.
const MaxReferenceDepth = 16

const platformPackage = "android"

// Resolver turns textual attribute values into literals.
type Resolver struct {
	Catalog *Catalog
	Log     logr.Logger
}

func NewResolver(log logr.Logger, c *Catalog) *Resolver {
	return &Resolver{Catalog: c, Log: log}
}

// Reference is a parsed @[*][package:][+]type/name reference.
type Reference struct {
	Type     Type
	Name     string
	Platform bool
	Create   bool
}

// ParseReference parses s as a resource reference.
func ParseReference(s string) (Reference, bool) {
	m := droidregexp.Reference.FindStringSubmatch(s)
	if m == nil {
		return Reference{}, false
	}

	return Reference{
		Type:     Type(m[4]),
		Name:     m[5],
		Platform: m[1] == "*" || m[2] == platformPackage,
		Create:   m[3] == "+",
	}, true
}

func (r Reference) Namespace() Namespace {
	if r.Platform {
		return NamespacePlatform
	}

	return NamespaceApp
}

// Resolve returns the literal text denoted by text. Literals are returned
// with one pair of surrounding quotes removed. Colour references are
// followed through chains; a chain that cycles or runs deeper than
// MaxReferenceDepth resolves to nothing.
func (r *Resolver) Resolve(text string) (string, bool) {
	return r.resolve(text, map[string]struct{}{})
}

func (r *Resolver) resolve(text string, seen map[string]struct{}) (string, bool) {
	if text == "" {
		return "", false
	}

	if !strings.HasPrefix(text, "@") {
		return unquote(text), true
	}

	ref, ok := ParseReference(text)
	if !ok {
		r.Log.V(1).Info("unrecognized value reference", "text", text)
		return "", false
	}

	switch ref.Type {
	case TypeID:
		return ref.Name, true
	case TypeString, TypeDimen, TypeInteger, TypeBool:
		return r.lookup(ref)
	case TypeColor:
		if _, ok := seen[text]; ok {
			r.Log.V(1).Info("color reference cycle", "text", text)
			return "", false
		} else if len(seen) >= MaxReferenceDepth {
			r.Log.V(1).Info("color reference chain too deep", "text", text)
			return "", false
		}
		seen[text] = struct{}{}

		value, ok := r.lookup(ref)
		if ok && strings.HasPrefix(value, "@") {
			return r.resolve(value, seen)
		}

		return value, ok
	}

	r.Log.V(1).Info("unsupported value reference", "text", text)
	return "", false
}

// lookup finds the text of ref, falling back from the app namespace to
// the platform one.
func (r *Resolver) lookup(ref Reference) (string, bool) {
	if s, ok := r.Catalog.LookupText(ref.Type, ref.Namespace(), ref.Name); ok {
		return s, true
	}

	if !ref.Platform {
		if s, ok := r.Catalog.LookupText(ref.Type, NamespacePlatform, ref.Name); ok {
			return s, true
		}
	}

	r.Log.V(1).Info("value reference not found", "type", ref.Type, "namespace", ref.Namespace(), "name", ref.Name)
	return "", false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}

	return s
}
