// Package resource holds the symbolic resource tables of an application
// and of the platform it runs on, together with the resolver for textual
// attribute values that reference them.
package resource

import (
	"fmt"
	"sort"

	"github.com/go-logr/logr"
)

// Namespace is one of the resource universes an app draws from.
type Namespace int

const (
	NamespaceApp Namespace = iota
	NamespacePlatform
	// NamespaceDynamic holds identifiers that are only ever declared
	// inline in layouts (@+id/name) and have no compiled constant.
	NamespaceDynamic
)

func (n Namespace) String() string {
	switch n {
	case NamespaceApp:
		return "app"
	case NamespacePlatform:
		return "android"
	case NamespaceDynamic:
		return "dynamic"
	}

	return fmt.Sprintf("Namespace(%d)", int(n))
}

// Type is a resource type tag such as "id" or "layout".
type Type string

const (
	TypeID       Type = "id"
	TypeLayout   Type = "layout"
	TypeMenu     Type = "menu"
	TypeString   Type = "string"
	TypeColor    Type = "color"
	TypeDimen    Type = "dimen"
	TypeInteger  Type = "integer"
	TypeBool     Type = "bool"
	TypeAttr     Type = "attr"
	TypeDrawable Type = "drawable"
	TypeStyle    Type = "style"
	TypeXML      Type = "xml"
)

// Types are the types whose constants are scraped when seeding a Catalog.
var Types = []Type{
	TypeID, TypeLayout, TypeMenu, TypeString, TypeColor, TypeDimen,
	TypeInteger, TypeBool, TypeAttr, TypeDrawable, TypeStyle, TypeXML,
}

// DynamicIDBase is the first value handed out by Catalog.Intern.
const DynamicIDBase = 0x00ff0000

// ID is one symbolic resource.
type ID struct {
	Type      Type
	Namespace Namespace
	Name      string
	Value     int
}

func (i ID) String() string {
	return fmt.Sprintf("@%s:%s/%s(0x%08x)", i.Namespace, i.Type, i.Name, i.Value)
}

type key struct {
	typ Type
	ns  Namespace
}

type table struct {
	byName  map[string]int
	byValue map[int]string
	text    map[string]string
}

// Catalog maps symbolic names to numeric identifiers and back, per
// namespace and type, and holds the textual values of value resources.
// It is populated once and read-only afterwards.
type Catalog struct {
	log         logr.Logger
	tables      map[key]*table
	nextDynamic int
}

func NewCatalog(log logr.Logger) *Catalog {
	return &Catalog{
		log:         log,
		tables:      map[key]*table{},
		nextDynamic: DynamicIDBase,
	}
}

func (c *Catalog) table(typ Type, ns Namespace) *table {
	k := key{typ, ns}
	t, ok := c.tables[k]
	if !ok {
		t = &table{
			byName:  map[string]int{},
			byValue: map[int]string{},
			text:    map[string]string{},
		}
		c.tables[k] = t
	}

	return t
}

// Register binds name and value in both directions. Existing bindings
// are overwritten and the collision is logged.
func (c *Catalog) Register(typ Type, ns Namespace, name string, value int) ID {
	t := c.table(typ, ns)

	if old, ok := t.byName[name]; ok && old != value {
		c.log.V(1).Info("resource name rebound", "type", typ, "namespace", ns, "name", name, "old", old, "new", value)
		if t.byValue[old] == name {
			delete(t.byValue, old)
		}
	}

	if old, ok := t.byValue[value]; ok && old != name {
		c.log.V(1).Info("resource value rebound", "type", typ, "namespace", ns, "value", value, "old", old, "new", name)
		if t.byName[old] == value {
			delete(t.byName, old)
		}
	}

	t.byName[name] = value
	t.byValue[value] = name

	return ID{Type: typ, Namespace: ns, Name: name, Value: value}
}

// Overlay registers a platform binding from a public identifier list.
func (c *Catalog) Overlay(typ Type, name string, value int) ID {
	return c.Register(typ, NamespacePlatform, name, value)
}

func (c *Catalog) LookupValue(typ Type, ns Namespace, name string) (int, bool) {
	t, ok := c.tables[key{typ, ns}]
	if !ok {
		return 0, false
	}

	v, ok := t.byName[name]
	return v, ok
}

func (c *Catalog) LookupName(typ Type, ns Namespace, value int) (string, bool) {
	t, ok := c.tables[key{typ, ns}]
	if !ok {
		return "", false
	}

	n, ok := t.byValue[value]
	return n, ok
}

// Lookup searches every namespace for value, app first.
func (c *Catalog) Lookup(typ Type, value int) (ID, bool) {
	for _, ns := range []Namespace{NamespaceApp, NamespacePlatform, NamespaceDynamic} {
		if name, ok := c.LookupName(typ, ns, value); ok {
			return ID{Type: typ, Namespace: ns, Name: name, Value: value}, true
		}
	}

	return ID{}, false
}

// Intern returns the value bound to name in the dynamic namespace,
// allocating a fresh one if there is none.
func (c *Catalog) Intern(typ Type, name string) int {
	if v, ok := c.LookupValue(typ, NamespaceDynamic, name); ok {
		return v
	}

	v := c.nextDynamic
	c.nextDynamic++
	c.Register(typ, NamespaceDynamic, name, v)

	return v
}

// Names returns the names bound for typ in ns, sorted.
func (c *Catalog) Names(typ Type, ns Namespace) []string {
	t, ok := c.tables[key{typ, ns}]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (c *Catalog) Len(typ Type, ns Namespace) int {
	if t, ok := c.tables[key{typ, ns}]; ok {
		return len(t.byName)
	}

	return 0
}

// SetText records the textual value of a value resource. The last
// definition wins.
func (c *Catalog) SetText(typ Type, ns Namespace, name, text string) {
	t := c.table(typ, ns)
	if old, ok := t.text[name]; ok && old != text {
		c.log.V(1).Info("resource value redefined", "type", typ, "namespace", ns, "name", name)
	}

	t.text[name] = text
}

func (c *Catalog) LookupText(typ Type, ns Namespace, name string) (string, bool) {
	t, ok := c.tables[key{typ, ns}]
	if !ok {
		return "", false
	}

	s, ok := t.text[name]
	return s, ok
}
