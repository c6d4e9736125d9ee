package android

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/internal/droidregexp"
	"github.com/frantjc/droidui/resource"
	xslice "github.com/frantjc/x/slice"
	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"
)

// ComponentKind is the manifest element a component was declared with.
type ComponentKind string

const (
	KindActivity ComponentKind = "activity"
	KindService  ComponentKind = "service"
	KindReceiver ComponentKind = "receiver"
)

// LaunchMode is how an activity is instantiated.
type LaunchMode int

const (
	LaunchModeStandard LaunchMode = iota
	LaunchModeSingleTop
	LaunchModeSingleTask
	LaunchModeSingleInstance
)

var launchModes = []string{"standard", "singleTop", "singleTask", "singleInstance"}

func (l LaunchMode) String() string {
	if l < 0 || int(l) >= len(launchModes) {
		return fmt.Sprintf("LaunchMode(%d)", int(l))
	}

	return launchModes[l]
}

func (l LaunchMode) MarshalYAML() (any, error) {
	return l.String(), nil
}

func (l *LaunchMode) UnmarshalYAML(value *yaml.Node) error {
	i := slices.Index(launchModes, value.Value)
	if i < 0 {
		return fmt.Errorf("unknown launch mode %q", value.Value)
	}

	*l = LaunchMode(i)
	return nil
}

// Component is a declared activity, service or receiver.
type Component struct {
	// Name is the fully-qualified class name and identifies the component.
	Name string        `yaml:"name"`
	Kind ComponentKind `yaml:"kind"`
	// Package is the package of the app declaring the component.
	Package    string     `yaml:"package"`
	LaunchMode LaunchMode `yaml:"launchMode,omitempty"`
	// Exported is the explicit android:exported flag, nil if not declared.
	Exported *bool `yaml:"exported,omitempty"`
	Enabled  bool  `yaml:"enabled"`
	// Target is the activity an activity-alias stands for.
	Target  string          `yaml:"target,omitempty"`
	Filters []*IntentFilter `yaml:"filters,omitempty"`
}

// IsExported reports whether intents from other apps may reach c.
// Without an explicit flag a component is exported iff it declares
// at least one filter.
func (c *Component) IsExported() bool {
	if c.Exported != nil {
		return *c.Exported
	}

	return len(c.Filters) > 0
}

// Manifest is the resolved model of an AndroidManifest.xml.
type Manifest struct {
	Package     string
	Permissions []string
	Components  []*Component
	Registry    *FilterRegistry

	main *Component
}

func (m *Manifest) MainActivity() (*Component, bool) {
	return m.main, m.main != nil
}

func (m *Manifest) Component(name string) (*Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

func (m *Manifest) ofKind(kind ComponentKind) []*Component {
	return xslice.Filter(m.Components, func(c *Component, _ int) bool {
		return c.Kind == kind
	})
}

func (m *Manifest) Activities() []*Component {
	return m.ofKind(KindActivity)
}

func (m *Manifest) Services() []*Component {
	return m.ofKind(KindService)
}

func (m *Manifest) Receivers() []*Component {
	return m.ofKind(KindReceiver)
}

// LaunchMode returns the launch mode of the named activity.
func (m *Manifest) LaunchMode(activity string) (LaunchMode, bool) {
	if c, ok := m.Component(activity); ok && c.Kind == KindActivity {
		return c.LaunchMode, true
	}

	return LaunchModeStandard, false
}

func (m *Manifest) Filters(component string) []*IntentFilter {
	return m.Registry.Filters(component)
}

func (m *Manifest) LauncherFilter() (*IntentFilter, bool) {
	f, _, ok := m.Registry.LauncherFilter()
	return f, ok
}

type manifestParser struct {
	log      logr.Logger
	resolver *resource.Resolver
	classes  classes.Registry
	exclude  []string
}

type ManifestOpt func(*manifestParser)

// WithResolver lets launch modes and exported flags be given as
// resource references.
func WithResolver(r *resource.Resolver) ManifestOpt {
	return func(p *manifestParser) {
		p.resolver = r
	}
}

// WithClasses drops components whose class the registry reports as phantom.
func WithClasses(r classes.Registry) ManifestOpt {
	return func(p *manifestParser) {
		p.classes = r
	}
}

// WithExclusions drops components with the given fully-qualified names.
func WithExclusions(names ...string) ManifestOpt {
	return func(p *manifestParser) {
		p.exclude = append(p.exclude, names...)
	}
}

func OpenManifest(ctx context.Context, name string, opts ...ManifestOpt) (*Manifest, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, droiderr.New(err, droiderr.Invariant)
	}
	defer f.Close()

	return ParseManifest(ctx, f, opts...)
}

// ParseManifest builds a Manifest from an AndroidManifest.xml. A document
// without a <manifest> root or package name fails; problems with single
// components are logged and the component is left out.
func ParseManifest(ctx context.Context, r io.Reader, opts ...ManifestOpt) (*Manifest, error) {
	p := &manifestParser{
		log:     logr.FromContextOrDiscard(ctx),
		classes: classes.Set(nil),
	}

	for _, opt := range opts {
		opt(p)
	}

	doc, err := DecodeManifest(r)
	if err != nil {
		return nil, droiderr.New(fmt.Errorf("decode %s: %w", AndroidManifestName, err), droiderr.Invariant)
	}

	m := &Manifest{
		Package:  doc.Package(),
		Registry: NewFilterRegistry(),
	}
	if m.Package == "" {
		return nil, droiderr.New(errors.New("manifest declares no package"), droiderr.Invariant)
	}

	for _, e := range doc.UsesPermission {
		if name, ok := e.Attr("name"); ok {
			m.Permissions = append(m.Permissions, name)
		}
	}

	if doc.Application == nil {
		p.log.V(1).Info("manifest declares no application", "package", m.Package)
		return m, nil
	}

	for i := range doc.Application.Components {
		c, ok := p.component(m.Package, &doc.Application.Components[i])
		if !ok {
			continue
		}

		m.Components = append(m.Components, c)

		for _, f := range c.Filters {
			m.Registry.Add(c.Name, f)

			if c.Kind != KindActivity || !f.IsLauncher() {
				continue
			}

			if m.main == nil {
				m.main = c
				m.Registry.SetLauncher(c.Name, f)
			} else if m.main != c {
				p.log.Error(
					droiderr.New(fmt.Errorf("second main activity %s", c.Name), droiderr.Conflict),
					"keeping first main activity", "main", m.main.Name,
				)
			}
		}
	}

	return m, nil
}

// Qualify resolves a component name relative to pkg.
func Qualify(pkg, name string) string {
	switch {
	case strings.HasPrefix(name, "."):
		return pkg + name
	case !strings.Contains(name, "."):
		return pkg + "." + name
	}

	return name
}

func (p *manifestParser) component(pkg string, mc *ManifestComponent) (*Component, bool) {
	var kind ComponentKind
	switch mc.XMLName.Local {
	case "activity", "activity-alias":
		kind = KindActivity
	case "service":
		kind = KindService
	case "receiver":
		kind = KindReceiver
	default:
		return nil, false
	}

	name, ok := mc.Attr("name")
	if !ok || name == "" {
		p.log.V(1).Info("component without name", "element", mc.XMLName.Local)
		return nil, false
	}

	c := &Component{
		Name:    Qualify(pkg, name),
		Kind:    kind,
		Package: pkg,
		Enabled: true,
	}

	// An activity-alias keeps its own filters and may be the main
	// activity. Only its class check goes to the target.
	class := c.Name
	if mc.XMLName.Local == "activity-alias" {
		target, ok := mc.Attr("targetActivity")
		if !ok || target == "" {
			p.log.V(1).Info("activity-alias without targetActivity", "name", c.Name)
			return nil, false
		}
		c.Target = Qualify(pkg, target)
		class = c.Target
	}

	if xslice.Includes(p.exclude, c.Name) {
		p.log.V(1).Info("excluded component", "name", c.Name)
		return nil, false
	} else if p.classes.Resolve(class).Phantom() {
		p.log.V(1).Info("component class not found", "name", c.Name, "class", class)
		return nil, false
	}

	if text, ok := mc.Attr("launchMode"); ok && kind == KindActivity {
		c.LaunchMode = p.launchMode(c.Name, text)
	}

	if text, ok := mc.Attr("exported"); ok {
		if exported, ok := p.bool(text); ok {
			c.Exported = &exported
		} else {
			p.log.V(1).Info("malformed exported flag", "name", c.Name, "exported", text)
		}
	}

	if text, ok := mc.Attr("enabled"); ok {
		if enabled, ok := p.bool(text); ok {
			c.Enabled = enabled
		}
	}

	for i := range mc.IntentFilters {
		c.Filters = append(c.Filters, p.filter(c.Name, &mc.IntentFilters[i]))
	}

	return c, true
}

// launchMode parses one of the mode names, or an integer given directly
// or through an @integer/ reference. Anything else is standard.
func (p *manifestParser) launchMode(component, text string) LaunchMode {
	if i := slices.Index(launchModes, text); i >= 0 {
		return LaunchMode(i)
	}

	if droidregexp.IsReference(text) && p.resolver != nil {
		if v, ok := p.resolver.Resolve(text); ok {
			text = v
		}
	}

	if i, err := strconv.Atoi(text); err == nil && i >= 0 && i < len(launchModes) {
		return LaunchMode(i)
	}

	p.log.V(1).Info("unrecognized launch mode", "name", component, "launchMode", text)
	return LaunchModeStandard
}

func (p *manifestParser) bool(text string) (bool, bool) {
	if droidregexp.IsReference(text) && p.resolver != nil {
		if v, ok := p.resolver.Resolve(text); ok {
			text = v
		}
	}

	b, err := strconv.ParseBool(text)
	return b, err == nil
}

func (p *manifestParser) filter(component string, mf *ManifestIntentFilter) *IntentFilter {
	f := &IntentFilter{}

	for _, e := range mf.Actions {
		if name, ok := e.Attr("name"); ok && name != "" {
			f.Actions = append(f.Actions, name)
		}
	}

	for _, e := range mf.Categories {
		if name, ok := e.Attr("name"); ok && name != "" && !f.HasCategory(name) {
			f.Categories = append(f.Categories, name)
		}
	}

	for _, e := range mf.Data {
		d := DataSpec{}
		d.Scheme, _ = e.Attr("scheme")
		d.Host, _ = e.Attr("host")
		d.Path, _ = e.Attr("path")
		d.PathPrefix, _ = e.Attr("pathPrefix")
		d.PathPattern, _ = e.Attr("pathPattern")
		d.MimeType, _ = e.Attr("mimeType")

		if text, ok := e.Attr("port"); ok {
			port, err := strconv.Atoi(text)
			if err != nil || port <= 0 {
				p.log.V(1).Info("malformed port", "name", component, "port", text)
			} else {
				d.Port = port
			}
		}

		f.Data = append(f.Data, d)
	}

	return f
}
