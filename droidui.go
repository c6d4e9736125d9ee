// Package droidui builds a static model of an Android app's user
// interface: its resource tables, its layout and menu trees with every
// include expanded, its manifest components and the intents that can
// reach them. The model is built once and only read afterwards.
package droidui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/frantjc/droidui/android"
	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/layout"
	"github.com/frantjc/droidui/resource"
	"github.com/opencontainers/go-digest"
)

// PlatformPackage is the package platform constants are declared in.
const PlatformPackage = "android"

// Model is the result of Build.
type Model struct {
	Manifest *android.Manifest
	Catalog  *resource.Catalog
	Resolver *resource.Resolver
	Views    *layout.Builder
	// Digest identifies the input the model was built from.
	Digest digest.Digest
	// Warnings joins every non-fatal problem met while building. The
	// model is usable regardless.
	Warnings error
}

// Build reads the manifest, resource tables and layout documents opts
// point at and builds a Model from them. Only a problem that leaves no
// meaningful model, such as a manifest without a package, fails it;
// everything else is logged, recorded in Model.Warnings and skipped.
func Build(ctx context.Context, opts *Options) (*Model, error) {
	if opts == nil || opts.Manifest == "" {
		return nil, droiderr.New(errors.New("no manifest"), droiderr.Invariant)
	}

	var (
		log      = LoggerFrom(ctx)
		catalog  = resource.NewCatalog(log)
		resolver = resource.NewResolver(log, catalog)
		warnings []error
		warn     = func(err error) {
			if err != nil {
				warnings = append(warnings, err)
			}
		}
	)

	registry, err := opts.registry()
	if err != nil {
		return nil, droiderr.New(err, droiderr.Invariant)
	}

	// Value tables come first so that the manifest can refer to them.
	for _, dir := range opts.Platform.Resources {
		warn(resource.LoadValues(log, catalog, resource.NamespacePlatform, dir))
	}

	for _, dir := range opts.Resources {
		warn(resource.LoadValues(log, catalog, resource.NamespaceApp, dir))
	}

	b, err := os.ReadFile(opts.Manifest)
	if err != nil {
		return nil, droiderr.New(err, droiderr.Invariant)
	}

	manifest, err := android.ParseManifest(ctx, bytes.NewReader(b),
		android.WithResolver(resolver),
		android.WithClasses(registry),
		android.WithExclusions(opts.Excluded()...),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Manifest, err)
	}

	log.V(1).Info("parsed manifest", "package", manifest.Package, "components", len(manifest.Components))

	constants, err := opts.constants(opts.Symbols)
	warn(err)
	if opts.Constants != nil {
		constants = opts.Constants
	}

	if constants != nil {
		warn(resource.Seed(log, catalog, constants, resource.NamespaceApp, manifest.Package))
	}

	platform, err := opts.constants(opts.Platform.Symbols)
	warn(err)

	if platform != nil {
		warn(resource.Seed(log, catalog, platform, resource.NamespacePlatform, PlatformPackage))
	}

	if opts.Platform.Overlay != "" {
		if overlay, err := resource.OpenPublicXML(opts.Platform.Overlay); err != nil {
			log.Error(err, "skipping platform overlay", "path", opts.Platform.Overlay)
			warn(droiderr.New(fmt.Errorf("%s: %w", opts.Platform.Overlay, err), droiderr.Malformed))
		} else {
			log.V(1).Info("overlaid platform identifiers", "count", overlay.OverlayInto(log, catalog))
		}
	}

	views := layout.NewBuilder(catalog, registry,
		layout.WithLogger(log),
		layout.WithRoots(resource.NamespaceApp, opts.Resources...),
		layout.WithRoots(resource.NamespacePlatform, opts.Platform.Resources...),
	)
	views.Load()

	return &Model{
		Manifest: manifest,
		Catalog:  catalog,
		Resolver: resolver,
		Views:    views,
		Digest:   digest.FromBytes(b),
		Warnings: errors.Join(warnings...),
	}, nil
}

func (o *Options) registry() (classes.Registry, error) {
	switch {
	case o.ClassRegistry != nil:
		return o.ClassRegistry, nil
	case o.Classes != "":
		set, err := classes.OpenSet(o.Classes)
		if err != nil {
			return nil, err
		}

		return classes.WithPlatform(set), nil
	}

	return classes.Set(nil), nil
}

// constants opens each symbol file, telling public.xml documents from
// R.txt ones by name. Files that cannot be read are left out.
func (o *Options) constants(names []string) (resource.ConstantProvider, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var (
		providers resource.Providers
		errs      []error
	)
	for _, name := range names {
		var (
			p   resource.ConstantProvider
			err error
		)
		if filepath.Base(name) == resource.PublicXMLName {
			p, err = resource.OpenPublicXML(name)
		} else {
			p, err = resource.OpenRTxt(name)
		}
		if err != nil {
			errs = append(errs, droiderr.New(fmt.Errorf("%s: %w", name, err), droiderr.Missing))
			continue
		}

		providers = append(providers, p)
	}

	return providers, errors.Join(errs...)
}

// FindViewByID returns the view carrying id in any of the app, platform
// and dynamic id spaces.
func (m *Model) FindViewByID(id int) (*layout.Node, bool) {
	n, ok := m.Views.FindViewByID(id)
	if !ok {
		return nil, false
	}

	return m.Views.Arena.Node(n), true
}

// FindViewByName looks name up as an id of the app, the platform and
// then the dynamic id space and returns the view carrying it.
func (m *Model) FindViewByName(name string) (*layout.Node, bool) {
	for _, ns := range []resource.Namespace{resource.NamespaceApp, resource.NamespacePlatform, resource.NamespaceDynamic} {
		if id, ok := m.Catalog.LookupValue(resource.TypeID, ns, name); ok {
			if n, ok := m.FindViewByID(id); ok {
				return n, true
			}
		}
	}

	return nil, false
}

// Resolve returns the components of the app that intent reaches.
func (m *Model) Resolve(ctx context.Context, intent *android.Intent) []*android.Component {
	return android.Resolve(ctx, intent, m.Manifest.Components)
}
