package android

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-logr/logr"
)

// Data is the URI of an intent, split into the facets filters match on.
// Port is 0 when absent.
type Data struct {
	Scheme string
	Host   string
	Port   int
	Path   string
}

func (d Data) IsZero() bool {
	return d == Data{}
}

// ParseData splits a URI into Data. An unparsable port is dropped.
func ParseData(uri string) (Data, error) {
	if uri == "" {
		return Data{}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Data{}, err
	}

	d := Data{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Path:   u.EscapedPath(),
	}

	if port := u.Port(); port != "" {
		if d.Port, err = strconv.Atoi(port); err != nil {
			d.Port = 0
		}
	}

	if u.Opaque != "" {
		d.Path = u.Opaque
	}

	return d, nil
}

// Intent is a candidate dispatch. It is explicit when Class is set.
type Intent struct {
	// Package and Class name the explicit target, if any.
	Package string
	Class   string
	// Origin is the package of the app sending the intent.
	Origin     string
	Action     string
	Categories []string
	Data       Data
	Type       string
	Extras     map[string]string
}

func (i *Intent) Implicit() bool {
	return i.Class == ""
}

// Resolve returns the candidates intent may reach, in candidate order.
//
// An explicit target package excludes components of other packages. A
// component named by the explicit target class is accepted without
// looking at its filters or visibility. Otherwise, a component that is
// not exported is only reachable from its own package, and an implicit
// intent reaches it if one of its filters matches. A filter matches when
// its action, category and data tests all pass.
func Resolve(ctx context.Context, intent *Intent, candidates []*Component) []*Component {
	var (
		log     = logr.FromContextOrDiscard(ctx)
		matched = []*Component{}
	)

	for _, c := range candidates {
		if intent.Package != "" && intent.Package != c.Package {
			continue
		}

		if intent.Class != "" && intent.Class == c.Name {
			matched = append(matched, c)
			continue
		}

		if !c.IsExported() && intent.Origin != c.Package {
			log.V(2).Info("component not visible", "component", c.Name, "origin", intent.Origin)
			continue
		}

		if !intent.Implicit() {
			continue
		}

		for _, f := range c.Filters {
			if Match(f, intent) {
				matched = append(matched, c)
				break
			}
		}
	}

	return matched
}

// Match reports whether intent passes the action, category and data
// tests of f.
func Match(f *IntentFilter, intent *Intent) bool {
	return f.matchAction(intent.Action) &&
		f.matchCategories(intent.Categories) &&
		f.matchData(intent.Data, intent.Type)
}
