package android

import (
	"regexp"
	"slices"
	"strings"
)

const (
	// ActionMain is the action of an app's entry point.
	ActionMain = "android.intent.action.MAIN"
	// CategoryLauncher means the activity is listed in the top-level launcher.
	CategoryLauncher = "android.intent.category.LAUNCHER"
	// CategoryDefault is the category every implicit startActivity carries.
	CategoryDefault = "android.intent.category.DEFAULT"
)

// DataSpec is one <data> element of an intent filter. Every field is
// optional; Port is 0 when absent.
type DataSpec struct {
	Scheme      string `yaml:"scheme,omitempty"`
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	Path        string `yaml:"path,omitempty"`
	PathPrefix  string `yaml:"pathPrefix,omitempty"`
	PathPattern string `yaml:"pathPattern,omitempty"`
	MimeType    string `yaml:"mimeType,omitempty"`
}

// IntentFilter is one declared <intent-filter>. A facet the filter does
// not declare places no constraint on intents.
type IntentFilter struct {
	Actions    []string   `yaml:"actions,omitempty"`
	Categories []string   `yaml:"categories,omitempty"`
	Data       []DataSpec `yaml:"data,omitempty"`
}

func (f *IntentFilter) HasAction(action string) bool {
	return slices.Contains(f.Actions, action)
}

func (f *IntentFilter) HasCategory(category string) bool {
	return slices.Contains(f.Categories, category)
}

// IsLauncher reports whether f combines the MAIN action with the
// LAUNCHER category.
func (f *IntentFilter) IsLauncher() bool {
	return f.HasAction(ActionMain) && f.HasCategory(CategoryLauncher)
}

func (f *IntentFilter) Schemes() []string {
	schemes := []string{}
	for _, d := range f.Data {
		if d.Scheme != "" && !slices.Contains(schemes, d.Scheme) {
			schemes = append(schemes, d.Scheme)
		}
	}

	return schemes
}

func (f *IntentFilter) Types() []string {
	types := []string{}
	for _, d := range f.Data {
		if d.MimeType != "" && !slices.Contains(types, d.MimeType) {
			types = append(types, d.MimeType)
		}
	}

	return types
}

// HasURIFacet reports whether f declares any scheme, authority or path.
func (f *IntentFilter) HasURIFacet() bool {
	return slices.ContainsFunc(f.Data, func(d DataSpec) bool {
		return d.Scheme != "" || d.Host != "" || d.Port != 0 || d.Path != "" || d.PathPrefix != "" || d.PathPattern != ""
	})
}

func (f *IntentFilter) HasType() bool {
	return len(f.Types()) > 0
}

// matchAction passes an intent without an action against any filter.
func (f *IntentFilter) matchAction(action string) bool {
	return action == "" || len(f.Actions) == 0 || f.HasAction(action)
}

func (f *IntentFilter) matchCategories(categories []string) bool {
	for _, c := range categories {
		if !f.HasCategory(c) {
			return false
		}
	}

	return true
}

func (f *IntentFilter) matchData(data Data, typ string) bool {
	var (
		hasURI  = !data.IsZero()
		hasType = typ != ""
	)

	switch {
	case !hasURI && !hasType:
		return !f.HasURIFacet() && !f.HasType()
	case hasURI && !hasType:
		return f.matchURI(data) && !f.HasType()
	case !hasURI && hasType:
		return slices.Contains(f.Types(), typ) && !f.HasURIFacet()
	}

	// A declared type also stands in for the URI facet.
	return slices.Contains(f.Types(), typ)
}

// matchURI matches each URI facet independently. A filter without a
// scheme matches no URI, a host declared without any scheme is ignored,
// and so is a path declared without both a scheme and a host.
func (f *IntentFilter) matchURI(data Data) bool {
	schemes := f.Schemes()
	if len(schemes) == 0 {
		return false
	} else if !slices.Contains(schemes, data.Scheme) {
		return false
	}

	authorities := []DataSpec{}
	for _, d := range f.Data {
		if d.Host != "" {
			authorities = append(authorities, d)
		}
	}

	if len(authorities) == 0 {
		return true
	} else if !slices.ContainsFunc(authorities, func(d DataSpec) bool { return matchAuthority(d, data) }) {
		return false
	}

	paths := []DataSpec{}
	for _, d := range f.Data {
		if d.Path != "" || d.PathPrefix != "" || d.PathPattern != "" {
			paths = append(paths, d)
		}
	}

	return len(paths) == 0 || slices.ContainsFunc(paths, func(d DataSpec) bool { return matchPath(d, data.Path) })
}

func matchAuthority(d DataSpec, data Data) bool {
	if d.Port != 0 && d.Port != data.Port {
		return false
	}

	if d.Host == "*" {
		return true
	} else if suffix, ok := strings.CutPrefix(d.Host, "*"); ok {
		return strings.HasSuffix(data.Host, suffix)
	}

	return d.Host == data.Host
}

func matchPath(d DataSpec, path string) bool {
	switch {
	case d.Path != "":
		return d.Path == path
	case d.PathPrefix != "":
		return strings.HasPrefix(path, d.PathPrefix)
	case d.PathPattern != "":
		return MatchSimpleGlob(d.PathPattern, path)
	}

	return false
}

// MatchSimpleGlob matches s against a platform "simple glob": '.' matches
// any character, '*' repeats the preceding character zero or more times
// and '\' escapes the next character.
func MatchSimpleGlob(pattern, s string) bool {
	var (
		b    strings.Builder
		prev bool
	)
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '\\' && i+1 < len(pattern):
			i++
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			prev = true
		case c == '.':
			b.WriteString("(?s:.)")
			prev = true
		case c == '*' && prev:
			b.WriteString("*")
			prev = false
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			prev = true
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}

	return re.MatchString(s)
}

// FilterRegistry owns the intent filters declared by each component and
// tracks the single launcher filter.
type FilterRegistry struct {
	filters        map[string][]*IntentFilter
	launcher       *IntentFilter
	launcherHolder string
}

func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{filters: map[string][]*IntentFilter{}}
}

func (r *FilterRegistry) Add(component string, f *IntentFilter) {
	r.filters[component] = append(r.filters[component], f)
}

// Filters returns the filters of component in declaration order.
func (r *FilterRegistry) Filters(component string) []*IntentFilter {
	return r.filters[component]
}

// SetLauncher designates f, declared by component, as the launcher
// filter. It reports false, changing nothing, if one is already set.
func (r *FilterRegistry) SetLauncher(component string, f *IntentFilter) bool {
	if r.launcher != nil {
		return false
	}

	r.launcher, r.launcherHolder = f, component
	return true
}

// LauncherFilter returns the launcher filter and the component declaring it.
func (r *FilterRegistry) LauncherFilter() (*IntentFilter, string, bool) {
	return r.launcher, r.launcherHolder, r.launcher != nil
}
