package droidui

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/frantjc/droidui/android"
	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/resource"
	xslice "github.com/frantjc/x/slice"
	"gopkg.in/yaml.v3"
)

const (
	// OptionsName is the file OptionsFromDir looks for in an app directory.
	OptionsName = "droidui.yml"
	// RTxtName is the symbol table aapt writes next to a build.
	RTxtName = "R.txt"
)

// PlatformOptions point at the resources of the platform an app is
// built against.
type PlatformOptions struct {
	// Resources are res/ directories holding platform layouts and values.
	Resources []string `yaml:"resources,omitempty"`
	// Symbols are R.txt or public.xml files naming platform constants.
	Symbols []string `yaml:"symbols,omitempty"`
	// Overlay is a public.xml whose identifiers are registered on top
	// of the platform constants.
	Overlay string `yaml:"overlay,omitempty"`
}

// Options configure Build. They are usually decoded from a droidui.yml.
type Options struct {
	Manifest string `yaml:"manifest"`
	// Resources are the app's res/ directories.
	Resources []string `yaml:"resources,omitempty"`
	// Symbols are R.txt or public.xml files naming the app's constants.
	Symbols  []string        `yaml:"symbols,omitempty"`
	Platform PlatformOptions `yaml:"platform,omitempty"`
	// Classes is a file listing the classes the app and platform define,
	// one per line. Without it every class is assumed to exist.
	Classes string `yaml:"classes,omitempty"`
	// Benchmark selects the entry of Exclusions that applies.
	Benchmark  string              `yaml:"benchmark,omitempty"`
	Exclusions map[string][]string `yaml:"exclusions,omitempty"`

	// Constants, if set, is used in place of Symbols.
	Constants resource.ConstantProvider `yaml:"-"`
	// ClassRegistry, if set, is used in place of Classes.
	ClassRegistry classes.Registry `yaml:"-"`
}

// DecodeOptions reads Options from YAML. Relative paths are taken
// relative to dir.
func DecodeOptions(r io.Reader, dir string) (*Options, error) {
	opts := &Options{}
	if err := yaml.NewDecoder(r).Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	opts.rebase(dir)

	return opts, nil
}

func OpenOptions(name string) (*Options, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeOptions(f, filepath.Dir(name))
}

// OptionsFromDir returns Options for an app laid out the way apktool
// decodes one: AndroidManifest.xml and res/ at the top, symbols in R.txt
// or res/values/public.xml. A droidui.yml in dir, if any, is read and
// fills in whatever it leaves unset.
func OptionsFromDir(dir string) (*Options, error) {
	opts, err := OpenOptions(filepath.Join(dir, OptionsName))
	if errors.Is(err, fs.ErrNotExist) {
		opts = &Options{}
	} else if err != nil {
		return nil, err
	}

	if opts.Manifest == "" {
		opts.Manifest = filepath.Join(dir, android.AndroidManifestName)
	}

	if len(opts.Resources) == 0 {
		if res := filepath.Join(dir, "res"); exists(res) {
			opts.Resources = []string{res}
		}
	}

	if len(opts.Symbols) == 0 {
		opts.Symbols = xslice.Filter(
			[]string{
				filepath.Join(dir, RTxtName),
				filepath.Join(dir, "res", "values", resource.PublicXMLName),
			},
			func(name string, _ int) bool {
				return exists(name)
			},
		)
	}

	return opts, nil
}

// Excluded returns the component names excluded for the selected benchmark.
func (o *Options) Excluded() []string {
	if o.Exclusions == nil {
		return nil
	}

	return o.Exclusions[o.Benchmark]
}

func (o *Options) rebase(dir string) {
	join := func(name string, _ int) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}

		return filepath.Join(dir, name)
	}

	o.Manifest = join(o.Manifest, 0)
	o.Resources = xslice.Map(o.Resources, join)
	o.Symbols = xslice.Map(o.Symbols, join)
	o.Platform.Resources = xslice.Map(o.Platform.Resources, join)
	o.Platform.Symbols = xslice.Map(o.Platform.Symbols, join)
	o.Platform.Overlay = join(o.Platform.Overlay, 0)
	o.Classes = join(o.Classes, 0)
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
