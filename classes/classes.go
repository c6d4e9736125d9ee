// Package classes describes the class hierarchy collaborator the model
// builder consults to turn widget tags and manifest entries into types.
package classes

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Ref is a resolved class.
type Ref interface {
	Name() string
	// Phantom reports whether the class is referenced but has no definition.
	Phantom() bool
}

// Registry resolves fully-qualified class names.
type Registry interface {
	Resolve(name string) Ref
}

type ref struct {
	name    string
	phantom bool
}

func (r ref) Name() string {
	return r.name
}

func (r ref) Phantom() bool {
	return r.phantom
}

func NewRef(name string, phantom bool) Ref {
	return ref{name: name, phantom: phantom}
}

// Set is a Registry backed by a fixed set of known class names. Names
// outside the set resolve to phantom references. A nil Set knows
// every class.
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := Set{}
	s.Add(names...)
	return s
}

func (s Set) Add(names ...string) {
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s[name] = struct{}{}
		}
	}
}

func (s Set) Resolve(name string) Ref {
	if s == nil {
		return ref{name: name}
	}

	_, ok := s[name]
	return ref{name: name, phantom: !ok}
}

// ReadSet reads a Set from one class name per line. Blank lines and
// lines starting with # are skipped.
func ReadSet(r io.Reader) (Set, error) {
	var (
		s       = Set{}
		scanner = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			s.Add(line)
		}
	}

	return s, scanner.Err()
}

func OpenSet(name string) (Set, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSet(f)
}

// Platform are the framework view classes every Set built by
// WithPlatform knows about.
var Platform = []string{
	"android.view.View",
	"android.view.ViewGroup",
	"android.view.ViewStub",
	"android.view.SurfaceView",
	"android.view.TextureView",
	"android.view.Menu",
	"android.view.MenuItem",
	"android.webkit.WebView",
	"android.widget.AbsListView",
	"android.widget.Button",
	"android.widget.CheckBox",
	"android.widget.EditText",
	"android.widget.FrameLayout",
	"android.widget.GridView",
	"android.widget.ImageButton",
	"android.widget.ImageView",
	"android.widget.LinearLayout",
	"android.widget.ListView",
	"android.widget.ProgressBar",
	"android.widget.RadioButton",
	"android.widget.RadioGroup",
	"android.widget.RelativeLayout",
	"android.widget.ScrollView",
	"android.widget.SeekBar",
	"android.widget.Spinner",
	"android.widget.Switch",
	"android.widget.TableLayout",
	"android.widget.TableRow",
	"android.widget.TextView",
	"android.widget.ToggleButton",
}

// WithPlatform returns s extended with the Platform classes.
func WithPlatform(s Set) Set {
	if s == nil {
		return nil
	}

	s.Add(Platform...)
	return s
}
