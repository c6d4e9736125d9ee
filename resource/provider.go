package resource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/internal/droidregexp"
	"github.com/go-logr/logr"
)

// ErrNoContainer is returned by a ConstantProvider that knows nothing
// about the requested container.
var ErrNoContainer = errors.New("constant container not found")

// ConstantProvider enumerates the integer constant fields of a
// container type such as com.example.R$id.
type ConstantProvider interface {
	Constants(container string) (map[string]int, error)
}

// Container returns the name of the generated constants class for typ in pkg.
func Container(pkg string, typ Type) string {
	return pkg + ".R$" + string(typ)
}

func containerType(container string) (Type, bool) {
	i := strings.LastIndex(container, "R$")
	if i < 0 {
		return "", false
	}

	return Type(container[i+2:]), true
}

// Seed registers every constant p knows for pkg into ns.
func Seed(log logr.Logger, c *Catalog, p ConstantProvider, ns Namespace, pkg string, types ...Type) error {
	if len(types) == 0 {
		types = Types
	}

	var errs []error
	for _, typ := range types {
		container := Container(pkg, typ)

		fields, err := p.Constants(container)
		if errors.Is(err, ErrNoContainer) {
			continue
		} else if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", container, err))
			continue
		}

		for name, value := range fields {
			c.Register(typ, ns, name, value)
		}

		log.V(2).Info("seeded constants", "container", container, "count", len(fields))
	}

	return droiderr.New(errors.Join(errs...), droiderr.Malformed)
}

// Providers tries each ConstantProvider in order and merges what they find.
type Providers []ConstantProvider

func (ps Providers) Constants(container string) (map[string]int, error) {
	var (
		fields = map[string]int{}
		found  bool
	)
	for _, p := range ps {
		f, err := p.Constants(container)
		if errors.Is(err, ErrNoContainer) {
			continue
		} else if err != nil {
			return nil, err
		}

		found = true
		for k, v := range f {
			fields[k] = v
		}
	}

	if !found {
		return nil, ErrNoContainer
	}

	return fields, nil
}

// RTxt is the symbol table aapt writes next to a build, keyed by type.
type RTxt map[Type]map[string]int

// ReadRTxt parses an R.txt. Styleable arrays are ignored.
func ReadRTxt(r io.Reader) (RTxt, error) {
	var (
		rtxt    = RTxt{}
		scanner = bufio.NewScanner(r)
		line    int
	)
	for scanner.Scan() {
		line++

		m := droidregexp.RTxtLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}

		value, err := strconv.ParseInt(m[3], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		typ := Type(m[1])
		if rtxt[typ] == nil {
			rtxt[typ] = map[string]int{}
		}

		rtxt[typ][m[2]] = int(value)
	}

	return rtxt, scanner.Err()
}

func OpenRTxt(name string) (RTxt, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadRTxt(f)
}

func (r RTxt) Constants(container string) (map[string]int, error) {
	typ, ok := containerType(container)
	if !ok {
		return nil, ErrNoContainer
	}

	fields, ok := r[typ]
	if !ok {
		return nil, ErrNoContainer
	}

	return fields, nil
}
