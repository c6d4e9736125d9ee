package resource

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/internal/droidregexp"
	xslice "github.com/frantjc/x/slice"
	"github.com/go-logr/logr"
)

// ValueTypes are the types whose text is kept in a Catalog.
var ValueTypes = []Type{TypeString, TypeColor, TypeDimen, TypeInteger, TypeBool}

type valuesXML struct {
	XMLName xml.Name        `xml:"resources"`
	Items   []valuesXMLItem `xml:",any"`
}

type valuesXMLItem struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

func (i valuesXMLItem) resourceType() Type {
	if i.XMLName.Local == "item" {
		return Type(i.Type)
	}

	return Type(i.XMLName.Local)
}

// DecodeValues reads one values document into ns of c.
func DecodeValues(r io.Reader, c *Catalog, ns Namespace) (int, error) {
	doc := &valuesXML{}
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return 0, err
	}

	n := 0
	for _, item := range doc.Items {
		typ := item.resourceType()
		if item.Name == "" || !xslice.Includes(ValueTypes, typ) {
			continue
		}

		c.SetText(typ, ns, item.Name, strings.TrimSpace(item.Value))
		n++
	}

	return n, nil
}

// LoadValues reads the default values shards (strings.xml, strings_2.xml,
// colors.xml, ...) under resDir. A shard that cannot be decoded is
// logged and skipped; its error is returned alongside the others.
func LoadValues(log logr.Logger, c *Catalog, ns Namespace, resDir string) error {
	dir := filepath.Join(resDir, "values")

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && droidregexp.IsValuesShard(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		path := filepath.Join(dir, name)

		n, err := loadValuesFile(c, ns, path)
		if err != nil {
			log.Error(err, "skipping malformed values document", "path", path)
			errs = append(errs, droiderr.New(fmt.Errorf("%s: %w", path, err), droiderr.Malformed))
			continue
		}

		log.V(2).Info("loaded values", "path", path, "count", n)
	}

	return errors.Join(errs...)
}

func loadValuesFile(c *Catalog, ns Namespace, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return DecodeValues(f, c, ns)
}
