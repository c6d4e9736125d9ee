package resource

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/go-logr/logr"
)

const (
	PublicXMLName = "public.xml"
)

// PublicXML is a res/values/public.xml document: the list of resource
// identifiers a package exposes.
type PublicXML struct {
	XMLName xml.Name         `xml:"resources"`
	Public  []PublicXMLEntry `xml:"public"`
}

type PublicXMLEntry struct {
	Type string `xml:"type,attr"`
	Name string `xml:"name,attr"`
	ID   string `xml:"id,attr"`
}

func (e PublicXMLEntry) Value() (int, error) {
	v, err := strconv.ParseInt(e.ID, 0, 64)
	return int(v), err
}

func DecodePublicXML(r io.Reader) (*PublicXML, error) {
	p := &PublicXML{}
	return p, xml.NewDecoder(r).Decode(p)
}

func OpenPublicXML(name string) (*PublicXML, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodePublicXML(f)
}

// Constants lets a decoded app's own public.xml act as its compiled
// constants. Entries with unparsable ids are left out.
func (p *PublicXML) Constants(container string) (map[string]int, error) {
	typ, ok := containerType(container)
	if !ok {
		return nil, ErrNoContainer
	}

	var fields map[string]int
	for _, e := range p.Public {
		if Type(e.Type) != typ {
			continue
		}

		v, err := e.Value()
		if err != nil {
			continue
		}

		if fields == nil {
			fields = map[string]int{}
		}
		fields[e.Name] = v
	}

	if fields == nil {
		return nil, ErrNoContainer
	}

	return fields, nil
}

// OverlayInto injects every entry into the platform namespace of c,
// returning how many were applied.
func (p *PublicXML) OverlayInto(log logr.Logger, c *Catalog) int {
	n := 0
	for _, e := range p.Public {
		v, err := e.Value()
		if err != nil {
			log.V(1).Info("skipping public identifier with malformed id", "type", e.Type, "name", e.Name, "id", e.ID)
			continue
		}

		c.Overlay(Type(e.Type), e.Name, v)
		n++
	}

	return n
}
