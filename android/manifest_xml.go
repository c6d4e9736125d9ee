package android

import (
	"encoding/xml"
	"io"
)

const (
	AndroidManifestName = "AndroidManifest.xml"
)

// ManifestDocument is the decoded form of an AndroidManifest.xml.
type ManifestDocument struct {
	XMLName        xml.Name             `xml:"manifest"`
	UsesPermission []ManifestElement    `xml:"uses-permission"`
	Application    *ManifestApplication `xml:"application"`
	Attrs          []xml.Attr           `xml:",any,attr"`
}

func (m *ManifestDocument) Package() string {
	v, _ := attr(m.Attrs, "package")
	return v
}

// ManifestApplication keeps every child of <application> in document
// order so that components can be listed the way they were declared.
type ManifestApplication struct {
	Components []ManifestComponent `xml:",any"`
	Attrs      []xml.Attr          `xml:",any,attr"`
}

type ManifestComponent struct {
	XMLName       xml.Name
	IntentFilters []ManifestIntentFilter `xml:"intent-filter"`
	Attrs         []xml.Attr             `xml:",any,attr"`
}

func (c *ManifestComponent) Attr(local string) (string, bool) {
	return attr(c.Attrs, local)
}

type ManifestIntentFilter struct {
	Actions    []ManifestElement `xml:"action"`
	Categories []ManifestElement `xml:"category"`
	Data       []ManifestElement `xml:"data"`
	Attrs      []xml.Attr        `xml:",any,attr"`
}

type ManifestElement struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

func (e *ManifestElement) Attr(local string) (string, bool) {
	return attr(e.Attrs, local)
}

func attr(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Local == local {
			return attr.Value, true
		}
	}

	return "", false
}

func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	doc := &ManifestDocument{}
	return doc, xml.NewDecoder(r).Decode(doc)
}
