package android

import (
	"context"
	"os"
	"path/filepath"

	"github.com/frantjc/droidui/apktool"
	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

// APKDecoder unpacks an .apk with apktool so that its manifest and
// resources can be read as plain XML.
type APKDecoder struct {
	Name string

	apktool   string
	framePath string
	dir       string
	tmp       bool
	decoded   bool
	metadata  *apktool.Metadata
}

type APKDecoderOpt func(*APKDecoder)

func WithAPKTool(b string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.apktool = b
	}
}

// WithFramePath points apktool at a directory of framework .apks to
// decode against.
func WithFramePath(dir string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.framePath = dir
	}
}

// WithDir decodes into dir instead of a temporary directory. Close
// leaves dir in place.
func WithDir(dir string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.dir = dir
	}
}

func NewAPKDecoder(name string, opts ...APKDecoderOpt) *APKDecoder {
	ad := &APKDecoder{Name: name, apktool: "apktool"}

	for _, opt := range opts {
		opt(ad)
	}

	return ad
}

func (a *APKDecoder) decode(ctx context.Context) error {
	if a.decoded {
		return nil
	} else if a.dir == "" {
		var err error
		a.dir, err = os.MkdirTemp(filepath.Dir(a.Name), "*")
		if err != nil {
			return err
		}
		a.tmp = true
	}

	opts := &apktool.DecodeOpts{
		Force:           true,
		NoSources:       true,
		FramePath:       a.framePath,
		OutputDirectory: a.dir,
	}

	if err := apktool.Command(a.apktool).Decode(ctx, a.Name, opts); err != nil {
		return err
	}

	a.decoded = true

	return nil
}

// Dir decodes the .apk if need be and returns the directory it was
// decoded into.
func (a *APKDecoder) Dir(ctx context.Context) (string, error) {
	if err := a.decode(ctx); err != nil {
		return "", err
	}

	return a.dir, nil
}

func (a *APKDecoder) Metadata(ctx context.Context) (*apktool.Metadata, error) {
	if err := a.decode(ctx); err != nil {
		return nil, err
	}

	if a.metadata != nil {
		return a.metadata, nil
	}

	f, err := os.Open(filepath.Join(a.dir, apktool.MetadataName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a.metadata = &apktool.Metadata{}
	return a.metadata, yaml.NewDecoder(f).Decode(a.metadata)
}

// Digest is the digest of the .apk itself.
func (a *APKDecoder) Digest() (digest.Digest, error) {
	f, err := os.Open(a.Name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return digest.FromReader(f)
}

func (a *APKDecoder) Close() error {
	if a.tmp {
		if err := os.RemoveAll(a.dir); err != nil {
			return err
		}
		a.dir, a.tmp = "", false
	}

	a.decoded = false
	a.metadata = nil

	return nil
}
