package command

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/frantjc/droidui"
	"github.com/frantjc/droidui/android"
	"github.com/frantjc/droidui/apktool"
	"github.com/frantjc/droidui/internal/droidregexp"
	"github.com/frantjc/droidui/keytool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewDroidUI returns the root command for
// droidui which acts as its CLI entrypoint.
func NewDroidUI() *cobra.Command {
	var (
		in  = &input{}
		cmd = SetCommon(&cobra.Command{Use: "droidui"}, droidui.SemVer())
	)

	in.AddFlags(cmd)

	cmd.AddCommand(
		newModel(in),
		newView(in),
		newResolve(in),
	)

	return cmd
}

// input is how the commands find the app to model: a directory laid out
// like apktool output, an .apk to decode first, or a droidui.yml, each
// refined by flags.
type input struct {
	config            string
	manifest          string
	resources         []string
	symbols           []string
	platformResources []string
	platformSymbols   []string
	overlay           string
	classes           string
	benchmark         string
	apktool           string
	framePath         string
	keytool           string
}

func (in *input) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&in.config, "config", "c", "", "path to a "+droidui.OptionsName)
	flags.StringVar(&in.manifest, "manifest", "", "path to the "+android.AndroidManifestName)
	flags.StringSliceVar(&in.resources, "res", nil, "app res/ directories")
	flags.StringSliceVar(&in.symbols, "symbols", nil, "app "+droidui.RTxtName+" or public.xml files")
	flags.StringSliceVar(&in.platformResources, "platform-res", nil, "platform res/ directories")
	flags.StringSliceVar(&in.platformSymbols, "platform-symbols", nil, "platform "+droidui.RTxtName+" or public.xml files")
	flags.StringVar(&in.overlay, "overlay", "", "platform public.xml to overlay")
	flags.StringVar(&in.classes, "classes", "", "file listing known classes, one per line")
	flags.StringVar(&in.benchmark, "benchmark", "", "name of the exclusion list to apply")
	flags.StringVar(&in.apktool, "apktool", "apktool", "apktool executable used to decode .apks")
	flags.StringVar(&in.framePath, "frame-path", "", "framework directory apktool decodes against")
	flags.StringVar(&in.keytool, "keytool", "keytool", "keytool executable used to read .apk signers")
}

// built is a Model along with what is known about the app it was built from.
type built struct {
	*droidui.Model
	metadata *apktool.Metadata
	signers  []string
}

func (b *built) Summary() *droidui.Summary {
	s := b.Model.Summary()
	if b.metadata != nil {
		s.Version = b.metadata.SemVer()
		s.MinSDK = b.metadata.MinSDK()
	}
	s.Signers = b.signers

	return s
}

// Build builds a Model of the app named by args, the current directory
// if there is none.
func (in *input) Build(ctx context.Context, args []string) (*built, error) {
	name := "."
	if len(args) > 0 {
		name = args[0]
	}

	if droidregexp.IsAPK(name) {
		return in.buildAPK(ctx, name)
	}

	opts, err := in.options(name)
	if err != nil {
		return nil, err
	}

	m, err := droidui.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	metadata, err := openMetadata(filepath.Join(name, apktool.MetadataName))
	if err != nil {
		return nil, err
	}

	return &built{Model: m, metadata: metadata}, nil
}

func (in *input) buildAPK(ctx context.Context, name string) (*built, error) {
	ad := android.NewAPKDecoder(name,
		android.WithAPKTool(in.apktool),
		android.WithFramePath(in.framePath),
	)
	defer ad.Close()

	dir, err := ad.Dir(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := in.options(dir)
	if err != nil {
		return nil, err
	}

	m, err := droidui.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	if m.Digest, err = ad.Digest(); err != nil {
		return nil, err
	}

	metadata, err := ad.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	signers, err := keytool.Command(in.keytool).SHA256CertFingerprints(ctx, name)
	if err != nil {
		droidui.LoggerFrom(ctx).Error(err, "reading signers", "apk", name)
	}

	return &built{Model: m, metadata: metadata, signers: signers}, nil
}

func (in *input) options(dir string) (*droidui.Options, error) {
	var (
		opts *droidui.Options
		err  error
	)
	if in.config != "" {
		opts, err = droidui.OpenOptions(in.config)
	} else {
		opts, err = droidui.OptionsFromDir(dir)
	}
	if err != nil {
		return nil, err
	}

	if in.manifest != "" {
		opts.Manifest = in.manifest
	}

	if len(in.resources) > 0 {
		opts.Resources = in.resources
	}

	if len(in.symbols) > 0 {
		opts.Symbols = in.symbols
	}

	if len(in.platformResources) > 0 {
		opts.Platform.Resources = in.platformResources
	}

	if len(in.platformSymbols) > 0 {
		opts.Platform.Symbols = in.platformSymbols
	}

	if in.overlay != "" {
		opts.Platform.Overlay = in.overlay
	}

	if in.classes != "" {
		opts.Classes = in.classes
	}

	if in.benchmark != "" {
		opts.Benchmark = in.benchmark
	}

	return opts, nil
}

func openMetadata(name string) (*apktool.Metadata, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	metadata := &apktool.Metadata{}
	return metadata, yaml.NewDecoder(f).Decode(metadata)
}

func encode(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
