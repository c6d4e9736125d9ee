package command

import (
	"github.com/frantjc/droidui"
	"github.com/frantjc/droidui/android"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
)

func newResolve(in *input) *cobra.Command {
	var (
		intent = &android.Intent{}
		data   string
		cmd    = &cobra.Command{
			Use:     "resolve [dir|apk]",
			Short:   "List the components an intent reaches",
			Version: droidui.SemVer(),
			Args:    cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx = cmd.Context()
					err error
				)

				if intent.Data, err = android.ParseData(data); err != nil {
					return err
				}

				m, err := in.Build(ctx, args)
				if err != nil {
					return err
				}

				if intent.Origin == "" {
					intent.Origin = m.Manifest.Package
				}

				return encode(cmd, xslice.Map(m.Resolve(ctx, intent), func(c *android.Component, _ int) string {
					return c.Name
				}))
			},
		}
	)

	cmd.Flags().StringVar(&intent.Action, "action", "", "intent action")
	cmd.Flags().StringSliceVar(&intent.Categories, "category", nil, "intent categories")
	cmd.Flags().StringVar(&data, "data", "", "intent data URI")
	cmd.Flags().StringVar(&intent.Type, "type", "", "intent MIME type")
	cmd.Flags().StringVar(&intent.Class, "class", "", "explicit target class")
	cmd.Flags().StringVar(&intent.Package, "package", "", "explicit target package")
	cmd.Flags().StringVar(&intent.Origin, "origin", "", "package sending the intent, the app's own by default")
	cmd.Flags().StringToStringVar(&intent.Extras, "extra", nil, "intent extras")

	return cmd
}
