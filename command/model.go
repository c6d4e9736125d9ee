package command

import (
	"github.com/frantjc/droidui"
	"github.com/spf13/cobra"
)

func newModel(in *input) *cobra.Command {
	return &cobra.Command{
		Use:     "model [dir|apk]",
		Short:   "Summarize the model of an app",
		Version: droidui.SemVer(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ctx = cmd.Context()
				log = droidui.LoggerFrom(ctx)
			)

			m, err := in.Build(ctx, args)
			if err != nil {
				return err
			}

			if m.Warnings != nil {
				log.Info("model built with warnings", "warnings", m.Warnings.Error())
			}

			return encode(cmd, m.Summary())
		},
	}
}
