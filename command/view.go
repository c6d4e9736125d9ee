package command

import (
	"fmt"
	"strconv"

	"github.com/frantjc/droidui"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/layout"
	"github.com/spf13/cobra"
)

func newView(in *input) *cobra.Command {
	return &cobra.Command{
		Use:     "view <id|name> [dir|apk]",
		Short:   "Print the view tree under an id",
		Version: droidui.SemVer(),
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := in.Build(cmd.Context(), args[1:])
			if err != nil {
				return err
			}

			var (
				n  *layout.Node
				ok bool
			)
			if id, err := strconv.ParseInt(args[0], 0, 64); err == nil {
				n, ok = m.FindViewByID(int(id))
			} else {
				n, ok = m.FindViewByName(args[0])
			}
			if !ok {
				return droiderr.New(fmt.Errorf("view %s not found", args[0]), droiderr.Missing)
			}

			return encode(cmd, m.View(n))
		},
	}
}
